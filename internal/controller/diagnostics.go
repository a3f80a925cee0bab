package controller

import "log/slog"

// LogDiagnostics reports failures to a structured logger.
type LogDiagnostics struct {
	Logger *slog.Logger
}

// Report logs err at error level under op.
func (d LogDiagnostics) Report(op string, err error, attrs ...any) {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	args := append([]any{"op", op, "error", err}, attrs...)
	logger.Error("controller failure", args...)
}
