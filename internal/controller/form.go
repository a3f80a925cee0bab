package controller

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// form is the greeting form: a single name field plus its submit control.
// The field group and the submit control are disabled independently: the
// group only while a call is outstanding, the submit control until the
// notification cycle that follows completes.
type form struct {
	input            textinput.Model
	fieldsetDisabled bool
	submitDisabled   bool
}

func newForm() form {
	ti := textinput.New()
	ti.Placeholder = "name"
	ti.Prompt = "› "
	ti.CharLimit = 0 // unlimited
	return form{input: ti}
}

// focus gives the name field keyboard focus.
func (f *form) focus() tea.Cmd {
	return f.input.Focus()
}

// acquire locks the form for a submission. It fails while a submission is
// outstanding or its notification is still displayed.
func (f *form) acquire() bool {
	if f.fieldsetDisabled || f.submitDisabled {
		return false
	}
	f.fieldsetDisabled = true
	f.input.Blur()
	return true
}

// release re-enables the field group and keeps the submit control disabled.
func (f *form) release() tea.Cmd {
	f.fieldsetDisabled = false
	f.submitDisabled = true
	return f.input.Focus()
}

// settle runs fn with the form locked and releases it on every exit path,
// including a panic in fn.
func (f *form) settle(fn func()) (cmd tea.Cmd) {
	defer func() { cmd = f.release() }()
	fn()
	return nil
}

// enableSubmit ends the notification cycle.
func (f *form) enableSubmit() {
	f.submitDisabled = false
}

// locked reports whether a call is outstanding.
func (f form) locked() bool {
	return f.fieldsetDisabled
}

// canSubmit reports whether the submit control is interactive.
func (f form) canSubmit() bool {
	return !f.fieldsetDisabled && !f.submitDisabled
}

func (f form) value() string {
	return f.input.Value()
}

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if f.fieldsetDisabled {
		return f, nil
	}
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return f, cmd
}
