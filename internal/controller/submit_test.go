package controller

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

const waitTimeout = 2 * time.Second

func TestSubmit_LocksFormBeforeCall(t *testing.T) {
	s := &fakeSession{}
	m, _, _ := signedInModel(t, s)
	m = typeText(t, m, "world")

	m, cmd := updateCmd(t, m, keyMsg("enter"))

	if cmd == nil {
		t.Fatal("submit should dispatch the greeting call")
	}
	if !m.form.locked() {
		t.Error("field group should be disabled as soon as submit starts")
	}
	if m.form.input.Focused() {
		t.Error("name field should lose focus while locked")
	}
	if _, _, names := s.calls(); len(names) != 0 {
		t.Errorf("remote call ran synchronously: %v", names)
	}
	if !strings.Contains(m.View(), statusSending) {
		t.Errorf("view should show the sending status:\n%s", m.View())
	}
}

func TestSubmit_Success(t *testing.T) {
	// Given a signed-in model with "world" typed
	s := &fakeSession{}
	m, clock, diag := signedInModel(t, s)
	m = typeText(t, m, "world")

	// When submitting and the call resolves
	m, cmd := updateCmd(t, m, keyMsg("enter"))
	result, ok := findMsg[SubmitResultMsg](t, cmd)
	if !ok {
		t.Fatal("call should produce a SubmitResultMsg")
	}
	m, cmd = updateCmd(t, m, result)

	// Then the group is re-enabled, submit stays disabled, notification shows
	if _, _, names := s.calls(); len(names) != 1 || names[0] != "world" {
		t.Errorf("remote call names = %v, want [world]", names)
	}
	if m.form.locked() {
		t.Error("field group should be re-enabled after the call settles")
	}
	if m.form.canSubmit() {
		t.Error("submit control must stay disabled while the notification is visible")
	}
	if !m.notification.visible || m.notification.content != "Hello, world!" {
		t.Errorf("notification = %+v, want visible Hello, world!", m.notification)
	}
	if !strings.Contains(m.View(), "Hello, world!") {
		t.Errorf("view should render the notification:\n%s", m.View())
	}
	if m.alert != "" || len(diag.all()) != 0 {
		t.Errorf("success must not alert or report: alert=%q diag=%v", m.alert, diag.all())
	}

	// When 4999ms elapse nothing changes; at 5000ms the cycle ends
	msgs := collect(cmd)
	if err := clock.BlockUntilContext(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	clock.Advance(DefaultNotificationDuration - time.Millisecond)
	if _, fired := receive[NotificationExpiredMsg](msgs, 50*time.Millisecond); fired {
		t.Fatal("notification expired before 5000ms")
	}
	clock.Advance(time.Millisecond)
	expired, ok := receive[NotificationExpiredMsg](msgs, waitTimeout)
	if !ok {
		t.Fatal("notification should expire after 5000ms")
	}
	m = update(t, m, expired)

	if m.notification.visible {
		t.Error("notification should be hidden after the window")
	}
	if !m.form.canSubmit() {
		t.Error("submit control should be re-enabled after the window")
	}
	if m.notification.content != "Hello, world!" {
		t.Errorf("content = %q, hiding must keep the last message", m.notification.content)
	}
}

func TestSubmit_Failure(t *testing.T) {
	// Given a previous successful message in the notification
	s := &fakeSession{}
	m, clock, diag := signedInModel(t, s)
	m.notification.content = "Hello, earlier!"
	m = typeText(t, m, "world")
	s.helloErr = errBoom

	// When the call rejects
	m, cmd := updateCmd(t, m, keyMsg("enter"))
	result, _ := findMsg[SubmitResultMsg](t, cmd)
	m, cmd = updateCmd(t, m, result)

	// Then the user is alerted, diagnostics get the error, and the form unlocks
	if m.alert != AlertMessage {
		t.Errorf("alert = %q, want fixed guidance message", m.alert)
	}
	reports := diag.all()
	if len(reports) != 1 || reports[0].op != "get_hello" || !errors.Is(reports[0].err, errBoom) {
		t.Errorf("diagnostics = %+v, want one get_hello report", reports)
	}
	if m.form.locked() {
		t.Error("field group should be re-enabled on failure")
	}
	if m.form.canSubmit() {
		t.Error("submit control should stay disabled through the notification cycle")
	}
	if !m.notification.visible || m.notification.content != "Hello, earlier!" {
		t.Errorf("notification = %+v, want visible with stale content", m.notification)
	}

	// And the dismiss still runs
	msgs := collect(cmd)
	if err := clock.BlockUntilContext(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	clock.Advance(DefaultNotificationDuration)
	expired, ok := receive[NotificationExpiredMsg](msgs, waitTimeout)
	if !ok {
		t.Fatal("notification should expire on the failure path too")
	}
	m = update(t, m, expired)
	if m.notification.visible || !m.form.canSubmit() {
		t.Errorf("after window: visible=%v canSubmit=%v", m.notification.visible, m.form.canSubmit())
	}
}

func TestSubmit_LongNameSentUnchanged(t *testing.T) {
	s := &fakeSession{}
	m, _, _ := signedInModel(t, s)
	name := strings.Repeat("a", 100)
	m = typeText(t, m, name)

	_, cmd := updateCmd(t, m, keyMsg("enter"))
	if _, ok := findMsg[SubmitResultMsg](t, cmd); !ok {
		t.Fatal("call should produce a SubmitResultMsg")
	}

	_, _, names := s.calls()
	if len(names) != 1 {
		t.Fatalf("remote calls = %d, want 1", len(names))
	}
	if got := utf8.RuneCountInString(names[0]); got != 100 || names[0] != name {
		t.Errorf("sent name has %d runes, want all 100", got)
	}
}

func TestSubmit_PanicIsRecovered(t *testing.T) {
	s := &fakeSession{panicMsg: "sdk exploded"}
	m, _, diag := signedInModel(t, s)

	m, cmd := updateCmd(t, m, keyMsg("enter"))
	result, ok := findMsg[SubmitResultMsg](t, cmd)
	if !ok {
		t.Fatal("a panicking call should still produce a SubmitResultMsg")
	}
	if result.Err == nil || !strings.Contains(result.Err.Error(), "sdk exploded") {
		t.Fatalf("Err = %v, want panic value", result.Err)
	}
	m = update(t, m, result)

	if m.form.locked() {
		t.Error("form should unlock after a panicking call")
	}
	if m.alert != AlertMessage || len(diag.all()) != 1 {
		t.Errorf("alert=%q diagnostics=%d", m.alert, len(diag.all()))
	}
}

func TestSubmit_RefusedWhileLocked(t *testing.T) {
	s := &fakeSession{}
	m, _, _ := signedInModel(t, s)
	m, first := updateCmd(t, m, keyMsg("enter"))

	m, second := updateCmd(t, m, keyMsg("enter"))

	if first == nil {
		t.Fatal("first submit should dispatch a call")
	}
	if second != nil {
		t.Error("second submit while locked must not dispatch a call")
	}
	if m.inFlight != "sub-1" {
		t.Errorf("inFlight = %q, want sub-1", m.inFlight)
	}
}

func TestSubmit_RefusedWhileNotificationVisible(t *testing.T) {
	s := &fakeSession{}
	m, _, _ := signedInModel(t, s)
	m, cmd := updateCmd(t, m, keyMsg("enter"))
	result, _ := findMsg[SubmitResultMsg](t, cmd)
	m = update(t, m, result)

	m, cmd = updateCmd(t, m, keyMsg("enter"))

	if cmd != nil {
		t.Error("submit must be ignored until the notification window ends")
	}
	if m.form.locked() {
		t.Error("refused submit must not lock the form")
	}
}

func TestSubmit_TypingIgnoredWhileLocked(t *testing.T) {
	m, _, _ := signedInModel(t, &fakeSession{})
	m = typeText(t, m, "ab")
	m = update(t, m, keyMsg("enter"))

	m = typeText(t, m, "cd")

	if got := m.form.value(); got != "ab" {
		t.Errorf("value = %q, want ab", got)
	}
}

func TestSubmitResult_IgnoresUnknownID(t *testing.T) {
	m, _, _ := signedInModel(t, &fakeSession{})
	m = update(t, m, keyMsg("enter"))

	m = update(t, m, SubmitResultMsg{ID: "other", Message: "nope"})

	if !m.form.locked() {
		t.Error("a result for another submission must not unlock the form")
	}
	if m.notification.visible {
		t.Error("a result for another submission must not show the notification")
	}
}

func TestNotificationExpired_IgnoresStaleCycle(t *testing.T) {
	m, _, _ := signedInModel(t, &fakeSession{})
	m, cmd := updateCmd(t, m, keyMsg("enter"))
	result, _ := findMsg[SubmitResultMsg](t, cmd)
	m = update(t, m, result)

	m = update(t, m, NotificationExpiredMsg{ID: "sub-0"})

	if !m.notification.visible {
		t.Error("stale expiry must not hide the current notification")
	}
	if m.form.canSubmit() {
		t.Error("stale expiry must not re-enable submit")
	}
}

func TestWithNotificationDuration(t *testing.T) {
	s := &fakeSession{}
	m, clock, _ := signedInModel(t, s)
	WithNotificationDuration(time.Second)(&m)
	WithNotificationDuration(0)(&m)

	m, cmd := updateCmd(t, m, keyMsg("enter"))
	result, _ := findMsg[SubmitResultMsg](t, cmd)
	_, cmd = updateCmd(t, m, result)

	msgs := collect(cmd)
	if err := clock.BlockUntilContext(context.Background(), 1); err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Second)
	if _, ok := receive[NotificationExpiredMsg](msgs, waitTimeout); !ok {
		t.Error("custom notification duration should be honored")
	}
}

func TestForm_SettleReleasesOnPanic(t *testing.T) {
	f := newForm()
	if !f.acquire() {
		t.Fatal("acquire() on an idle form should succeed")
	}

	func() {
		defer func() { _ = recover() }()
		f.settle(func() { panic("early exit") })
	}()

	if f.locked() {
		t.Error("settle must release the field group on every exit path")
	}
	if f.canSubmit() {
		t.Error("release keeps the submit control disabled")
	}
}
