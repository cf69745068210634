package authdash

import "testing"

func TestModal_Lifecycle(t *testing.T) {
	m := &Modal{Name: "change-username", Form: NewFormView(ChangeUsernameSchema, "/x", Values{"username": "typed"}, FieldErrors{"username": "bad"}, nil)}
	if m.Visible() {
		t.Fatal("new modal should be hidden")
	}
	if m.RequestClose(CloseButton) {
		t.Error("hidden modal cannot be closed")
	}

	m.Open()
	if m.State != ModalVisible || !m.Visible() {
		t.Fatalf("state after Open = %v", m.State)
	}

	if !m.RequestClose(CloseEscape) {
		t.Fatal("visible modal should accept a close")
	}
	if m.State != ModalClosing {
		t.Errorf("state = %v, want closing", m.State)
	}
	f := m.Form.Field("username")
	if f.Value != "" || f.Error != "" {
		t.Errorf("form not reset on close: %+v", f)
	}
	m.Finish()
	if m.State != ModalHidden {
		t.Errorf("state after Finish = %v", m.State)
	}
}

func TestModal_DisableCloseSuppressesEveryTrigger(t *testing.T) {
	for _, trigger := range []CloseTrigger{CloseButton, CloseBackdrop, CloseEscape} {
		m := &Modal{DisableClose: true}
		m.Open()
		if m.RequestClose(trigger) {
			t.Errorf("%s closed a modal with closing disabled", trigger)
		}
		if m.State != ModalVisible {
			t.Errorf("%s changed state to %v", trigger, m.State)
		}
	}
}

func TestParseCloseTrigger(t *testing.T) {
	for _, s := range []string{"button", "backdrop", "escape"} {
		if _, err := ParseCloseTrigger(s); err != nil {
			t.Errorf("ParseCloseTrigger(%q) error = %v", s, err)
		}
	}
	if _, err := ParseCloseTrigger("swipe"); err == nil {
		t.Error("expected an error for an unknown trigger")
	}
}
