package authdash

import "fmt"

// ModalState is where a modal is in its lifecycle
type ModalState int

const (
	ModalHidden ModalState = iota
	ModalVisible
	ModalClosing
)

func (s ModalState) String() string {
	switch s {
	case ModalVisible:
		return "visible"
	case ModalClosing:
		return "closing"
	default:
		return "hidden"
	}
}

// CloseTrigger is what asked a modal to close
type CloseTrigger string

const (
	CloseButton   CloseTrigger = "button"
	CloseBackdrop CloseTrigger = "backdrop"
	CloseEscape   CloseTrigger = "escape"
)

// ParseCloseTrigger maps a query value onto a trigger
func ParseCloseTrigger(s string) (CloseTrigger, error) {
	switch t := CloseTrigger(s); t {
	case CloseButton, CloseBackdrop, CloseEscape:
		return t, nil
	}
	return "", fmt.Errorf("unknown close trigger %q", s)
}

// Modal is a dialog over the dashboard hosting one form
type Modal struct {
	Name  string
	Title string
	State ModalState

	// DisableClose suppresses every close trigger, set while the modal's
	// form is being submitted
	DisableClose bool

	Form *FormView
}

// Visible reports whether the modal should be drawn
func (m *Modal) Visible() bool {
	return m.State == ModalVisible || m.State == ModalClosing
}

// Open shows a hidden modal
func (m *Modal) Open() {
	if m.State == ModalHidden {
		m.State = ModalVisible
	}
}

// RequestClose starts closing the modal. It returns false when closing is
// disabled or the modal is not showing.
func (m *Modal) RequestClose(trigger CloseTrigger) bool {
	if m.DisableClose || m.State != ModalVisible {
		return false
	}
	m.State = ModalClosing
	if m.Form != nil {
		for _, f := range m.Form.Fields {
			f.Value = ""
			f.Error = ""
			f.Visible = false
		}
	}
	return true
}

// Finish completes a close
func (m *Modal) Finish() {
	if m.State == ModalClosing {
		m.State = ModalHidden
	}
}
