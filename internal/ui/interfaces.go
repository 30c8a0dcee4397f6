package ui

import (
	"io"
	"os"
)

// Prompter defines interface for user interaction
type Prompter interface {
	ShowPreview(preview string)
	ConfirmUpdate() (bool, error)
}

// DefaultPrompter implements the actual prompting logic
type DefaultPrompter struct {
	// Out receives previews; defaults to os.Stdout
	Out io.Writer
}

// ShowPreview prints the pending update
func (p *DefaultPrompter) ShowPreview(preview string) {
	out := p.Out
	if out == nil {
		out = os.Stdout
	}
	ShowPreview(out, preview)
}

// ConfirmUpdate prompts user to confirm the update
func (p *DefaultPrompter) ConfirmUpdate() (bool, error) {
	return ConfirmUpdate()
}

// MockPrompter for testing
type MockPrompter struct {
	Confirmed         bool
	ConfirmationError error

	// Call tracking
	ShowPreviewCalled   bool
	ConfirmUpdateCalled bool
	LastPreview         string
}

// ShowPreview records the preview
func (m *MockPrompter) ShowPreview(preview string) {
	m.ShowPreviewCalled = true
	m.LastPreview = preview
}

// ConfirmUpdate mocks confirmation
func (m *MockPrompter) ConfirmUpdate() (bool, error) {
	m.ConfirmUpdateCalled = true
	return m.Confirmed, m.ConfirmationError
}
