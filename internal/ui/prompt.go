package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/manifoldco/promptui"
)

// ShowPreview writes the pending update to w
func ShowPreview(w io.Writer, preview string) {
	fmt.Fprint(w, preview)
}

// ConfirmUpdate asks whether the pending update should be sent
func ConfirmUpdate() (bool, error) {
	prompt := promptui.Prompt{
		Label:     "Update pull request",
		IsConfirm: true,
	}

	_, err := prompt.Run()
	if err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation failed: %w", err)
	}
	return true, nil
}
