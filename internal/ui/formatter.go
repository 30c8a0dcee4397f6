package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/ryo246912/branch-pr-template/internal/models"
)

const (
	fieldWidth = 6
	valueWidth = 48
)

func PadRight(str string, width int) string {
	w := runewidth.StringWidth(str)
	if w < width {
		return str + strings.Repeat(" ", width-w)
	}
	return str
}

// Flatten renders s on a single line of at most width columns.
func Flatten(s string, width int) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\n", `\n`)
	return runewidth.Truncate(s, width, "...")
}

// FormatPreview renders the fields req would change as a table of current
// and new values.
func FormatPreview(pr *models.PullRequest, req *models.UpdateRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "#%d %s/%s (%s)\n", pr.Number, pr.Owner, pr.Repo, pr.Branch)
	fmt.Fprintf(&b, "%s %s %s\n", PadRight("", fieldWidth), PadRight("current", valueWidth), "new")

	row := func(field, current string, next *string) {
		value := "(unchanged)"
		if next != nil {
			value = Flatten(*next, valueWidth)
		}
		fmt.Fprintf(&b, "%s %s %s\n",
			PadRight(field, fieldWidth),
			PadRight(Flatten(current, valueWidth), valueWidth),
			value,
		)
	}
	row("title", pr.Title, req.Title)
	row("body", pr.Body, req.Body)

	return b.String()
}
