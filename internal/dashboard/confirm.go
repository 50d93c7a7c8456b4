package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/smileynet/contactbook/internal/contact"
)

// confirmState holds the data needed for the delete confirmation screen.
type confirmState struct {
	name    string
	matches []contact.Contact
}

// newConfirmState collects every contact in all whose name equals name,
// ignoring case.
func newConfirmState(name string, all []contact.Contact) confirmState {
	cs := confirmState{name: name}
	for _, c := range all {
		if c.NameEquals(name) {
			cs.matches = append(cs.matches, c)
		}
	}
	return cs
}

// View renders the confirmation screen for the given dimensions. Match rows
// are cut to width and the list is clipped so the prompt and the key hints
// always fit in height.
func (cs confirmState) View(width, height int) string {
	const chrome = 4 // prompt, blank, blank, key hints
	rows := cs.matches
	more := 0
	if height > 0 {
		room := max(height-chrome, 0)
		if len(rows) > room {
			if room > 0 {
				room-- // keep a line for the overflow note
			}
			more = len(rows) - room
			rows = rows[:room]
		}
	}

	var b strings.Builder
	b.WriteString(warnText.Render(clip(fmt.Sprintf("Delete all contacts named '%s'?", cs.name), width)))
	b.WriteByte('\n')
	for _, c := range rows {
		b.WriteString("\n")
		b.WriteString(clip("  • "+c.String(), width))
	}
	if more > 0 {
		b.WriteString("\n")
		b.WriteString(mutedText.Render(clip(fmt.Sprintf("  … and %d more", more), width)))
	}
	b.WriteString("\n\n  [Enter] Confirm   [Esc] Cancel")
	return b.String()
}

// clip truncates s to width display columns; width <= 0 leaves s unchanged.
func clip(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
