package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/smileynet/contactbook/internal/contact"
)

// CursorMarker is the prefix shown on the selected contact row.
const CursorMarker = "▸ "

// markerWidth is the display width of CursorMarker and of the blank prefix.
var markerWidth = ansi.StringWidth(CursorMarker)

// browseState manages the contact list and cursor for the left pane.
type browseState struct {
	contacts []contact.Contact
	cursor   int
	filter   string
}

// apply replaces the visible contacts, keeping the cursor in range.
func (bs browseState) apply(contacts []contact.Contact, filter string) browseState {
	bs.contacts = append([]contact.Contact(nil), contacts...)
	bs.filter = filter
	if bs.cursor >= len(bs.contacts) {
		bs.cursor = len(bs.contacts) - 1
	}
	if bs.cursor < 0 {
		bs.cursor = 0
	}
	return bs
}

// Update processes key messages for the browse state.
func (bs browseState) Update(msg tea.Msg) (browseState, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return bs.handleKey(msg), nil
	}
	return bs, nil
}

func (bs browseState) handleKey(msg tea.KeyMsg) browseState {
	if len(bs.contacts) == 0 {
		return bs
	}
	switch msg.String() {
	case "up", "k":
		bs.cursor--
		if bs.cursor < 0 {
			bs.cursor = len(bs.contacts) - 1
		}
	case "down", "j":
		bs.cursor++
		if bs.cursor >= len(bs.contacts) {
			bs.cursor = 0
		}
	}
	return bs
}

// Selected returns the contact at the cursor, or false if the list is empty.
func (bs browseState) Selected() (contact.Contact, bool) {
	if bs.cursor < 0 || bs.cursor >= len(bs.contacts) {
		return contact.Contact{}, false
	}
	return bs.contacts[bs.cursor], true
}

// View renders the contact list for the given dimensions. Rows scroll so the
// cursor stays visible.
func (bs browseState) View(width, height int) string {
	if len(bs.contacts) == 0 {
		if bs.filter != "" {
			return fmt.Sprintf("No contacts found matching '%s'.", bs.filter)
		}
		return "No contacts available. Add some first!"
	}

	start := 0
	if height > 0 && bs.cursor >= height {
		start = bs.cursor - height + 1
	}
	end := len(bs.contacts)
	if height > 0 && end-start > height {
		end = start + height
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		if i > start {
			b.WriteByte('\n')
		}
		name := bs.contacts[i].Name
		if avail := width - markerWidth; width > 0 && avail > 0 {
			name = ansi.Truncate(name, avail, "…")
		}
		if i == bs.cursor {
			b.WriteString(CursorMarker)
			b.WriteString(selectedText.Render(name))
		} else {
			b.WriteString("  ")
			b.WriteString(name)
		}
	}
	return b.String()
}

// detailView renders the right pane for the selected contact.
func (bs browseState) detailView() string {
	c, ok := bs.Selected()
	if !ok {
		return mutedText.Render("No contact selected")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", fieldLabel.Render("Name: "), c.Name)
	fmt.Fprintf(&b, "%s  %s\n", fieldLabel.Render("Phone:"), c.Phone)
	fmt.Fprintf(&b, "%s  %s\n", fieldLabel.Render("Email:"), c.Email)

	count := fmt.Sprintf("\n%d of %d contacts", bs.cursor+1, len(bs.contacts))
	if bs.filter != "" {
		count += fmt.Sprintf(" matching '%s'", bs.filter)
	}
	b.WriteString(mutedText.Render(count))
	return b.String()
}
