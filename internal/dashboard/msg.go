// Package dashboard implements a two-pane TUI for browsing, searching and
// deleting contacts. Separate from internal/menu which handles the numbered
// line-oriented menu.
package dashboard

import (
	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/store"
)

// Mode represents the current dashboard view mode.
type Mode int

const (
	ModeBrowse  Mode = iota // Browsing the contact list with detail pane.
	ModeSearch              // Typing a search term; the list filters live.
	ModeConfirm             // Confirming deletion of every contact with a name.
)

// Focus represents which pane has keyboard focus.
type Focus int

const (
	PaneLeft  Focus = iota // Left pane (contact list) has focus.
	PaneRight              // Right pane (detail) has focus.
)

// Store is the contact collection the dashboard operates on.
// Calls are made synchronously from Update.
type Store interface {
	List() []contact.Contact
	Search(term string) []contact.Contact
	Delete(name string) int
	Save(path string) error
	Load(path string) (store.LoadResult, error)
}

// Compile-time check: *store.Store satisfies Store.
var _ Store = (*store.Store)(nil)
