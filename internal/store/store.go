// Package store holds the in-memory contact collection and persists it to
// the flat contacts file.
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/smileynet/contactbook/internal/contact"
)

// ErrNoFile indicates Load found no contacts file at the given path.
var ErrNoFile = errors.New("store: no contacts file")

// LoadResult describes a successful Load.
type LoadResult struct {
	Loaded  int
	Skipped []SkippedLine
}

// Store is an insertion-ordered collection of contacts.
// It is not safe for concurrent use.
type Store struct {
	contacts []contact.Contact
	log      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for operation events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		contacts: []contact.Contact{},
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add appends a contact. Any empty field is rejected and the store is left unchanged.
func (s *Store) Add(name, phone, email string) error {
	c, err := contact.New(name, phone, email)
	if err != nil {
		return err
	}
	s.contacts = append(s.contacts, c)
	s.log.Info("contact added", "name", name, "count", len(s.contacts))
	return nil
}

// Len returns the number of contacts.
func (s *Store) Len() int {
	return len(s.contacts)
}

// List returns a copy of all contacts in insertion order.
func (s *Store) List() []contact.Contact {
	return slices.Clone(s.contacts)
}

// Search returns contacts whose name contains term, ignoring case, in
// insertion order.
func (s *Store) Search(term string) []contact.Contact {
	found := []contact.Contact{}
	for _, c := range s.contacts {
		if c.NameMatches(term) {
			found = append(found, c)
		}
	}
	return found
}

// Delete removes every contact whose name equals name ignoring case and
// returns how many were removed.
func (s *Store) Delete(name string) int {
	before := len(s.contacts)
	s.contacts = slices.DeleteFunc(s.contacts, func(c contact.Contact) bool {
		return c.NameEquals(name)
	})
	removed := before - len(s.contacts)
	if removed > 0 {
		s.log.Info("contacts deleted", "name", name, "removed", removed)
	}
	return removed
}

// Save writes all contacts to path, truncating any existing file.
// The in-memory collection is never modified.
func (s *Store) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("store: closing %s: %w", path, cerr)
		}
	}()

	if err := Encode(f, s.contacts); err != nil {
		return fmt.Errorf("store: writing %s: %w", path, err)
	}
	s.log.Info("contacts saved", "path", path, "count", len(s.contacts))
	return nil
}

// Load replaces the collection with the contacts read from path.
// A missing file returns ErrNoFile. Malformed lines are skipped and reported
// in the result. On any error the collection is left unchanged.
func (s *Store) Load(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return LoadResult{}, fmt.Errorf("%w: %s", ErrNoFile, path)
		}
		return LoadResult{}, fmt.Errorf("store: opening %s: %w", path, err)
	}
	defer f.Close()

	contacts, skipped, err := Decode(f)
	if err != nil {
		return LoadResult{}, fmt.Errorf("store: reading %s: %w", path, err)
	}

	for _, sl := range skipped {
		s.log.Warn("skipped invalid line", "path", path, "line", sl.Num, "text", sl.Text)
	}
	s.contacts = contacts
	s.log.Info("contacts loaded", "path", path, "count", len(contacts), "skipped", len(skipped))
	return LoadResult{Loaded: len(contacts), Skipped: skipped}, nil
}
