package store

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/smileynet/contactbook/internal/contact"
)

func seeded(t *testing.T, cs ...contact.Contact) *Store {
	t.Helper()
	s := New()
	for _, c := range cs {
		if err := s.Add(c.Name, c.Phone, c.Email); err != nil {
			t.Fatalf("Add(%+v) error = %v", c, err)
		}
	}
	return s
}

func TestStore_AddAppends(t *testing.T) {
	// Given a store with one contact
	s := seeded(t, contact.Contact{Name: "Anna", Phone: "1", Email: "a@x"})

	// When a second contact is added
	if err := s.Add("Juan", "2", "j@x"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Then size grows by one and prior order is preserved
	got := s.List()
	if len(got) != 2 {
		t.Fatalf("Len = %d, want 2", len(got))
	}
	if got[0].Name != "Anna" || got[1].Name != "Juan" {
		t.Errorf("order = [%s %s], want [Anna Juan]", got[0].Name, got[1].Name)
	}
}

func TestStore_AddRejectsEmptyField(t *testing.T) {
	// Given a store with one contact
	s := seeded(t, contact.Contact{Name: "Anna", Phone: "1", Email: "a@x"})

	// When a contact with an empty phone is added
	err := s.Add("Bob", "", "b@x")

	// Then it is rejected and the store is unchanged
	if !errors.Is(err, contact.ErrEmptyField) {
		t.Errorf("Add() error = %v, want ErrEmptyField", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_ListReturnsCopy(t *testing.T) {
	s := seeded(t, contact.Contact{Name: "Anna", Phone: "1", Email: "a@x"})

	got := s.List()
	got[0].Name = "changed"

	if s.List()[0].Name != "Anna" {
		t.Error("mutating List() result changed the store")
	}
}

func TestStore_ListEmpty(t *testing.T) {
	s := New()
	if got := s.List(); got == nil || len(got) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", got)
	}
}

func TestStore_SearchCaseInsensitiveSubstring(t *testing.T) {
	// Given contacts Anna, Bob and Juan
	s := seeded(t,
		contact.Contact{Name: "Anna", Phone: "1", Email: "a@x"},
		contact.Contact{Name: "Bob", Phone: "2", Email: "b@x"},
		contact.Contact{Name: "Juan", Phone: "3", Email: "j@x"},
	)

	// When searching for "an"
	got := s.Search("an")

	// Then Anna and Juan match, in insertion order
	if len(got) != 2 {
		t.Fatalf("Search(an) len = %d, want 2", len(got))
	}
	if got[0].Name != "Anna" || got[1].Name != "Juan" {
		t.Errorf("Search(an) = [%s %s], want [Anna Juan]", got[0].Name, got[1].Name)
	}
}

func TestStore_SearchNoMatch(t *testing.T) {
	s := seeded(t, contact.Contact{Name: "Bob", Phone: "2", Email: "b@x"})
	if got := s.Search("zed"); len(got) != 0 {
		t.Errorf("Search(zed) = %v, want empty", got)
	}
}

func TestStore_DeleteRemovesAllExactMatches(t *testing.T) {
	// Given two contacts named bob in different cases and Alice
	s := seeded(t,
		contact.Contact{Name: "Bob", Phone: "1", Email: "a@x"},
		contact.Contact{Name: "bob", Phone: "2", Email: "b@x"},
		contact.Contact{Name: "Alice", Phone: "3", Email: "c@x"},
	)

	// When deleting "BOB"
	removed := s.Delete("BOB")

	// Then both bobs are gone and only Alice remains
	if removed != 2 {
		t.Errorf("Delete(BOB) removed = %d, want 2", removed)
	}
	got := s.List()
	want := []contact.Contact{{Name: "Alice", Phone: "3", Email: "c@x"}}
	if !slices.Equal(got, want) {
		t.Errorf("List() = %+v, want %+v", got, want)
	}
}

func TestStore_DeleteIsExactNotSubstring(t *testing.T) {
	s := seeded(t, contact.Contact{Name: "Bobby", Phone: "1", Email: "a@x"})

	if removed := s.Delete("bob"); removed != 0 {
		t.Errorf("Delete(bob) removed = %d, want 0", removed)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	// Given a store of three contacts without embedded commas
	path := filepath.Join(t.TempDir(), "contacts.txt")
	orig := seeded(t,
		contact.Contact{Name: "Anna", Phone: "555-0100", Email: "anna@example.com"},
		contact.Contact{Name: "Bob", Phone: "555-0101", Email: "bob@example.com"},
		contact.Contact{Name: "Bob", Phone: "555-0102", Email: "bob2@example.com"},
	)

	// When it is saved and loaded into a fresh store
	if err := orig.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	fresh := New()
	res, err := fresh.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Then the sequences are equal field for field and in order
	if res.Loaded != 3 || len(res.Skipped) != 0 {
		t.Errorf("LoadResult = %+v, want 3 loaded, 0 skipped", res)
	}
	if !slices.Equal(fresh.List(), orig.List()) {
		t.Errorf("loaded = %+v, want %+v", fresh.List(), orig.List())
	}
}

func TestStore_SaveFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.txt")
	s := seeded(t,
		contact.Contact{Name: "A", Phone: "1", Email: "a@x"},
		contact.Contact{Name: "B", Phone: "2", Email: "b@x"},
	)

	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	want := "A,1,a@x\nB,2,b@x\n"
	if string(data) != want {
		t.Errorf("file = %q, want %q", data, want)
	}
}

func TestStore_SaveOverwrites(t *testing.T) {
	// Given an existing file with more lines than the store
	path := filepath.Join(t.TempDir(), "contacts.txt")
	if err := os.WriteFile(path, []byte("X,9,x@x\nY,8,y@x\nZ,7,z@x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := seeded(t, contact.Contact{Name: "A", Phone: "1", Email: "a@x"})

	// When Save is called
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Then the old content is gone
	data, _ := os.ReadFile(path)
	if string(data) != "A,1,a@x\n" {
		t.Errorf("file = %q, want %q", data, "A,1,a@x\n")
	}
}

func TestStore_SaveFailureLeavesStoreUnchanged(t *testing.T) {
	// Given a path that is a directory
	dir := t.TempDir()
	s := seeded(t, contact.Contact{Name: "A", Phone: "1", Email: "a@x"})

	// When Save targets it
	err := s.Save(dir)

	// Then an error is returned and the store still holds its contact
	if err == nil {
		t.Fatal("Save(dir) error = nil, want error")
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_LoadSkipsMalformedLines(t *testing.T) {
	// Given a file with one good and one malformed line
	path := filepath.Join(t.TempDir(), "contacts.txt")
	if err := os.WriteFile(path, []byte("A,1,a@x\nbad-line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New()

	// When it is loaded
	res, err := s.Load(path)

	// Then only the good line becomes a contact and the bad one is reported
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []contact.Contact{{Name: "A", Phone: "1", Email: "a@x"}}
	if !slices.Equal(s.List(), want) {
		t.Errorf("List() = %+v, want %+v", s.List(), want)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Num != 2 || res.Skipped[0].Text != "bad-line" {
		t.Errorf("Skipped = %+v, want [{2 bad-line}]", res.Skipped)
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	// Given an empty store and no file
	s := New()

	// When Load is called
	_, err := s.Load(filepath.Join(t.TempDir(), "missing.txt"))

	// Then ErrNoFile is returned and the store stays empty
	if !errors.Is(err, ErrNoFile) {
		t.Errorf("Load() error = %v, want ErrNoFile", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d, want 0", s.Len())
	}
}

func TestStore_LoadMissingFileKeepsContacts(t *testing.T) {
	s := seeded(t, contact.Contact{Name: "A", Phone: "1", Email: "a@x"})

	_, err := s.Load(filepath.Join(t.TempDir(), "missing.txt"))

	if !errors.Is(err, ErrNoFile) {
		t.Errorf("Load() error = %v, want ErrNoFile", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_LoadReplacesWholesale(t *testing.T) {
	// Given a saved file and a store with unsaved additions
	path := filepath.Join(t.TempDir(), "contacts.txt")
	if err := os.WriteFile(path, []byte("Saved,1,s@x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := seeded(t, contact.Contact{Name: "Unsaved", Phone: "2", Email: "u@x"})

	// When Load is called
	if _, err := s.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Then the unsaved addition is gone
	got := s.List()
	if len(got) != 1 || got[0].Name != "Saved" {
		t.Errorf("List() = %+v, want only Saved", got)
	}
}

func TestStore_LoadReadFailureLeavesStoreUnchanged(t *testing.T) {
	// Given a path that is a directory
	dir := t.TempDir()
	s := seeded(t, contact.Contact{Name: "A", Phone: "1", Email: "a@x"})

	// When Load reads it
	_, err := s.Load(dir)

	// Then an I/O error is returned and the store is unchanged
	if err == nil {
		t.Fatal("Load(dir) error = nil, want error")
	}
	if errors.Is(err, ErrNoFile) {
		t.Errorf("Load(dir) error = %v, want an I/O error, not ErrNoFile", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len = %d, want 1", s.Len())
	}
}

func TestStore_LoggerRecordsSkippedLines(t *testing.T) {
	// Given a store logging to a buffer
	var buf bytes.Buffer
	s := New(WithLogger(slog.New(slog.NewJSONHandler(&buf, nil))))
	path := filepath.Join(t.TempDir(), "contacts.txt")
	if err := os.WriteFile(path, []byte("nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	// When a file with a malformed line is loaded
	if _, err := s.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Then the skipped line is logged
	if !strings.Contains(buf.String(), "skipped invalid line") {
		t.Errorf("log = %q, want skipped line event", buf.String())
	}
}
