// Package menu implements the numbered interactive menu over a line-oriented
// input and two output streams.
package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/logger"
	"github.com/smileynet/contactbook/internal/store"
)

// Menu choices.
const (
	ChoiceAdd = iota + 1
	ChoiceView
	ChoiceSearch
	ChoiceDelete
	ChoiceSave
	ChoiceLoad
	ChoiceExit
)

// Store is the contact collection the menu drives.
type Store interface {
	Add(name, phone, email string) error
	List() []contact.Contact
	Search(term string) []contact.Contact
	Delete(name string) int
	Len() int
	Save(path string) error
	Load(path string) (store.LoadResult, error)
}

// Compile-time check: *store.Store satisfies Store.
var _ Store = (*store.Store)(nil)

// Menu reads choices from in and writes to out. Diagnostics for failed file
// operations and skipped lines go to errOut.
type Menu struct {
	store       Store
	path        string
	in          io.Reader
	out         io.Writer
	errOut      io.Writer
	log         *slog.Logger
	loadOnStart bool

	okColor   *color.Color
	failColor *color.Color
	headColor *color.Color

	lines <-chan string
	stop  chan struct{}
	rerr  error
}

// Option configures a Menu.
type Option func(*Menu)

// WithLogger sets the logger used for menu events.
func WithLogger(l *slog.Logger) Option {
	return func(m *Menu) {
		if l != nil {
			m.log = l
		}
	}
}

// WithLoadOnStart controls whether Run loads the contacts file before the
// first prompt. Enabled by default.
func WithLoadOnStart(load bool) Option {
	return func(m *Menu) { m.loadOnStart = load }
}

// WithColor forces colored output on or off. Without it, fatih/color decides
// from the terminal.
func WithColor(enabled bool) Option {
	return func(m *Menu) {
		for _, c := range []*color.Color{m.okColor, m.failColor, m.headColor} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// New creates a Menu over s persisting to path.
func New(s Store, path string, in io.Reader, out, errOut io.Writer, opts ...Option) *Menu {
	m := &Menu{
		store:       s,
		path:        path,
		in:          in,
		out:         out,
		errOut:      errOut,
		log:         logger.Discard(),
		loadOnStart: true,
		okColor:     color.New(color.FgGreen),
		failColor:   color.New(color.FgRed),
		headColor:   color.New(color.FgCyan),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run prints the banner, optionally loads the contacts file, then loops over
// menu choices until Exit, end of input, or ctx is cancelled. Nothing is
// saved on the way out. End of input returns nil; cancellation returns
// ctx.Err().
func (m *Menu) Run(ctx context.Context) error {
	m.startReader()
	defer close(m.stop)

	_, _ = fmt.Fprintln(m.out, "Contact Management System Initialized.")
	if m.loadOnStart {
		m.load()
	}

	for {
		m.printMenu()
		line, err := m.readLine(ctx)
		if err != nil {
			return m.finish(err)
		}

		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			_, _ = m.failColor.Fprintln(m.out, "Invalid input. Please enter a number.")
			continue
		}

		var stepErr error
		switch choice {
		case ChoiceAdd:
			stepErr = m.add(ctx)
		case ChoiceView:
			m.view()
		case ChoiceSearch:
			stepErr = m.search(ctx)
		case ChoiceDelete:
			stepErr = m.delete(ctx)
		case ChoiceSave:
			m.save()
		case ChoiceLoad:
			m.load()
		case ChoiceExit:
			_, _ = fmt.Fprintln(m.out, "Exiting Contact Management System. Goodbye!")
			return nil
		default:
			_, _ = m.failColor.Fprintln(m.out, "Invalid choice. Please enter a number between 1 and 7.")
		}
		if stepErr != nil {
			return m.finish(stepErr)
		}
	}
}

// finish maps a read error to Run's return value.
func (m *Menu) finish(err error) error {
	if errors.Is(err, io.EOF) {
		m.log.Info("input closed")
		_, _ = fmt.Fprintln(m.out)
		return nil
	}
	return err
}

func (m *Menu) printMenu() {
	_, _ = m.headColor.Fprintln(m.out, "\n--- Contact Manager Menu ---")
	_, _ = fmt.Fprintln(m.out, "1. Add New Contact")
	_, _ = fmt.Fprintln(m.out, "2. View All Contacts")
	_, _ = fmt.Fprintln(m.out, "3. Search Contact by Name")
	_, _ = fmt.Fprintln(m.out, "4. Delete Contact by Name")
	_, _ = fmt.Fprintln(m.out, "5. Save Contacts to File")
	_, _ = fmt.Fprintln(m.out, "6. Load Contacts from File")
	_, _ = fmt.Fprintln(m.out, "7. Exit")
	_, _ = fmt.Fprint(m.out, "Enter your choice: ")
}

func (m *Menu) add(ctx context.Context) error {
	_, _ = m.headColor.Fprintln(m.out, "\n--- Add New Contact ---")
	name, err := m.prompt(ctx, "Enter Name: ")
	if err != nil {
		return err
	}
	phone, err := m.prompt(ctx, "Enter Phone: ")
	if err != nil {
		return err
	}
	email, err := m.prompt(ctx, "Enter Email: ")
	if err != nil {
		return err
	}

	if err := m.store.Add(name, phone, email); err != nil {
		m.log.Info("contact rejected", "error", err)
		_, _ = m.failColor.Fprintln(m.out, "Error: All fields must be filled. Contact not added.")
		return nil
	}
	_, _ = m.okColor.Fprintln(m.out, "Contact added successfully!")
	return nil
}

func (m *Menu) view() {
	_, _ = m.headColor.Fprintln(m.out, "\n--- All Contacts ---")
	contacts := m.store.List()
	if len(contacts) == 0 {
		_, _ = fmt.Fprintln(m.out, "No contacts available. Add some first!")
		return
	}
	m.printNumbered(contacts)
}

func (m *Menu) search(ctx context.Context) error {
	_, _ = m.headColor.Fprintln(m.out, "\n--- Search Contact ---")
	term, err := m.prompt(ctx, "Enter name or part of name to search: ")
	if err != nil {
		return err
	}
	term = strings.ToLower(term)

	found := m.store.Search(term)
	if len(found) == 0 {
		_, _ = fmt.Fprintf(m.out, "No contacts found matching '%s'.\n", term)
		return nil
	}
	_, _ = m.headColor.Fprintln(m.out, "--- Found Contacts ---")
	m.printNumbered(found)
	return nil
}

func (m *Menu) delete(ctx context.Context) error {
	_, _ = m.headColor.Fprintln(m.out, "\n--- Delete Contact ---")
	if m.store.Len() == 0 {
		_, _ = fmt.Fprintln(m.out, "No contacts to delete.")
		return nil
	}

	name, err := m.prompt(ctx, "Enter the name of the contact to delete: ")
	if err != nil {
		return err
	}
	name = strings.ToLower(name)

	if m.store.Delete(name) > 0 {
		_, _ = m.okColor.Fprintf(m.out, "Contact(s) named '%s' deleted successfully!\n", name)
		return nil
	}
	_, _ = fmt.Fprintf(m.out, "No contact found with the exact name '%s'.\n", name)
	return nil
}

func (m *Menu) save() {
	if err := m.store.Save(m.path); err != nil {
		m.log.Error("save failed", "path", m.path, "error", err)
		_, _ = m.failColor.Fprintf(m.errOut, "Error saving contacts to file: %v\n", err)
		return
	}
	_, _ = m.okColor.Fprintf(m.out, "Contacts saved to %s successfully!\n", m.path)
}

func (m *Menu) load() {
	res, err := m.store.Load(m.path)
	if err != nil {
		if errors.Is(err, store.ErrNoFile) {
			_, _ = fmt.Fprintln(m.out, "No existing contacts file found. Starting with an empty list.")
			return
		}
		m.log.Error("load failed", "path", m.path, "error", err)
		_, _ = m.failColor.Fprintf(m.errOut, "Error loading contacts from file: %v\n", err)
		return
	}
	for _, sl := range res.Skipped {
		_, _ = m.failColor.Fprintf(m.errOut, "Skipping invalid line in file: %s\n", sl.Text)
	}
	_, _ = m.okColor.Fprintf(m.out, "Contacts loaded from %s successfully!\n", m.path)
}

func (m *Menu) printNumbered(contacts []contact.Contact) {
	for i, c := range contacts {
		_, _ = fmt.Fprintf(m.out, "%d. %s\n", i+1, c)
	}
}

// prompt writes label and reads the answer line.
func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	_, _ = fmt.Fprint(m.out, label)
	return m.readLine(ctx)
}

// startReader reads input lines of any length on a separate goroutine so
// that readLine can give up on cancellation while a read is blocked.
func (m *Menu) startReader() {
	lines := make(chan string)
	m.lines = lines
	m.stop = make(chan struct{})
	stop := m.stop

	go func() {
		defer close(lines)
		br := bufio.NewReader(m.in)
		for {
			line, err := br.ReadString('\n')
			if err == nil || (errors.Is(err, io.EOF) && line != "") {
				select {
				case lines <- strings.TrimRight(line, "\r\n"):
				case <-stop:
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					m.rerr = err
				}
				return
			}
		}
	}()
}

// readLine returns the next input line, io.EOF at end of input, the scanner
// error if reading failed, or ctx.Err() on cancellation.
func (m *Menu) readLine(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-m.lines:
		if !ok {
			if m.rerr != nil {
				return "", fmt.Errorf("menu: reading input: %w", m.rerr)
			}
			return "", io.EOF
		}
		return line, nil
	}
}
