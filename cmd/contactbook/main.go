package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/contactbook/internal/config"
	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/dashboard"
	"github.com/smileynet/contactbook/internal/logger"
	"github.com/smileynet/contactbook/internal/menu"
	"github.com/smileynet/contactbook/internal/store"
)

// Set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Globals holds flags shared by every command.
type Globals struct {
	File string `help:"Contacts file (overrides configuration)." short:"f" placeholder:"PATH"`
}

// CLI is the root command structure for kong.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Menu    MenuCmd          `cmd:"" default:"withargs" help:"Run the interactive contact menu."`
	List    ListCmd          `cmd:"" help:"Print every saved contact."`
	Search  SearchCmd        `cmd:"" help:"Print saved contacts whose name contains a term."`
	Browse  BrowseCmd        `cmd:"" help:"Open the interactive contact browser TUI."`
}

// env carries the process streams and shared flags into command handlers.
type env struct {
	ctx     context.Context
	in      io.Reader
	out     io.Writer
	errOut  io.Writer
	globals *Globals
}

// deps bundles what every command needs after setup.
type deps struct {
	cfg   *config.Config
	log   *slog.Logger
	close func() error
}

// setup loads configuration, applies the --file override, validates and
// opens the logger. Failures here are setup errors.
func (e *env) setup() (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if e.globals != nil && e.globals.File != "" {
		cfg.Storage.Path = e.globals.File
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, closeLog, err := logger.New(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	applyColorMode(cfg.Display.Color)
	return &deps{cfg: cfg, log: l, close: closeLog}, nil
}

// MenuCmd runs the numbered interactive menu.
type MenuCmd struct {
	NoLoad bool `help:"Skip loading the contacts file at startup." name:"no-load"`
}

// Run executes the menu command.
func (c *MenuCmd) Run(e *env) error {
	rt, err := e.setup()
	if err != nil {
		return fmt.Errorf("menu: %w", err)
	}
	defer func() { _ = rt.close() }()

	opts := []menu.Option{
		menu.WithLogger(rt.log),
		menu.WithLoadOnStart(rt.cfg.Storage.LoadOnStart && !c.NoLoad),
	}
	if on, forced := colorForced(rt.cfg.Display.Color); forced {
		opts = append(opts, menu.WithColor(on))
	}

	s := store.New(store.WithLogger(rt.log))
	m := menu.New(s, rt.cfg.Storage.Path, e.in, e.out, e.errOut, opts...)
	err = m.Run(e.ctx)
	if errors.Is(err, context.Canceled) {
		rt.log.Info("menu interrupted")
		_, _ = fmt.Fprintln(e.out)
		return nil
	}
	if err != nil {
		return &runError{err: err}
	}
	return nil
}

// ListCmd prints every contact in the file.
type ListCmd struct{}

// Run executes the list command.
func (c *ListCmd) Run(e *env) error {
	rt, err := e.setup()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer func() { _ = rt.close() }()

	s, err := loadStore(rt, e.errOut)
	if err != nil {
		return &runError{err: fmt.Errorf("list: %w", err)}
	}
	contacts := s.List()
	if len(contacts) == 0 {
		_, _ = fmt.Fprintln(e.out, "No contacts available. Add some first!")
		return nil
	}
	printContacts(e.out, contacts)
	return nil
}

// SearchCmd prints contacts whose name contains Term, ignoring case.
type SearchCmd struct {
	Term string `arg:"" help:"Name or part of a name."`
}

// Run executes the search command.
func (c *SearchCmd) Run(e *env) error {
	rt, err := e.setup()
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	defer func() { _ = rt.close() }()

	s, err := loadStore(rt, e.errOut)
	if err != nil {
		return &runError{err: fmt.Errorf("search: %w", err)}
	}
	term := strings.ToLower(c.Term)
	found := s.Search(term)
	if len(found) == 0 {
		_, _ = fmt.Fprintf(e.out, "No contacts found matching '%s'.\n", term)
		return nil
	}
	printContacts(e.out, found)
	return nil
}

// BrowseCmd opens the dashboard TUI.
type BrowseCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the dashboard TUI.
func (b *BrowseCmd) Run(e *env) error {
	if !isTerminal(os.Stdout) {
		return errNoTTY
	}

	rt, err := e.setup()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer func() { _ = rt.close() }()

	s, err := loadStore(rt, io.Discard)
	if err != nil {
		return &runError{err: fmt.Errorf("browse: %w", err)}
	}

	m := dashboard.NewModel(s, rt.cfg.Storage.Path, dashboard.WithLogger(rt.log))
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(e.ctx))
	return b.run(true, prog)
}

var errNoTTY = errors.New("browse: requires a terminal (TTY)")

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return errNoTTY
	}
	if _, err := prog.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return &runError{err: fmt.Errorf("browse: %w", err)}
	}
	return nil
}

// loadStore returns a store filled from the configured file. A missing file
// yields an empty store. Skipped lines are reported to errOut.
func loadStore(rt *deps, errOut io.Writer) (*store.Store, error) {
	s := store.New(store.WithLogger(rt.log))
	res, err := s.Load(rt.cfg.Storage.Path)
	if errors.Is(err, store.ErrNoFile) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	for _, sl := range res.Skipped {
		_, _ = fmt.Fprintf(errOut, "Skipping invalid line in file: %s\n", sl.Text)
	}
	return s, nil
}

func printContacts(w io.Writer, contacts []contact.Contact) {
	for i, c := range contacts {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
}

// colorForced reports whether mode forces color on or off.
func colorForced(mode string) (on, forced bool) {
	switch mode {
	case config.ColorAlways:
		return true, true
	case config.ColorNever:
		return false, true
	default:
		return false, false
	}
}

// applyColorMode sets the process-wide fatih/color switch. Auto leaves the
// terminal detection fatih/color did at startup.
func applyColorMode(mode string) {
	if on, forced := colorForced(mode); forced {
		color.NoColor = !on
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contactbook/config.yaml"),
		".contactbook/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runError marks a failure that happened after setup succeeded.
type runError struct {
	err error
}

func (e *runError) Error() string { return e.err.Error() }
func (e *runError) Unwrap() error { return e.err }

// Exit codes.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var re *runError
	if errors.As(err, &re) {
		return exitRuntime
	}
	return exitSetup
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("Manage contacts stored in a plain text file."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := kctx.Run(&env{
		ctx:     ctx,
		in:      os.Stdin,
		out:     os.Stdout,
		errOut:  os.Stderr,
		globals: &cli.Globals,
	})
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
