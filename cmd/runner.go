package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/michida/michida/internal/repositories"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
	"github.com/michida/michida/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	backend  *services.SupabaseService
	db       *sql.DB
	kv       repositories.KV
	prompter store.Prompter
	sink     services.CommandSink
	logger   *log.Logger
	output   io.Writer

	app *store.App
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Backend  *services.SupabaseService
	DB       *sql.DB
	KV       repositories.KV
	Prompter store.Prompter
	Sink     services.CommandSink
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:   opts.Config,
		backend:  opts.Backend,
		db:       opts.DB,
		kv:       opts.KV,
		prompter: opts.Prompter,
		sink:     opts.Sink,
		logger:   opts.Logger,
		output:   opts.Output,
	}
	if r.prompter == nil {
		r.prompter = store.NewTerminalPrompter(os.Stdin, r.output)
	}
	if r.sink == nil {
		r.sink = &envelopeWriter{out: r.output}
	}

	return r
}

// App lazily assembles the application state over the runner's dependencies.
// Built on first use so commands that swap the logger first (the TUI) get a
// consistently wired tree.
func (r *Runner) App() (*store.App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.backend == nil {
		return nil, fmt.Errorf("%w: backend url and anon key are required, run 'michida setup config'", shared.ErrMissingConfig)
	}

	r.app = store.NewApp(store.AppOpts{
		Backend:   r.backend,
		Bridge:    services.NewPlayerBridge(r.sink),
		KV:        r.kv,
		Prompter:  r.prompter,
		Logger:    r.logger,
		CountRate: r.config.Feed.CountRate,
	})
	return r.app, nil
}

// SetLogger replaces the runner's logger. Must be called before the first
// App use to take effect on the controllers.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, feedCommand, playCommand, commentCommand, playlistCommand, recentCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// envelopeWriter prints player command envelopes as JSON lines. It stands in
// for the embedded player's message port when running non-interactively.
type envelopeWriter struct {
	out io.Writer
}

func (w *envelopeWriter) Post(payload []byte) error {
	if _, err := w.out.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("failed to write player command: %w", err)
	}
	return nil
}

// logSink records player command envelopes in the log. Used by the TUI,
// where stdout belongs to the renderer.
type logSink struct {
	logger *log.Logger
}

func (s *logSink) Post(payload []byte) error {
	s.logger.Debug("player command", "envelope", string(payload))
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
