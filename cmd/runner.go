package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/myflix/internal/repositories"
	"github.com/desertthunder/myflix/internal/services"
	"github.com/desertthunder/myflix/internal/shared"
	"github.com/desertthunder/myflix/internal/tasks"
	"github.com/urfave/cli/v3"
)

// EventLister reads the session audit trail.
type EventLister interface {
	ListEvents(ctx context.Context, limit int) ([]repositories.SessionEvent, error)
}

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	client  *services.Client
	service services.Service
	engine  *tasks.FavoritesEngine
	events  EventLister
	logger  *log.Logger
	output  io.Writer
	input   *bufio.Reader
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Client  *services.Client
	Service services.Service // defaults to Client
	Events  EventLister
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
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
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Service == nil && opts.Client != nil {
		opts.Service = opts.Client
	}

	return &Runner{
		config:  opts.Config,
		client:  opts.Client,
		service: opts.Service,
		engine:  tasks.NewFavoritesEngine(opts.Service),
		events:  opts.Events,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   bufio.NewReader(opts.Input),
	}
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, moviesCommand, favoritesCommand, profileCommand, apiCommand, serverCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) requireService() error {
	if r.service == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// confirm asks a yes/no question on the runner's input. Anything but y/yes is a no.
func (r *Runner) confirm(question string) bool {
	r.writePlain("%s [y/N]: ", question)
	line, err := r.input.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// progressPrinter prints updates until the returned stop func is called. stop waits for the printer to drain.
func (r *Runner) progressPrinter() (chan<- tasks.ProgressUpdate, func()) {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.AddFavorites, tasks.RemoveFavorites:
				if update.Step == 0 {
					r.writePlain("\n%s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			default:
				r.writePlain("%s\n", update.Message)
			}
		}
	}()
	return progressCh, func() {
		close(progressCh)
		<-done
	}
}
