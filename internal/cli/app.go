// Package cli is the command-line front end of the task list.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/config"
	"github.com/BuzzLyutic/tasklist/internal/logging"
	"github.com/BuzzLyutic/tasklist/internal/model"
	"github.com/BuzzLyutic/tasklist/internal/notify"
	"github.com/BuzzLyutic/tasklist/internal/repo"
	"github.com/BuzzLyutic/tasklist/internal/service"
	"github.com/BuzzLyutic/tasklist/internal/worker"
)

// Exit codes.
const (
	ExitOK        = 0
	ExitError     = 1
	ExitUserError = 2
)

// SlotOpener opens the storage backend; repo.Open in production.
type SlotOpener func(ctx context.Context, cfg config.Storage) (repo.Slot, error)

type app struct {
	cfg   config.Config
	quiet bool
	open  SlotOpener

	out    io.Writer
	errOut io.Writer

	logger *zap.Logger
	slot   repo.Slot
	pool   *worker.Pool
	store  *service.TaskStore
}

// Run executes the command line and returns the exit code.
func Run(ctx context.Context, args []string, out, errOut io.Writer, cfg config.Config, open SlotOpener) int {
	a := &app{cfg: cfg, open: open, out: out, errOut: errOut}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	// flush notifications before anything else goes to errOut
	a.close()

	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		if errors.Is(err, service.ErrValidation) || errors.Is(err, service.ErrNotFound) || isUsage(err) {
			return ExitUserError
		}
		return ExitError
	}
	return ExitOK
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "tasks",
		Short:             "Manage a local task list",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup(cmd.Context()) },
	}

	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.Storage.Driver, "storage", a.cfg.Storage.Driver, "storage driver: file, sqlite, postgres, redis, memory")
	f.StringVar(&a.cfg.Storage.Dir, "dir", a.cfg.Storage.Dir, "data directory for file and sqlite storage")
	f.StringVar(&a.cfg.Storage.Key, "list", a.cfg.Storage.Key, "name of the task list")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level")
	f.BoolVarP(&a.quiet, "quiet", "q", false, "suppress notifications")

	root.AddCommand(
		a.addCmd(),
		a.editCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.lsCmd(),
		a.moveCmd(),
		a.exportCmd(),
		a.statsCmd(),
	)
	return root
}

func (a *app) setup(ctx context.Context) error {
	logger, err := logging.NewConsole(a.cfg.LogLevel, a.errOut)
	if err != nil {
		return usageError{err}
	}
	a.logger = logger

	slot, err := a.open(ctx, a.cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	a.slot = slot

	var sink notify.Notifier = notify.Discard
	if !a.quiet {
		sink = notify.Func(a.printNotification)
	}
	// one worker keeps notifications in order
	a.pool = worker.NewPool(sink, zap.NewNop(), 1, 32)
	a.pool.Start(ctx)

	a.store = service.NewTaskStore(slot, logger, service.WithNotifier(a.pool))
	if err := a.store.Load(ctx); err != nil && !errors.Is(err, service.ErrCorruptState) {
		return err
	}
	return nil
}

func (a *app) close() {
	if a.pool != nil {
		a.pool.Stop()
	}
	if a.slot != nil {
		if err := a.slot.Close(); err != nil {
			a.logger.Warn("failed to close storage", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) printNotification(n notify.Notification) {
	if n.IsError() {
		fmt.Fprintf(a.errOut, "error: %s\n", n.Message)
		return
	}
	fmt.Fprintln(a.errOut, n.Message)
}

// canonical returns the task list in custom order, the numbering used by refs.
func (a *app) canonical() []model.Task {
	return a.store.View(model.FilterAll, model.SortCustom)
}

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func isUsage(err error) bool {
	var u usageError
	return errors.As(err, &u)
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
