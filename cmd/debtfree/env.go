package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/amirasaad/debtfree/infra/initializer"
	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/fatih/color"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	successColor = color.New(color.FgGreen)
)

// env opens the application on first use and releases it on exit.
type env struct {
	envFile string
	app     *app.App
}

// open builds the application. One-shot commands sign in so their writes
// are mirrored; serve follows the identity itself.
func (e *env) open(ctx context.Context, signIn bool) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := config.Load(e.envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load application configuration: %w", err)
	}
	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	e.app = app.New(deps, cfg)
	if signIn {
		if _, err := e.app.SignIn(ctx); err != nil {
			deps.Logger.Warn("sign in failed, continuing offline", "error", err)
		}
	}
	return e.app, nil
}

func (e *env) close() {
	if e.app == nil {
		return
	}
	if err := e.app.Close(); err != nil {
		errorColor.Fprintf(stderr, "Error closing: %v\n", err) //nolint:errcheck
	}
	e.app = nil
}

// run opens the application and runs fn, mapping its error to an exit status.
func run(ctx context.Context, args []any, fn func(a *app.App) error) subcommands.ExitStatus {
	e := args[0].(*env)
	a, err := e.open(ctx, true)
	if err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err) //nolint:errcheck
		return subcommands.ExitFailure
	}
	if err := fn(a); err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err) //nolint:errcheck
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// saved reports a write that reached the local ledger. A mirror error on
// such a write is printed as a warning.
func saved(what string, remoteErr error) {
	successColor.Fprintln(stdout, what) //nolint:errcheck
	if remoteErr != nil {
		warningColor.Fprintf(stderr, "Warning: saved on this device but not synced: %v\n", remoteErr) //nolint:errcheck
	}
}

// remoteOnly reports whether err is a mirror failure on an otherwise
// successful write.
func remoteOnly(err error) bool {
	return err != nil && errors.Is(err, domain.ErrRemote)
}

// parseID parses the single positional id argument.
func parseID(args []string, what string) (uuid.UUID, error) {
	if len(args) != 1 {
		return uuid.Nil, fmt.Errorf("%w: expected exactly one %s id", domain.ErrValidation, what)
	}
	id, err := uuid.Parse(args[0])
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s id %q", domain.ErrValidation, what, args[0])
	}
	return id, nil
}

// usage prints the command usage and returns ExitUsageError.
func usage(c subcommands.Command, err error) subcommands.ExitStatus {
	errorColor.Fprintf(stderr, "Error: %v\n", err) //nolint:errcheck
	fmt.Fprint(stderr, c.Usage())
	return subcommands.ExitUsageError
}
