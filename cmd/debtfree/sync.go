package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"

	"github.com/amirasaad/debtfree/pkg/app"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/webapi"
	"github.com/google/subcommands"
)

type syncCmd struct {
	push bool
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "show the sync status, optionally pushing the whole ledger" }
func (*syncCmd) Usage() string {
	return `debtfree sync [-push]

  Signs in with AUTH_TOKEN, downloads and merges the mirrored ledger, then
  prints the session state. With -push every local record is re-uploaded.
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.push, "push", false, "Upload every local record to the mirror")
}

func (c *syncCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	return run(ctx, args, func(a *app.App) error {
		if c.push {
			if err := a.Sync.PushAll(ctx); err != nil {
				if errors.Is(err, domain.ErrNotBound) {
					return fmt.Errorf("%w: set AUTH_TOKEN to sign in", err)
				}
				return err
			}
			successColor.Fprintln(stdout, "Ledger pushed") //nolint:errcheck
		}
		st := a.Sync.Status()
		fmt.Fprintf(stdout, "State:    %s\n", st.State)
		if st.Identity != "" {
			fmt.Fprintf(stdout, "Identity: %s\n", st.Identity)
		}
		if st.Parked > 0 {
			warningColor.Fprintf(stdout, "Parked:   %d transactions waiting for their person\n", st.Parked) //nolint:errcheck
		}
		return nil
	})
}

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the HTTP API and keep the ledger in sync" }
func (*serveCmd) Usage() string {
	return `debtfree serve

  Listens on SERVER_HOST:SERVER_PORT. While AUTH_TOKEN is valid the ledger
  is mirrored live; when it expires the session ends.
`
}
func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...any) subcommands.ExitStatus {
	e := args[0].(*env)
	a, err := e.open(ctx, false)
	if err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err) //nolint:errcheck
		return subcommands.ExitFailure
	}
	if err := serve(ctx, a); err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err) //nolint:errcheck
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func serve(ctx context.Context, a *app.App) error {
	logger := a.Deps.Logger
	if a.Deps.Identity != nil {
		go func() {
			if err := a.Session.Run(ctx, a.Deps.Identity); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("session loop stopped", "error", err)
			}
		}()
	}

	fiberApp := webapi.SetupApp(a)
	go func() {
		<-ctx.Done()
		if err := fiberApp.Shutdown(); err != nil {
			logger.Error("failed to shut down server", "error", err)
		}
	}()

	cfg := a.Config.Server
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	logger.Info("Starting server", slog.String("env", a.Config.Env), slog.String("address", addr))
	return fiberApp.Listen(addr)
}
