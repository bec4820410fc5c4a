package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/pkg/identity"
	"github.com/amirasaad/debtfree/pkg/mirror"
	"github.com/amirasaad/debtfree/pkg/repository"
	"github.com/amirasaad/debtfree/pkg/service/cloudsync"
	"github.com/amirasaad/debtfree/pkg/service/ledger"
	"github.com/amirasaad/debtfree/pkg/service/session"
)

// Deps contains the infrastructure the services are built on.
type Deps struct {
	Uow    repository.UnitOfWork
	Mirror mirror.Store
	// Identity reports who is signed in; nil when no token is configured.
	Identity identity.Source
	Logger   *slog.Logger
	// AccessLog receives HTTP access logs; stdout when nil.
	AccessLog io.Writer
	// Closers release infrastructure in order when the app shuts down.
	Closers []func() error
}

type App struct {
	Deps    *Deps
	Config  *config.App
	Ledger  *ledger.Service
	Sync    *cloudsync.Coordinator
	Session *session.Lifecycle
}

func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	var ledgerOpts []ledger.Option
	if cfg.Ledger != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithCurrency(cfg.Ledger.Currency))
	}
	var syncOpts []cloudsync.Option
	if cfg.Sync != nil {
		syncOpts = append(syncOpts, cloudsync.WithRemoteTimeout(cfg.Sync.RemoteTimeout))
	}
	app.Ledger = ledger.New(deps.Uow, deps.Logger, ledgerOpts...)
	app.Sync = cloudsync.New(app.Ledger, deps.Mirror, deps.Logger, syncOpts...)
	app.Session = session.New(app.Sync, deps.Logger)
	return app
}

// SignIn applies the current identity once and starts a session when
// someone is signed in. It reports whether a session was started.
func (a *App) SignIn(ctx context.Context) (bool, error) {
	if a.Deps.Identity == nil {
		return false, nil
	}
	select {
	case id, ok := <-a.Deps.Identity.Changes(ctx):
		if !ok || id.IsNone() {
			return false, nil
		}
		if err := a.Session.OnIdentityChange(ctx, id); err != nil {
			return false, err
		}
		return true, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Close ends the sync session and releases the infrastructure.
func (a *App) Close() error {
	a.Sync.EndSession()
	var errs []error
	for _, closeFn := range a.Deps.Closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}
