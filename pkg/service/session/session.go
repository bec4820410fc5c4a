// Package session ties sync sessions to the signed-in identity.
package session

import (
	"context"
	"log/slog"

	"github.com/amirasaad/debtfree/pkg/identity"
)

// Syncer is the part of the sync coordinator the lifecycle drives.
type Syncer interface {
	Bind(identity string) error
	StartSession(ctx context.Context) error
	EndSession()
}

// Lifecycle starts a session when someone signs in and ends it when they
// sign out.
type Lifecycle struct {
	sync   Syncer
	logger *slog.Logger
}

// New creates a Lifecycle for a coordinator.
func New(sync Syncer, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{sync: sync, logger: logger.With("component", "session")}
}

// OnIdentityChange binds and starts a session for a non-empty identity and
// ends the session for identity.None.
func (l *Lifecycle) OnIdentityChange(ctx context.Context, id identity.Identity) error {
	if id.IsNone() {
		l.logger.Info("signed out")
		l.sync.EndSession()
		return nil
	}
	l.logger.Info("signed in", "identity", id)
	if err := l.sync.Bind(id.String()); err != nil {
		return err
	}
	return l.sync.StartSession(ctx)
}

// Run applies every change of src in order until src closes or ctx ends,
// then ends the session. Failures to start a session are logged and do not
// stop the loop.
func (l *Lifecycle) Run(ctx context.Context, src identity.Source) error {
	defer l.sync.EndSession()
	changes := src.Changes(ctx)
	for {
		select {
		case id, ok := <-changes:
			if !ok {
				return nil
			}
			if err := l.OnIdentityChange(ctx, id); err != nil {
				l.logger.Error("failed to start sync session", "identity", id, "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
