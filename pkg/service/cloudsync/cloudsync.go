// Package cloudsync keeps the local ledger and the remote mirror of one
// identity in step.
//
// Local writes always land first. While an identity is bound they are then
// copied to the mirror, and while the session is live, changes made on other
// devices are merged back into the local store.
package cloudsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/mirror"
	ledgersvc "github.com/amirasaad/debtfree/pkg/service/ledger"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// State is the phase of the sync session.
type State int

const (
	Detached State = iota
	Attached
	Syncing
	Live
)

func (s State) String() string {
	switch s {
	case Detached:
		return "detached"
	case Attached:
		return "attached"
	case Syncing:
		return "syncing"
	case Live:
		return "live"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Status is a point-in-time view of the coordinator.
type Status struct {
	State    State  `json:"-"`
	Identity string `json:"identity,omitempty"`
	// Parked counts replicated transactions waiting for their person.
	Parked int `json:"parked"`
}

const (
	defaultRemoteTimeout = 10 * time.Second
	watchRetryMin        = 500 * time.Millisecond
	watchRetryMax        = 30 * time.Second
)

// session is the state bound to one identity. It is replaced, never reused,
// so goroutines holding a stale session can tell they are stale.
type session struct {
	identity string
	ns       mirror.Namespace
	state    State
	// ctx ends when the session is torn down; every session goroutine uses it.
	ctx    context.Context
	cancel context.CancelFunc
	// done is closed when the listeners have exited; nil until Live.
	done chan struct{}

	mu     sync.Mutex
	parked map[uuid.UUID][]*ledger.Transaction
}

func (s *session) park(tx *ledger.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.parked[tx.PersonID]
	for i, p := range list {
		if p.ID == tx.ID {
			list[i] = tx
			return
		}
	}
	s.parked[tx.PersonID] = append(list, tx)
}

func (s *session) unpark(personID uuid.UUID) []*ledger.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.parked[personID]
	delete(s.parked, personID)
	return list
}

func (s *session) forget(txID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for personID, list := range s.parked {
		for i, p := range list {
			if p.ID == txID {
				list = append(list[:i], list[i+1:]...)
				if len(list) == 0 {
					delete(s.parked, personID)
				} else {
					s.parked[personID] = list
				}
				return
			}
		}
	}
}

func (s *session) parkedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, list := range s.parked {
		n += len(list)
	}
	return n
}

// Coordinator drives the sync session and mirrors ledger writes.
type Coordinator struct {
	ledger  *ledgersvc.Service
	remote  mirror.Store
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.Mutex
	sess   *session
	starts singleflight.Group
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRemoteTimeout bounds every single mirror call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(c *Coordinator) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// New creates a detached Coordinator.
func New(ledger *ledgersvc.Service, remote mirror.Store, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		ledger:  ledger,
		remote:  remote,
		logger:  logger.With("component", "cloudsync"),
		timeout: defaultRemoteTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ledger returns the local store the coordinator writes through.
func (c *Coordinator) Ledger() *ledgersvc.Service {
	return c.ledger
}

// Status reports the current state, identity and parked count.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	s := c.sess
	if s == nil {
		c.mu.Unlock()
		return Status{State: Detached}
	}
	st := Status{State: s.state, Identity: s.identity}
	c.mu.Unlock()
	st.Parked = s.parkedCount()
	return st
}

// Bind attaches an identity. Binding a different identity ends the current
// session first; binding the same one again is a no-op.
func (c *Coordinator) Bind(identity string) error {
	if identity == "" {
		return fmt.Errorf("%w: identity is required", domain.ErrValidation)
	}
	c.mu.Lock()
	if c.sess != nil && c.sess.identity == identity {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	c.EndSession()

	ctx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = &session{
		identity: identity,
		ns:       mirror.UserNamespace(identity),
		state:    Attached,
		ctx:      ctx,
		cancel:   cancel,
		parked:   make(map[uuid.UUID][]*ledger.Transaction),
	}
	c.logger.Info("identity bound", "identity", identity)
	return nil
}

// StartSession downloads what is missing locally, pushes the local ledger
// and attaches live listeners. Remote failures are logged and do not stop
// the session from going live. Concurrent calls share one run. If ctx ends
// first the run carries on in the background.
func (c *Coordinator) StartSession(ctx context.Context) error {
	c.mu.Lock()
	s := c.sess
	if s == nil {
		c.mu.Unlock()
		return domain.ErrNotBound
	}
	if s.state == Live {
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	key := fmt.Sprintf("%s/%p", s.identity, s)
	res := c.starts.DoChan(key, func() (any, error) {
		return nil, c.start(s)
	})
	select {
	case r := <-res:
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Coordinator) start(s *session) error {
	ctx := s.ctx
	if !c.transition(s, Attached, Syncing) {
		return nil
	}
	log := c.logger.With("identity", s.identity)
	log.Info("starting sync session")

	c.download(ctx, s)
	if c.stale(s) {
		log.Info("session ended during download")
		return nil
	}
	for _, err := range c.push(ctx, s.ns) {
		log.Warn("initial push incomplete", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != s {
		log.Info("session ended during initial sync")
		return nil
	}
	s.done = make(chan struct{})
	s.state = Live
	go c.listen(ctx, s)
	log.Info("sync session live")
	return nil
}

// EndSession stops the listeners, waits for them and clears the identity.
// Parked transactions are dropped. Calling it when detached is a no-op.
func (c *Coordinator) EndSession() {
	c.mu.Lock()
	s := c.sess
	c.sess = nil
	var done chan struct{}
	if s != nil {
		done = s.done
		s.state = Detached
	}
	c.mu.Unlock()
	if s == nil {
		return
	}
	s.cancel()
	if done != nil {
		<-done
	}
	if n := s.parkedCount(); n > 0 {
		c.logger.Warn("dropping parked transactions", "identity", s.identity, "count", n)
	}
	c.logger.Info("sync session ended", "identity", s.identity)
}

// transition moves s from one state to another if s is still current.
func (c *Coordinator) transition(s *session, from, to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != s || s.state != from {
		return false
	}
	s.state = to
	return true
}

func (c *Coordinator) stale(s *session) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess != s
}

// bound returns the current namespace, if any identity is bound.
func (c *Coordinator) bound() (mirror.Namespace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		return "", false
	}
	return c.sess.ns, true
}

func (c *Coordinator) remoteContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}
