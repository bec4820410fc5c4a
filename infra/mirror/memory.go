package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/mirror"
)

type collectionKey struct {
	ns mirror.Namespace
	c  mirror.Collection
}

// memoryBackend holds the documents shared by every Memory handle.
type memoryBackend struct {
	mu     sync.Mutex
	docs   map[collectionKey]map[string]mirror.Document
	subs   map[collectionKey][]*subscriber
	fault  error
	closed bool
}

// Memory is an in-process mirror. Handles created with WithOrigin share the
// same documents, which makes it suitable for simulating several devices.
type Memory struct {
	backend *memoryBackend
	origin  string
	logger  *slog.Logger
}

// NewMemory creates an empty in-process mirror writing as origin.
func NewMemory(origin string, logger *slog.Logger) *Memory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memory{
		backend: &memoryBackend{
			docs: make(map[collectionKey]map[string]mirror.Document),
			subs: make(map[collectionKey][]*subscriber),
		},
		origin: origin,
		logger: logger.With("component", "memory-mirror"),
	}
}

// WithOrigin returns a handle on the same documents writing as another device.
func (m *Memory) WithOrigin(origin string) *Memory {
	return &Memory{backend: m.backend, origin: origin, logger: m.logger}
}

// SetFault makes every subsequent call fail with err until cleared with nil.
// Errors not already classified are reported as domain.ErrRemote.
func (m *Memory) SetFault(err error) {
	m.backend.mu.Lock()
	defer m.backend.mu.Unlock()
	m.backend.fault = err
}

func (m *Memory) Origin() string { return m.origin }

// check must be called with the backend lock held.
func (b *memoryBackend) check() error {
	if b.closed {
		return fmt.Errorf("%w: memory mirror closed", domain.ErrRemoteUnavailable)
	}
	if b.fault != nil {
		return classify(b.fault)
	}
	return nil
}

func (m *Memory) List(ctx context.Context, ns mirror.Namespace, c mirror.Collection) ([]mirror.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(err)
	}
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(); err != nil {
		return nil, err
	}
	docs := b.docs[collectionKey{ns, c}]
	out := make([]mirror.Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b mirror.Document) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (m *Memory) Put(ctx context.Context, ns mirror.Namespace, c mirror.Collection, docs ...mirror.Document) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	if len(docs) == 0 {
		return nil
	}
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	key := collectionKey{ns, c}
	stored := b.docs[key]
	if stored == nil {
		stored = make(map[string]mirror.Document)
		b.docs[key] = stored
	}
	now := time.Now().UTC()
	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("%w: document without id", domain.ErrRemote)
		}
	}
	for _, d := range docs {
		op := mirror.Added
		if _, ok := stored[d.ID]; ok {
			op = mirror.Modified
		}
		d.UpdatedAt = now
		d.Origin = m.origin
		stored[d.ID] = d
		b.publish(key, mirror.Change{Type: op, Collection: c, Doc: d})
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, ns mirror.Namespace, c mirror.Collection, ids ...string) error {
	if err := ctx.Err(); err != nil {
		return classify(err)
	}
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.check(); err != nil {
		return err
	}
	key := collectionKey{ns, c}
	stored := b.docs[key]
	now := time.Now().UTC()
	for _, id := range ids {
		if _, ok := stored[id]; !ok {
			continue
		}
		delete(stored, id)
		b.publish(key, mirror.Change{
			Type:       mirror.Removed,
			Collection: c,
			Doc:        mirror.Document{ID: id, UpdatedAt: now, Origin: m.origin},
		})
	}
	return nil
}

func (m *Memory) Watch(ctx context.Context, ns mirror.Namespace, c mirror.Collection) (<-chan mirror.Change, error) {
	b := m.backend
	b.mu.Lock()
	if err := b.check(); err != nil {
		b.mu.Unlock()
		return nil, err
	}
	key := collectionKey{ns, c}
	sub := newSubscriber()
	for _, d := range b.docs[key] {
		sub.push(mirror.Change{Type: mirror.Added, Collection: c, Doc: d})
	}
	b.subs[key] = append(b.subs[key], sub)
	b.mu.Unlock()

	out := make(chan mirror.Change)
	go func() {
		defer close(out)
		defer b.unsubscribe(key, sub)
		sub.pump(ctx, out)
	}()
	return out, nil
}

// Close fails every later call and ends live watches.
func (m *Memory) Close() error {
	b := m.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for key, subs := range b.subs {
		for _, s := range subs {
			s.stop()
		}
		delete(b.subs, key)
	}
	return nil
}

// publish must be called with the backend lock held.
func (b *memoryBackend) publish(key collectionKey, ch mirror.Change) {
	for _, s := range b.subs[key] {
		s.push(ch)
	}
}

func (b *memoryBackend) unsubscribe(key collectionKey, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[key] = slices.DeleteFunc(b.subs[key], func(s *subscriber) bool { return s == sub })
}

// subscriber buffers changes without bounds so writers never block on a
// slow watcher, while keeping commit order.
type subscriber struct {
	mu      sync.Mutex
	queue   []mirror.Change
	notify  chan struct{}
	done    chan struct{}
	stopped bool
}

func newSubscriber() *subscriber {
	return &subscriber{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

func (s *subscriber) push(ch mirror.Change) {
	s.mu.Lock()
	s.queue = append(s.queue, ch)
	s.mu.Unlock()
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.stopped = true
		close(s.done)
	}
}

func (s *subscriber) pump(ctx context.Context, out chan<- mirror.Change) {
	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		for _, ch := range batch {
			select {
			case out <- ch:
			case <-ctx.Done():
				return
			case <-s.done:
				return
			}
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}

var _ mirror.Store = (*Memory)(nil)
