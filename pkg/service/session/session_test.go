package session_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/amirasaad/debtfree/pkg/identity"
	"github.com/amirasaad/debtfree/pkg/service/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type fakeSyncer struct {
	mu       sync.Mutex
	calls    []string
	startErr error
}

func (f *fakeSyncer) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSyncer) Bind(id string) error {
	f.record("bind:" + id)
	return nil
}

func (f *fakeSyncer) StartSession(context.Context) error {
	f.record("start")
	return f.startErr
}

func (f *fakeSyncer) EndSession() { f.record("end") }

func (f *fakeSyncer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type sliceSource []identity.Identity

func (s sliceSource) Changes(context.Context) <-chan identity.Identity {
	ch := make(chan identity.Identity, len(s))
	for _, id := range s {
		ch <- id
	}
	close(ch)
	return ch
}

func TestOnIdentityChange(t *testing.T) {
	f := &fakeSyncer{}
	l := session.New(f, nil)
	ctx := context.Background()

	require.NoError(t, l.OnIdentityChange(ctx, "alice"))
	require.NoError(t, l.OnIdentityChange(ctx, identity.None))
	assert.Equal(t, []string{"bind:alice", "start", "end"}, f.Calls())
}

func TestOnIdentityChange_StartFailure(t *testing.T) {
	f := &fakeSyncer{startErr: errors.New("boom")}
	l := session.New(f, nil)
	assert.Error(t, l.OnIdentityChange(context.Background(), "alice"))
}

func TestRun_AppliesChangesInOrder(t *testing.T) {
	f := &fakeSyncer{startErr: errors.New("ignored")}
	l := session.New(f, nil)

	err := l.Run(context.Background(), sliceSource{"alice", identity.None, "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"bind:alice", "start",
		"end",
		"bind:bob", "start",
		"end",
	}, f.Calls())
}

func TestRun_EndsOnContext(t *testing.T) {
	f := &fakeSyncer{}
	l := session.New(f, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan identity.Identity)
	err := l.Run(ctx, sourceFunc(func(context.Context) <-chan identity.Identity { return block }))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"end"}, f.Calls())
}

func TestRun_StaticSource(t *testing.T) {
	f := &fakeSyncer{}
	require.NoError(t, session.New(f, nil).Run(context.Background(), identity.Static("carol")))
	assert.Equal(t, []string{"bind:carol", "start", "end"}, f.Calls())
}

type sourceFunc func(context.Context) <-chan identity.Identity

func (f sourceFunc) Changes(ctx context.Context) <-chan identity.Identity { return f(ctx) }
