package mirror

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func TestMemory_Contract(t *testing.T) {
	a := NewMemory("device-a", slog.Default())
	testStoreContract(t, a, a.WithOrigin("device-b"))
}

func TestMemory_Fault(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("device-a", nil)
	ns := mirror.UserNamespace("u1")

	m.SetFault(context.DeadlineExceeded)
	err := m.Put(ctx, ns, mirror.People, mustDoc(t, "p1", "one"))
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)

	m.SetFault(errors.New("permission denied"))
	_, err = m.List(ctx, ns, mirror.People)
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.NotErrorIs(t, err, domain.ErrRemoteUnavailable)

	_, err = m.Watch(ctx, ns, mirror.People)
	assert.Error(t, err)

	m.SetFault(nil)
	require.NoError(t, m.Put(ctx, ns, mirror.People, mustDoc(t, "p1", "one")))
}

func TestMemory_BatchIsAtomic(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("device-a", nil)
	ns := mirror.UserNamespace("u1")

	err := m.Put(ctx, ns, mirror.People, mustDoc(t, "p1", "one"), mirror.Document{})
	require.Error(t, err)

	docs, err := m.List(ctx, ns, mirror.People)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestMemory_CloseEndsWatches(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("device-a", nil)
	ns := mirror.UserNamespace("u1")

	ch, err := m.Watch(ctx, ns, mirror.People)
	require.NoError(t, err)
	require.NoError(t, m.Close())

	_, ok := <-ch
	assert.False(t, ok)

	err = m.Put(ctx, ns, mirror.People, mustDoc(t, "p1", "one"))
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestMemory_SlowWatcherDoesNotBlockWriters(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewMemory("device-a", nil)
	ns := mirror.UserNamespace("u1")

	ch, err := m.Watch(ctx, ns, mirror.Transactions)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		require.NoError(t, m.Put(ctx, ns, mirror.Transactions, mustDoc(t, "t", "x")))
	}
	first := nextChange(t, ch)
	assert.Equal(t, mirror.Added, first.Type)
	for i := 1; i < 100; i++ {
		assert.Equal(t, mirror.Modified, nextChange(t, ch).Type)
	}
}
