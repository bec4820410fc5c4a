package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/debtfree/pkg/mirror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Text string `json:"text"`
}

func mustDoc(t *testing.T, id, text string) mirror.Document {
	t.Helper()
	d, err := mirror.NewDocument(id, note{Text: text})
	require.NoError(t, err)
	return d
}

func nextChange(t *testing.T, ch <-chan mirror.Change) mirror.Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "watch channel closed")
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
	return mirror.Change{}
}

// testStoreContract checks the behaviour every mirror must share. a and b
// are two handles on the same documents writing as different devices.
func testStoreContract(t *testing.T, a, b mirror.Store) {
	ctx := context.Background()
	ns := mirror.UserNamespace("u-" + t.Name())

	t.Run("put stamps origin and list returns documents", func(t *testing.T) {
		require.NoError(t, a.Put(ctx, ns, mirror.People, mustDoc(t, "p1", "one"), mustDoc(t, "p2", "two")))

		docs, err := b.List(ctx, ns, mirror.People)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "p1", docs[0].ID)
		assert.Equal(t, a.Origin(), docs[0].Origin)
		assert.False(t, docs[0].UpdatedAt.IsZero())

		var n note
		require.NoError(t, docs[1].Decode(&n))
		assert.Equal(t, "two", n.Text)
	})

	t.Run("collections and namespaces are isolated", func(t *testing.T) {
		docs, err := a.List(ctx, ns, mirror.Cards)
		require.NoError(t, err)
		assert.Empty(t, docs)

		docs, err = a.List(ctx, mirror.UserNamespace("someone-else"), mirror.People)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("watch sends snapshot then live changes in order", func(t *testing.T) {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		ch, err := a.Watch(wctx, ns, mirror.People)
		require.NoError(t, err)

		first := nextChange(t, ch)
		second := nextChange(t, ch)
		assert.Equal(t, mirror.Added, first.Type)
		assert.ElementsMatch(t, []string{"p1", "p2"}, []string{first.Doc.ID, second.Doc.ID})

		require.NoError(t, b.Put(ctx, ns, mirror.People, mustDoc(t, "p3", "three")))
		require.NoError(t, b.Put(ctx, ns, mirror.People, mustDoc(t, "p1", "uno")))
		require.NoError(t, b.Delete(ctx, ns, mirror.People, "p2"))

		c := nextChange(t, ch)
		assert.Equal(t, mirror.Added, c.Type)
		assert.Equal(t, "p3", c.Doc.ID)
		assert.Equal(t, b.Origin(), c.Doc.Origin)

		c = nextChange(t, ch)
		assert.Equal(t, mirror.Modified, c.Type)
		assert.Equal(t, "p1", c.Doc.ID)
		var n note
		require.NoError(t, c.Doc.Decode(&n))
		assert.Equal(t, "uno", n.Text)

		c = nextChange(t, ch)
		assert.Equal(t, mirror.Removed, c.Type)
		assert.Equal(t, "p2", c.Doc.ID)
		assert.Equal(t, b.Origin(), c.Doc.Origin)

		cancel()
		assert.Eventually(t, func() bool {
			select {
			case _, ok := <-ch:
				return !ok
			default:
				return false
			}
		}, 5*time.Second, 10*time.Millisecond)
	})

	t.Run("deleting an absent id emits nothing", func(t *testing.T) {
		wctx, cancel := context.WithCancel(ctx)
		defer cancel()
		ch, err := a.Watch(wctx, ns, mirror.Cards)
		require.NoError(t, err)

		require.NoError(t, b.Delete(ctx, ns, mirror.Cards, "missing"))
		require.NoError(t, b.Put(ctx, ns, mirror.Cards, mustDoc(t, "c1", "visa")))

		c := nextChange(t, ch)
		assert.Equal(t, mirror.Added, c.Type)
		assert.Equal(t, "c1", c.Doc.ID)
	})

	t.Run("document without id is rejected", func(t *testing.T) {
		err := a.Put(ctx, ns, mirror.Transactions, mirror.Document{Data: []byte(`{}`)})
		require.Error(t, err)
	})
}
