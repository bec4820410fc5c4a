package cloudsync

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/amirasaad/debtfree/infra/database"
	inframirror "github.com/amirasaad/debtfree/infra/mirror"
	infrarepo "github.com/amirasaad/debtfree/infra/repository"
	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/mirror"
	ledgersvc "github.com/amirasaad/debtfree/pkg/service/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

const (
	waitFor = 5 * time.Second
	tick    = 20 * time.Millisecond
)

func newLedger(t *testing.T) *ledgersvc.Service {
	t.Helper()
	db, err := database.Open(&config.DB{
		Url: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return ledgersvc.New(infrarepo.NewUoW(db), slog.Default())
}

// newDevice returns a coordinator with its own ledger writing to remote.
func newDevice(t *testing.T, remote mirror.Store) *Coordinator {
	t.Helper()
	c := New(newLedger(t), remote, slog.Default(), WithRemoteTimeout(time.Second))
	t.Cleanup(c.EndSession)
	return c
}

func goLive(t *testing.T, c *Coordinator, identity string) {
	t.Helper()
	require.NoError(t, c.Bind(identity))
	require.NoError(t, c.StartSession(context.Background()))
	require.Equal(t, Live, c.Status().State)
}

func lend(t *testing.T, c *Coordinator, p *ledger.Person, amount int64) *ledger.Transaction {
	t.Helper()
	tx, err := c.AddTransaction(context.Background(), dto.TransactionCreate{
		PersonID:  p.ID,
		Amount:    decimal.NewFromInt(amount),
		Direction: ledger.Lent.String(),
	})
	require.NoError(t, err)
	return tx
}

func remoteIDs(t *testing.T, m mirror.Store, identity string, col mirror.Collection) []string {
	t.Helper()
	docs, err := m.List(context.Background(), mirror.UserNamespace(identity), col)
	require.NoError(t, err)
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids
}

func TestDetached_WritesLocalOnly(t *testing.T) {
	t.Parallel()
	remote := inframirror.NewMemory("device-a", nil)
	c := newDevice(t, remote)
	ctx := context.Background()

	p, err := c.AddPerson(ctx, dto.PersonCreate{Name: "Alex"})
	require.NoError(t, err)
	_, err = c.Ledger().GetPerson(ctx, p.ID)
	require.NoError(t, err)

	assert.Equal(t, Detached, c.Status().State)
	assert.Empty(t, remoteIDs(t, remote, "u1", mirror.People))

	assert.ErrorIs(t, c.StartSession(ctx), domain.ErrNotBound)
	assert.ErrorIs(t, c.PushAll(ctx), domain.ErrNotBound)
}

func TestStartSession_UnreachableMirrorStillGoesLive(t *testing.T) {
	t.Parallel()
	remote := inframirror.NewMemory("device-a", nil)
	remote.SetFault(context.DeadlineExceeded)
	c := newDevice(t, remote)
	ctx := context.Background()

	goLive(t, c, "u1")

	p, err := c.AddPerson(ctx, dto.PersonCreate{Name: "Alex"})
	require.NoError(t, err, "environment failures keep the local result")
	_, err = c.Ledger().GetPerson(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, c.DeletePerson(ctx, p.ID))
}

func TestMirroredWrite_RemoteRejection(t *testing.T) {
	t.Parallel()
	remote := inframirror.NewMemory("device-a", nil)
	c := newDevice(t, remote)
	ctx := context.Background()
	goLive(t, c, "u1")

	remote.SetFault(errors.New("permission denied"))
	p, err := c.AddPerson(ctx, dto.PersonCreate{Name: "Alex"})
	require.ErrorIs(t, err, domain.ErrRemote)
	require.NotNil(t, p, "the local result is returned with the remote error")
	_, err = c.Ledger().GetPerson(ctx, p.ID)
	require.NoError(t, err)

	_, err = c.AddPerson(ctx, dto.PersonCreate{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrRemote)
}

func TestStartSession_DownloadsAndPushes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := inframirror.NewMemory("device-a", nil)
	other := remote.WithOrigin("device-b")
	ns := mirror.UserNamespace("u1")

	c := newDevice(t, remote)
	local, err := c.AddPerson(ctx, dto.PersonCreate{Name: "Local"})
	require.NoError(t, err)

	// The mirror already holds a renamed copy of the local person and one
	// person with a transaction this device has never seen.
	renamed := dto.PersonToDoc(local)
	renamed.Name = "Renamed elsewhere"
	stranger := ledger.NewPersonFromData(ledger.NewID(), "Stranger", "", "", ledger.Now())
	now := ledger.Now()
	strangerTx := ledger.NewTransactionFromData(ledger.NewID(), stranger.ID, decimal.NewFromInt(40), ledger.Borrowed, now, "", now)

	docs := []mirror.Document{}
	for id, v := range map[string]any{local.ID.String(): renamed, stranger.ID.String(): dto.PersonToDoc(stranger)} {
		d, err := mirror.NewDocument(id, v)
		require.NoError(t, err)
		docs = append(docs, d)
	}
	require.NoError(t, other.Put(ctx, ns, mirror.People, docs...))
	d, err := mirror.NewDocument(strangerTx.ID.String(), dto.TransactionToDoc(strangerTx))
	require.NoError(t, err)
	require.NoError(t, other.Put(ctx, ns, mirror.Transactions, d))

	goLive(t, c, "u1")

	got, err := c.Ledger().GetPerson(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Local", got.Name, "local copy wins on download")

	_, err = c.Ledger().GetTransaction(ctx, strangerTx.ID)
	require.NoError(t, err)

	people, err := remote.List(ctx, ns, mirror.People)
	require.NoError(t, err)
	for _, doc := range people {
		if doc.ID != local.ID.String() {
			continue
		}
		var pd dto.PersonDoc
		require.NoError(t, doc.Decode(&pd))
		assert.Equal(t, "Local", pd.Name, "initial push overwrites the remote copy")
		assert.Equal(t, "device-a", doc.Origin)
	}
}

func TestLiveMerge_BetweenDevices(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := inframirror.NewMemory("device-a", nil)
	a := newDevice(t, remote)
	b := newDevice(t, remote.WithOrigin("device-b"))
	goLive(t, a, "u1")
	goLive(t, b, "u1")

	alex, err := a.AddPerson(ctx, dto.PersonCreate{Name: "Alex"})
	require.NoError(t, err)
	tx := lend(t, a, alex, 500)

	require.Eventually(t, func() bool {
		_, err := b.Ledger().GetTransaction(ctx, tx.ID)
		return err == nil
	}, waitFor, tick)

	// B edits the transaction; A keeps the prior state in its history.
	_, err = b.UpdateTransaction(ctx, tx.ID, dto.TransactionUpdate{Amount: ptr(decimal.NewFromInt(650))})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		got, err := a.Ledger().GetTransaction(ctx, tx.ID)
		return err == nil && got.Amount.Equal(decimal.NewFromInt(650))
	}, waitFor, tick)
	history, err := a.Ledger().GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, history[0].PreviousAmount.Equal(decimal.NewFromInt(500)))

	pb, err := b.Ledger().PersonBalance(ctx, alex.ID)
	require.NoError(t, err)
	assert.True(t, pb.OwesMe)

	// A deletes the person; B loses the person and the transaction.
	require.NoError(t, a.DeletePerson(ctx, alex.ID))
	require.Eventually(t, func() bool {
		_, perr := b.Ledger().GetPerson(ctx, alex.ID)
		_, terr := b.Ledger().GetTransaction(ctx, tx.ID)
		return errors.Is(perr, domain.ErrNotFound) && errors.Is(terr, domain.ErrNotFound)
	}, waitFor, tick)
	assert.Empty(t, remoteIDs(t, remote, "u1", mirror.Transactions))
}

func TestLiveMerge_Cards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := inframirror.NewMemory("device-a", nil)
	a := newDevice(t, remote)
	b := newDevice(t, remote.WithOrigin("device-b"))
	goLive(t, a, "u1")
	goLive(t, b, "u1")

	card, err := a.AddCard(ctx, dto.CardCreate{Name: "Travel", Number: "4111 1111 1111 1111", Type: "visa"})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, err := b.Ledger().GetCard(ctx, card.ID)
		return err == nil
	}, waitFor, tick)

	require.NoError(t, b.DeleteCard(ctx, card.ID))
	require.Eventually(t, func() bool {
		_, err := a.Ledger().GetCard(ctx, card.ID)
		return errors.Is(err, domain.ErrNotFound)
	}, waitFor, tick)
}

func TestEndSession_StopsMirroring(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := inframirror.NewMemory("device-a", nil)
	c := newDevice(t, remote)
	goLive(t, c, "u1")

	c.EndSession()
	c.EndSession()
	assert.Equal(t, Status{State: Detached}, c.Status())

	_, err := c.AddPerson(ctx, dto.PersonCreate{Name: "Offline"})
	require.NoError(t, err)
	assert.Empty(t, remoteIDs(t, remote, "u1", mirror.People))
}

func TestBind_SwitchesIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := inframirror.NewMemory("device-a", nil)
	c := newDevice(t, remote)

	assert.ErrorIs(t, c.Bind(""), domain.ErrValidation)

	goLive(t, c, "u1")
	require.NoError(t, c.Bind("u1"))
	assert.Equal(t, Live, c.Status().State, "rebinding the same identity keeps the session")

	require.NoError(t, c.Bind("u2"))
	st := c.Status()
	assert.Equal(t, Attached, st.State)
	assert.Equal(t, "u2", st.Identity)

	_, err := c.AddPerson(ctx, dto.PersonCreate{Name: "Sam"})
	require.NoError(t, err)
	assert.Len(t, remoteIDs(t, remote, "u2", mirror.People), 1)
	assert.Empty(t, remoteIDs(t, remote, "u1", mirror.People))
}

func TestStartSession_ConcurrentCallsShareOneRun(t *testing.T) {
	t.Parallel()
	remote := inframirror.NewMemory("device-a", nil)
	c := newDevice(t, remote)
	require.NoError(t, c.Bind("u1"))

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = c.StartSession(context.Background())
		}()
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, Live, c.Status().State)
}

func TestPushAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := inframirror.NewMemory("device-a", nil)
	c := newDevice(t, remote)

	p, err := c.AddPerson(ctx, dto.PersonCreate{Name: "Alex"})
	require.NoError(t, err)
	lend(t, c, p, 100)

	require.NoError(t, c.Bind("u1"))
	require.NoError(t, c.PushAll(ctx))
	assert.Len(t, remoteIDs(t, remote, "u1", mirror.People), 1)
	assert.Len(t, remoteIDs(t, remote, "u1", mirror.Transactions), 1)

	remote.SetFault(errors.New("quota exceeded"))
	err = c.PushAll(ctx)
	assert.ErrorIs(t, err, domain.ErrRemote)
}

func ptr[T any](v T) *T { return &v }
