package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func remotePerson(name string) *ledger.Person {
	return ledger.NewPersonFromData(ledger.NewID(), name, "", "", ledger.Now())
}

func remoteTx(p *ledger.Person, amount int64, d ledger.Direction) *ledger.Transaction {
	now := ledger.Now()
	return ledger.NewTransactionFromData(ledger.NewID(), p.ID, decimal.NewFromInt(amount), d, now, "", now)
}

func TestInsertPersonIfAbsent_LocalWins(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()

	local := addPerson(t, s, "Local Name")
	incoming := *local
	incoming.Name = "Remote Name"

	inserted, err := s.InsertPersonIfAbsent(ctx, &incoming)
	require.NoError(t, err)
	assert.False(t, inserted)
	got, err := s.GetPerson(ctx, local.ID)
	require.NoError(t, err)
	assert.Equal(t, "Local Name", got.Name)

	fresh := remotePerson("Fresh")
	inserted, err = s.InsertPersonIfAbsent(ctx, fresh)
	require.NoError(t, err)
	assert.True(t, inserted)
	got, err = s.GetPerson(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, fresh.SameAs(got), "replica keeps the remote id and timestamps")
}

func TestInsertTransactionIfAbsent_RequiresParent(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()

	parent := remotePerson("Parent")
	tx := remoteTx(parent, 75, ledger.Lent)

	_, err := s.InsertTransactionIfAbsent(ctx, tx)
	require.ErrorIs(t, err, domain.ErrMissingParent)

	_, err = s.InsertPersonIfAbsent(ctx, parent)
	require.NoError(t, err)
	inserted, err := s.InsertTransactionIfAbsent(ctx, tx)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = s.InsertTransactionIfAbsent(ctx, tx)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestApplyPersonAndCard(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()

	p := remotePerson("Alex")
	changed, err := s.ApplyPerson(ctx, p)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.ApplyPerson(ctx, p)
	require.NoError(t, err)
	assert.False(t, changed, "identical copy is not rewritten")

	renamed := *p
	renamed.Name = "Alexander"
	changed, err = s.ApplyPerson(ctx, &renamed)
	require.NoError(t, err)
	assert.True(t, changed)
	got, err := s.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alexander", got.Name)

	c, err := ledger.NewCard("Daily", "5555444433331111", ledger.Mastercard, "A", "01/30", "999", "#000")
	require.NoError(t, err)
	changed, err = s.ApplyCard(ctx, c)
	require.NoError(t, err)
	assert.True(t, changed)
	c.Color = "#fff"
	changed, err = s.ApplyCard(ctx, c)
	require.NoError(t, err)
	assert.True(t, changed)
	gotCard, err := s.GetCard(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "#fff", gotCard.Color)
}

func TestApplyTransaction_MergesRemoteEdits(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()

	p := remotePerson("Alex")
	_, err := s.ApplyPerson(ctx, p)
	require.NoError(t, err)

	tx := remoteTx(p, 100, ledger.Lent)
	changed, err := s.ApplyTransaction(ctx, tx)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.ApplyTransaction(ctx, tx)
	require.NoError(t, err)
	assert.False(t, changed)
	history, err := s.GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	edited := *tx
	edited.Amount = decimal.NewFromInt(120)
	edited.Date = ledger.Timestamp(time.Now().Add(-time.Hour))
	changed, err = s.ApplyTransaction(ctx, &edited)
	require.NoError(t, err)
	assert.True(t, changed)

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(120).Equal(got.Amount))
	history, err = s.GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, decimal.NewFromInt(100).Equal(history[0].PreviousAmount))

	orphan := remoteTx(remotePerson("Nobody"), 1, ledger.Borrowed)
	_, err = s.ApplyTransaction(ctx, orphan)
	assert.ErrorIs(t, err, domain.ErrMissingParent)
}
