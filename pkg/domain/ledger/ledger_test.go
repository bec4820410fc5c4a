package ledger_test

import (
	"testing"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPerson(t *testing.T) {
	t.Parallel()

	p, err := ledger.NewPerson("  Alex ", "555-0101", "")
	require.NoError(t, err)
	assert.Equal(t, "Alex", p.Name)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, time.UTC, p.CreatedAt.Location())

	_, err = ledger.NewPerson("   ", "", "")
	require.ErrorIs(t, err, ledger.ErrNameRequired)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNewIDIsTimeOrdered(t *testing.T) {
	t.Parallel()

	prev := ledger.NewID()
	for range 100 {
		next := ledger.NewID()
		assert.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestNewTransaction(t *testing.T) {
	t.Parallel()
	personID := ledger.NewID()
	date := time.Date(2024, 3, 1, 10, 30, 0, 123456789, time.FixedZone("IST", 5*3600+1800))

	tx, err := ledger.NewTransaction(personID, decimal.RequireFromString("500.005"), ledger.Lent, date, " lunch ")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("500.01").Equal(tx.Amount), "amount rounds to minor units")
	assert.Equal(t, "lunch", tx.Note)
	assert.True(t, tx.Date.Equal(date.Truncate(time.Millisecond)))
	assert.Equal(t, time.UTC, tx.Date.Location())

	tests := []struct {
		name      string
		personID  uuid.UUID
		amount    string
		direction ledger.Direction
		want      error
	}{
		{"zero amount", personID, "0", ledger.Lent, ledger.ErrAmountMustBePositive},
		{"negative amount", personID, "-10", ledger.Borrowed, ledger.ErrAmountMustBePositive},
		{"sub-minor amount", personID, "0.001", ledger.Lent, ledger.ErrAmountMustBePositive},
		{"bad direction", personID, "10", ledger.Direction("GIFT"), ledger.ErrInvalidDirection},
		{"missing person", uuid.Nil, "10", ledger.Lent, ledger.ErrMissingPerson},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ledger.NewTransaction(tt.personID, decimal.RequireFromString(tt.amount), tt.direction, date, "")
			require.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTransactionZeroDateDefaultsToCreation(t *testing.T) {
	t.Parallel()

	tx, err := ledger.NewTransaction(ledger.NewID(), decimal.NewFromInt(1), ledger.Lent, time.Time{}, "")
	require.NoError(t, err)
	assert.True(t, tx.Date.Equal(tx.CreatedAt))
}

func TestTransactionReviseKeepsStateOnError(t *testing.T) {
	t.Parallel()

	tx, err := ledger.NewTransaction(ledger.NewID(), decimal.NewFromInt(100), ledger.Lent, time.Now(), "a")
	require.NoError(t, err)
	before := *tx

	err = tx.Revise(decimal.NewFromInt(-1), ledger.Borrowed, time.Now(), "b")
	require.Error(t, err)
	assert.True(t, before.SameAs(tx))
}

func TestTransactionSignedAndSnapshot(t *testing.T) {
	t.Parallel()

	tx, err := ledger.NewTransaction(ledger.NewID(), decimal.NewFromInt(200), ledger.Borrowed, time.Now(), "rent")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-200).Equal(tx.Signed()))

	changed := time.Now()
	h := tx.Snapshot(changed)
	assert.Equal(t, tx.ID, h.TransactionID)
	assert.True(t, tx.Amount.Equal(h.PreviousAmount))
	assert.Equal(t, tx.Direction, h.PreviousDirection)
	assert.True(t, tx.Date.Equal(h.PreviousDate))
	assert.Equal(t, tx.Note, h.PreviousNote)
	assert.True(t, h.ChangedAt.Equal(ledger.Timestamp(changed)))
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	tests := map[string]ledger.Direction{
		"LENT":     ledger.Lent,
		"borrowed": ledger.Borrowed,
		"YOU_GAVE": ledger.Lent,
		"YOU_GOT":  ledger.Borrowed,
	}
	for in, want := range tests {
		got, err := ledger.ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ledger.ParseDirection("both")
	assert.ErrorIs(t, err, ledger.ErrInvalidDirection)
}

func TestMinorUnits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(12345), ledger.ToMinorUnits(decimal.RequireFromString("123.45")))
	assert.Equal(t, int64(50000), ledger.ToMinorUnits(decimal.NewFromInt(500)))
	assert.True(t, decimal.RequireFromString("123.45").Equal(ledger.FromMinorUnits(12345)))
}

func TestNormalizeAmount(t *testing.T) {
	t.Parallel()

	got, err := ledger.NormalizeAmount(decimal.RequireFromString("10.005"))
	require.NoError(t, err)
	assert.Equal(t, "10.01", got.StringFixed(2))

	largest := decimal.RequireFromString("92233720368547758.07")
	got, err = ledger.NormalizeAmount(largest)
	require.NoError(t, err)
	assert.Equal(t, int64(9223372036854775807), ledger.ToMinorUnits(got))

	_, err = ledger.NormalizeAmount(decimal.RequireFromString("92233720368547758.08"))
	assert.ErrorIs(t, err, ledger.ErrAmountTooLarge)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = ledger.NormalizeAmount(decimal.RequireFromString("0.004"))
	assert.ErrorIs(t, err, ledger.ErrAmountMustBePositive)

	_, err = ledger.NewTransaction(uuid.New(), decimal.RequireFromString("184467440737095516.17"), ledger.Lent, time.Time{}, "")
	assert.ErrorIs(t, err, ledger.ErrAmountTooLarge)
}

func TestNewCard(t *testing.T) {
	t.Parallel()

	c, err := ledger.NewCard("Travel", "4111 1111 1111 1111", ledger.Visa, "A SMITH", "12/29", "123", "#1E88E5")
	require.NoError(t, err)
	assert.Equal(t, "4111111111111111", c.Number)
	assert.Equal(t, "••••••••••••1111", c.MaskedNumber())

	_, err = ledger.NewCard("x", "1", ledger.CardType("AMEX"), "", "", "", "")
	assert.ErrorIs(t, err, ledger.ErrInvalidCardType)

	ct, err := ledger.ParseCardType("rupay")
	require.NoError(t, err)
	assert.Equal(t, ledger.RuPay, ct)
}
