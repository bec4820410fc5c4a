package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/amirasaad/debtfree/infra/database"
	infrarepo "github.com/amirasaad/debtfree/infra/repository"
	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
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

func newService(t *testing.T) *ledgersvc.Service {
	t.Helper()
	db, err := database.Open(&config.DB{
		Url: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return ledgersvc.New(infrarepo.NewUoW(db), slog.Default())
}

func ptr[T any](v T) *T { return &v }

func addPerson(t *testing.T, s *ledgersvc.Service, name string) *ledger.Person {
	t.Helper()
	p, err := s.CreatePerson(context.Background(), dto.PersonCreate{Name: name})
	require.NoError(t, err)
	return p
}

func addTx(t *testing.T, s *ledgersvc.Service, p *ledger.Person, amount string, d ledger.Direction) *ledger.Transaction {
	t.Helper()
	tx, err := s.CreateTransaction(context.Background(), dto.TransactionCreate{
		PersonID:  p.ID,
		Amount:    decimal.RequireFromString(amount),
		Direction: d.String(),
		Date:      time.Now(),
	})
	require.NoError(t, err)
	return tx
}

func TestPersonRoundTrip(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()

	created, err := s.CreatePerson(ctx, dto.PersonCreate{Name: "Alex", Phone: "555-0101", Notes: "college"})
	require.NoError(t, err)

	got, err := s.GetPerson(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, created.SameAs(got))

	_, err = s.GetPerson(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.CreatePerson(ctx, dto.PersonCreate{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.CreatePerson(ctx, dto.PersonCreate{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetAllPersonsNewestFirst(t *testing.T) {
	t.Parallel()
	s := newService(t)

	a := addPerson(t, s, "A")
	b := addPerson(t, s, "B")
	c := addPerson(t, s, "C")

	all, err := s.GetAllPersons(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{c.ID, b.ID, a.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
}

func TestUpdatePerson(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p, err := s.CreatePerson(ctx, dto.PersonCreate{Name: "Alex", Phone: "555", Notes: "n"})
	require.NoError(t, err)

	got, err := s.UpdatePerson(ctx, p.ID, dto.PersonUpdate{Phone: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Alex", got.Name)
	assert.Empty(t, got.Phone, "empty string clears the field")
	assert.Equal(t, "n", got.Notes)

	got, err = s.UpdatePerson(ctx, p.ID, dto.PersonUpdate{Name: ptr(" Alexandra ")})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", got.Name)

	_, err = s.UpdatePerson(ctx, p.ID, dto.PersonUpdate{Name: ptr(" ")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	unchanged, err := s.UpdatePerson(ctx, p.ID, dto.PersonUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Alexandra", unchanged.Name)

	_, err = s.UpdatePerson(ctx, uuid.New(), dto.PersonUpdate{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.UpdatePerson(ctx, uuid.New(), dto.PersonUpdate{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateTransactionValidation(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p := addPerson(t, s, "Alex")

	tests := []struct {
		name string
		in   dto.TransactionCreate
		want error
	}{
		{"zero amount", dto.TransactionCreate{PersonID: p.ID, Amount: decimal.Zero, Direction: "LENT"}, domain.ErrValidation},
		{"negative amount", dto.TransactionCreate{PersonID: p.ID, Amount: decimal.NewFromInt(-5), Direction: "LENT"}, domain.ErrValidation},
		{"unknown direction", dto.TransactionCreate{PersonID: p.ID, Amount: decimal.NewFromInt(5), Direction: "GIFT"}, domain.ErrValidation},
		{"missing direction", dto.TransactionCreate{PersonID: p.ID, Amount: decimal.NewFromInt(5)}, domain.ErrValidation},
		{"no person id", dto.TransactionCreate{Amount: decimal.NewFromInt(5), Direction: "LENT"}, domain.ErrValidation},
		{"unknown person", dto.TransactionCreate{PersonID: uuid.New(), Amount: decimal.NewFromInt(5), Direction: "LENT"}, domain.ErrNotFound},
		{"amount past int64 minor units", dto.TransactionCreate{PersonID: p.ID, Amount: decimal.RequireFromString("184467440737095516.17"), Direction: "LENT"}, ledger.ErrAmountTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateTransaction(ctx, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	all, err := s.GetAllTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateTransactionRejectsOversizedAmount(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p := addPerson(t, s, "Alex")
	tx := addTx(t, s, p, "500", ledger.Lent)

	_, err := s.UpdateTransaction(ctx, tx.ID, dto.TransactionUpdate{
		Amount: ptr(decimal.RequireFromString("92233720368547758.08")),
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(500)))
	history, err := s.GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	pb, err := s.PersonBalance(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, pb.NetBalance.Equal(decimal.NewFromInt(500)))
}

func TestTransactionRoundTripAndOrdering(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p := addPerson(t, s, "Alex")

	day := func(d int) time.Time { return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC) }
	create := func(d int, note string) *ledger.Transaction {
		tx, err := s.CreateTransaction(ctx, dto.TransactionCreate{
			PersonID: p.ID, Amount: decimal.NewFromInt(10), Direction: "BORROWED", Date: day(d), Note: note,
		})
		require.NoError(t, err)
		return tx
	}
	first := create(1, "first")
	third := create(3, "third")
	sameDayLater := create(1, "later same day")

	got, err := s.GetTransaction(ctx, third.ID)
	require.NoError(t, err)
	assert.True(t, third.SameAs(got))

	list, err := s.GetTransactionsByPerson(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []uuid.UUID{third.ID, sameDayLater.ID, first.ID},
		[]uuid.UUID{list[0].ID, list[1].ID, list[2].ID})

	none, err := s.GetTransactionsByPerson(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpdateTransactionWritesHistory(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p := addPerson(t, s, "Alex")
	tx := addTx(t, s, p, "500", ledger.Lent)
	original := *tx

	updated, err := s.UpdateTransaction(ctx, tx.ID, dto.TransactionUpdate{
		Amount:    ptr(decimal.NewFromInt(450)),
		Direction: ptr("BORROWED"),
		Note:      ptr("corrected"),
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(450).Equal(updated.Amount))
	assert.Equal(t, ledger.Borrowed, updated.Direction)

	stored, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, updated.SameAs(stored))

	history, err := s.GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.True(t, original.Amount.Equal(history[0].PreviousAmount))
	assert.Equal(t, original.Direction, history[0].PreviousDirection)
	assert.True(t, original.Date.Equal(history[0].PreviousDate))
	assert.Equal(t, original.Note, history[0].PreviousNote)

	_, err = s.UpdateTransaction(ctx, tx.ID, dto.TransactionUpdate{Amount: ptr(decimal.NewFromInt(400))})
	require.NoError(t, err)
	history, err = s.GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, decimal.NewFromInt(450).Equal(history[0].PreviousAmount), "most recent change first")
}

func TestUpdateTransactionFailuresLeaveNoHistory(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p := addPerson(t, s, "Alex")
	tx := addTx(t, s, p, "100", ledger.Lent)

	missing := uuid.New()
	_, err := s.UpdateTransaction(ctx, missing, dto.TransactionUpdate{Amount: ptr(decimal.NewFromInt(1))})
	require.ErrorIs(t, err, domain.ErrNotFound)
	history, err := s.GetTransactionHistory(ctx, missing)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = s.UpdateTransaction(ctx, tx.ID, dto.TransactionUpdate{Amount: ptr(decimal.Zero)})
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.UpdateTransaction(ctx, tx.ID, dto.TransactionUpdate{Direction: ptr("SIDEWAYS")})
	require.ErrorIs(t, err, domain.ErrValidation)

	history, err = s.GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
	stored, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, tx.SameAs(stored))
}

func TestDeletePersonCascades(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	alex := addPerson(t, s, "Alex")
	sam := addPerson(t, s, "Sam")
	a1 := addTx(t, s, alex, "10", ledger.Lent)
	a2 := addTx(t, s, alex, "20", ledger.Borrowed)
	s1 := addTx(t, s, sam, "30", ledger.Lent)
	_, err := s.UpdateTransaction(ctx, a1.ID, dto.TransactionUpdate{Note: ptr("edited")})
	require.NoError(t, err)
	_, err = s.UpdateTransaction(ctx, s1.ID, dto.TransactionUpdate{Note: ptr("edited")})
	require.NoError(t, err)

	cascaded, err := s.DeletePerson(ctx, alex.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{a1.ID, a2.ID}, cascaded)

	_, err = s.GetPerson(ctx, alex.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetTransaction(ctx, a1.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	history, err := s.GetTransactionHistory(ctx, a1.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Sam is untouched.
	remaining, err := s.GetTransactionsByPerson(ctx, sam.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	history, err = s.GetTransactionHistory(ctx, s1.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	cascaded, err = s.DeletePerson(ctx, alex.ID)
	require.NoError(t, err, "deleting an absent person is a no-op")
	assert.Empty(t, cascaded)
}

func TestDeleteTransaction(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	p := addPerson(t, s, "Alex")
	tx := addTx(t, s, p, "10", ledger.Lent)
	_, err := s.UpdateTransaction(ctx, tx.ID, dto.TransactionUpdate{Note: ptr("x")})
	require.NoError(t, err)

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
	_, err = s.GetTransaction(ctx, tx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	history, err := s.GetTransactionHistory(ctx, tx.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, s.DeleteTransaction(ctx, tx.ID))
}

func TestBalances_AlexScenario(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	alex := addPerson(t, s, "Alex")

	addTx(t, s, alex, "500", ledger.Lent)
	addTx(t, s, alex, "200", ledger.Borrowed)
	b, err := s.PersonBalance(ctx, alex.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(b.NetBalance))
	assert.True(t, b.OwesMe)

	addTx(t, s, alex, "300", ledger.Borrowed)
	b, err = s.PersonBalance(ctx, alex.ID)
	require.NoError(t, err)
	assert.True(t, b.Settled)

	_, err = s.PersonBalance(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummary_GlobalScenario(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()
	a := addPerson(t, s, "A")
	b := addPerson(t, s, "B")
	addTx(t, s, a, "300", ledger.Lent)
	addTx(t, s, b, "450", ledger.Borrowed)

	balances, global, err := s.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, balances, 2)
	assert.Equal(t, b.ID, balances[0].Person.ID, "largest magnitude first")
	assert.True(t, decimal.NewFromInt(-150).Equal(global.GlobalNet))
	assert.True(t, decimal.NewFromInt(300).Equal(global.TotalLent))
	assert.True(t, decimal.NewFromInt(450).Equal(global.TotalBorrowed))
	assert.Equal(t, balance.Red, global.Color)
	assert.Contains(t, global.Message, "150.00")
}

func TestCards(t *testing.T) {
	t.Parallel()
	s := newService(t)
	ctx := context.Background()

	in := dto.CardCreate{
		Name: "Travel", Number: "4111 1111 1111 1111", Type: "visa",
		NameOnCard: "A SMITH", Expiry: "12/29", CVV: "123", Color: "#1E88E5",
	}
	c, err := s.CreateCard(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, ledger.Visa, c.Type)

	_, err = s.CreateCard(ctx, dto.CardCreate{Name: "x", Number: "4111111111111111", Type: "AMEX"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = s.CreateCard(ctx, dto.CardCreate{Number: "4111111111111111", Type: "VISA"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	upd := dto.CardUpdate(in)
	upd.Name = "Groceries"
	upd.Type = "RUPAY"
	got, err := s.UpdateCard(ctx, c.ID, upd)
	require.NoError(t, err)
	assert.Equal(t, "Groceries", got.Name)
	assert.Equal(t, ledger.RuPay, got.Type)
	assert.True(t, c.CreatedAt.Equal(got.CreatedAt))

	_, err = s.UpdateCard(ctx, uuid.New(), upd)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	second, err := s.CreateCard(ctx, in)
	require.NoError(t, err)
	all, err := s.GetAllCards(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	require.NoError(t, s.DeleteCard(ctx, c.ID))
	_, err = s.GetCard(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, s.DeleteCard(ctx, c.ID))
}
