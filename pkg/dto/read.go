package dto

import (
	"time"

	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PersonRead is the API view of a person.
type PersonRead struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TransactionRead is the API view of a transaction.
type TransactionRead struct {
	ID        uuid.UUID       `json:"id"`
	PersonID  uuid.UUID       `json:"person_id"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// HistoryRead is one prior state of a transaction.
type HistoryRead struct {
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	Date      time.Time       `json:"date"`
	Note      string          `json:"note,omitempty"`
	ChangedAt time.Time       `json:"changed_at"`
}

// CardRead is the API view of a card. The number is masked and the CVV
// never leaves the device.
type CardRead struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"card_name"`
	Number     string    `json:"card_number"`
	Type       string    `json:"card_type"`
	NameOnCard string    `json:"name_on_card,omitempty"`
	Expiry     string    `json:"expiry,omitempty"`
	Color      string    `json:"color,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// BalanceRead is one person's net position.
type BalanceRead struct {
	Person  PersonRead      `json:"person"`
	Net     decimal.Decimal `json:"net_balance"`
	Amount  decimal.Decimal `json:"display_amount"`
	OwesMe  bool            `json:"owes_me"`
	IOwe    bool            `json:"i_owe"`
	Settled bool            `json:"settled"`
}

// SummaryRead is every person's balance plus the overall position.
type SummaryRead struct {
	People        []BalanceRead   `json:"people"`
	GlobalNet     decimal.Decimal `json:"global_net"`
	TotalLent     decimal.Decimal `json:"total_lent"`
	TotalBorrowed decimal.Decimal `json:"total_borrowed"`
	Message       string          `json:"message"`
	Color         string          `json:"color"`
}

func ToPersonRead(p *ledger.Person) PersonRead {
	return PersonRead{ID: p.ID, Name: p.Name, Phone: p.Phone, Notes: p.Notes, CreatedAt: p.CreatedAt}
}

func ToTransactionRead(t *ledger.Transaction) TransactionRead {
	return TransactionRead{
		ID:        t.ID,
		PersonID:  t.PersonID,
		Amount:    t.Amount,
		Direction: t.Direction.String(),
		Date:      t.Date,
		Note:      t.Note,
		CreatedAt: t.CreatedAt,
	}
}

func ToHistoryRead(h *ledger.TransactionHistory) HistoryRead {
	return HistoryRead{
		Amount:    h.PreviousAmount,
		Direction: h.PreviousDirection.String(),
		Date:      h.PreviousDate,
		Note:      h.PreviousNote,
		ChangedAt: h.ChangedAt,
	}
}

func ToCardRead(c *ledger.Card) CardRead {
	return CardRead{
		ID:         c.ID,
		Name:       c.Name,
		Number:     c.MaskedNumber(),
		Type:       string(c.Type),
		NameOnCard: c.NameOnCard,
		Expiry:     c.Expiry,
		Color:      c.Color,
		CreatedAt:  c.CreatedAt,
	}
}

func ToSummaryRead(people []balance.PersonBalance, global balance.GlobalBalance) SummaryRead {
	out := SummaryRead{
		People:        make([]BalanceRead, 0, len(people)),
		GlobalNet:     global.GlobalNet,
		TotalLent:     global.TotalLent,
		TotalBorrowed: global.TotalBorrowed,
		Message:       global.Message,
		Color:         string(global.Color),
	}
	for _, pb := range people {
		out.People = append(out.People, BalanceRead{
			Person:  ToPersonRead(pb.Person),
			Net:     pb.NetBalance,
			Amount:  pb.DisplayAmount,
			OwesMe:  pb.OwesMe,
			IOwe:    pb.IOwe,
			Settled: pb.Settled,
		})
	}
	return out
}

// MapSlice converts every element of in with fn.
func MapSlice[T any, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}
