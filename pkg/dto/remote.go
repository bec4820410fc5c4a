package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Remote document shapes. Timestamps are milliseconds since the Unix epoch.

// PersonDoc is the mirrored form of a person.
type PersonDoc struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

// TransactionDoc is the mirrored form of a transaction.
type TransactionDoc struct {
	ID        string          `json:"id"`
	PersonID  string          `json:"person_id"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	Date      int64           `json:"date"`
	Note      string          `json:"note,omitempty"`
	CreatedAt int64           `json:"created_at"`
}

// CardDoc is the mirrored form of a card.
type CardDoc struct {
	ID         string `json:"id"`
	Name       string `json:"card_name"`
	Number     string `json:"card_number"`
	Type       string `json:"card_type"`
	NameOnCard string `json:"name_on_card"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
	Color      string `json:"color"`
	CreatedAt  int64  `json:"created_at"`
}

// PersonToDoc maps a domain person to its remote document.
func PersonToDoc(p *ledger.Person) PersonDoc {
	return PersonDoc{
		ID:        p.ID.String(),
		Name:      p.Name,
		Phone:     p.Phone,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt.UnixMilli(),
	}
}

// ToDomain maps the document back to a person. Documents with a malformed id
// or an empty name are rejected.
func (d PersonDoc) ToDomain() (*ledger.Person, error) {
	id, err := parseDocID(d.ID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(d.Name) == "" {
		return nil, ledger.ErrNameRequired
	}
	return ledger.NewPersonFromData(id, d.Name, d.Phone, d.Notes, fromMillis(d.CreatedAt)), nil
}

// TransactionToDoc maps a domain transaction to its remote document.
func TransactionToDoc(t *ledger.Transaction) TransactionDoc {
	return TransactionDoc{
		ID:        t.ID.String(),
		PersonID:  t.PersonID.String(),
		Amount:    t.Amount,
		Direction: t.Direction.String(),
		Date:      t.Date.UnixMilli(),
		Note:      t.Note,
		CreatedAt: t.CreatedAt.UnixMilli(),
	}
}

// ToDomain maps the document back to a transaction. Legacy direction names
// are accepted.
func (d TransactionDoc) ToDomain() (*ledger.Transaction, error) {
	id, err := parseDocID(d.ID)
	if err != nil {
		return nil, err
	}
	personID, err := parseDocID(d.PersonID)
	if err != nil {
		return nil, err
	}
	direction, err := ledger.ParseDirection(d.Direction)
	if err != nil {
		return nil, err
	}
	amount, err := ledger.NormalizeAmount(d.Amount)
	if err != nil {
		return nil, err
	}
	return ledger.NewTransactionFromData(
		id,
		personID,
		amount,
		direction,
		fromMillis(d.Date),
		d.Note,
		fromMillis(d.CreatedAt),
	), nil
}

// CardToDoc maps a domain card to its remote document.
func CardToDoc(c *ledger.Card) CardDoc {
	return CardDoc{
		ID:         c.ID.String(),
		Name:       c.Name,
		Number:     c.Number,
		Type:       string(c.Type),
		NameOnCard: c.NameOnCard,
		Expiry:     c.Expiry,
		CVV:        c.CVV,
		Color:      c.Color,
		CreatedAt:  c.CreatedAt.UnixMilli(),
	}
}

// ToDomain maps the document back to a card.
func (d CardDoc) ToDomain() (*ledger.Card, error) {
	id, err := parseDocID(d.ID)
	if err != nil {
		return nil, err
	}
	ct, err := ledger.ParseCardType(d.Type)
	if err != nil {
		return nil, err
	}
	return &ledger.Card{
		ID:         id,
		Name:       d.Name,
		Number:     d.Number,
		Type:       ct,
		NameOnCard: d.NameOnCard,
		Expiry:     d.Expiry,
		CVV:        d.CVV,
		Color:      d.Color,
		CreatedAt:  fromMillis(d.CreatedAt),
	}, nil
}

func parseDocID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: malformed document id %q", domain.ErrValidation, s)
	}
	return id, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
