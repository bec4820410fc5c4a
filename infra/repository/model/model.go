// Package model holds the gorm table models of the ledger store and their
// mapping to domain entities.
package model

import (
	"time"

	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
)

// Person represents a person record in the database.
type Person struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	Phone     string    `gorm:"size:32"`
	Notes     string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for the Person model.
func (Person) TableName() string {
	return "people"
}

// Transaction represents a persisted lend/borrow entry. Amount is in minor units.
type Transaction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PersonID  uuid.UUID `gorm:"type:uuid;not null;index:idx_transaction_person"`
	Amount    int64     `gorm:"not null;check:chk_transactions_amount,amount > 0"`
	Direction string    `gorm:"type:varchar(16);not null;check:chk_transactions_direction,direction IN ('LENT','BORROWED')"`
	Date      time.Time `gorm:"not null;index"`
	Note      string    `gorm:"size:500"`
	CreatedAt time.Time `gorm:"not null"`

	Person *Person `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// TransactionHistory is an append-only snapshot of a transaction before an edit.
type TransactionHistory struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	TransactionID     uuid.UUID `gorm:"type:uuid;not null;index"`
	PreviousAmount    int64     `gorm:"not null"`
	PreviousDirection string    `gorm:"type:varchar(16);not null"`
	PreviousDate      time.Time `gorm:"not null"`
	PreviousNote      string    `gorm:"size:500"`
	ChangedAt         time.Time `gorm:"not null;index"`

	Transaction *Transaction `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the TransactionHistory model.
func (TransactionHistory) TableName() string {
	return "transaction_histories"
}

// Card represents a wallet card record in the database.
type Card struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"column:card_name;size:50;not null"`
	Number     string    `gorm:"column:card_number;size:23;not null"`
	Type       string    `gorm:"column:card_type;type:varchar(16);not null;check:chk_cards_type,card_type IN ('VISA','MASTERCARD','RUPAY')"`
	NameOnCard string    `gorm:"size:100"`
	Expiry     string    `gorm:"size:5"`
	CVV        string    `gorm:"column:cvv;size:4"`
	Color      string    `gorm:"size:32"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

// TableName specifies the table name for the Card model.
func (Card) TableName() string {
	return "cards"
}

func FromPerson(p *ledger.Person) *Person {
	return &Person{
		ID:        p.ID,
		Name:      p.Name,
		Phone:     p.Phone,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func (m *Person) ToDomain() *ledger.Person {
	return ledger.NewPersonFromData(m.ID, m.Name, m.Phone, m.Notes, ledger.Timestamp(m.CreatedAt))
}

func FromTransaction(t *ledger.Transaction) *Transaction {
	return &Transaction{
		ID:        t.ID,
		PersonID:  t.PersonID,
		Amount:    ledger.ToMinorUnits(t.Amount),
		Direction: t.Direction.String(),
		Date:      t.Date,
		Note:      t.Note,
		CreatedAt: t.CreatedAt,
	}
}

func (m *Transaction) ToDomain() *ledger.Transaction {
	return ledger.NewTransactionFromData(
		m.ID,
		m.PersonID,
		ledger.FromMinorUnits(m.Amount),
		ledger.Direction(m.Direction),
		ledger.Timestamp(m.Date),
		m.Note,
		ledger.Timestamp(m.CreatedAt),
	)
}

func FromHistory(h *ledger.TransactionHistory) *TransactionHistory {
	return &TransactionHistory{
		ID:                h.ID,
		TransactionID:     h.TransactionID,
		PreviousAmount:    ledger.ToMinorUnits(h.PreviousAmount),
		PreviousDirection: h.PreviousDirection.String(),
		PreviousDate:      h.PreviousDate,
		PreviousNote:      h.PreviousNote,
		ChangedAt:         h.ChangedAt,
	}
}

func (m *TransactionHistory) ToDomain() *ledger.TransactionHistory {
	return &ledger.TransactionHistory{
		ID:                m.ID,
		TransactionID:     m.TransactionID,
		PreviousAmount:    ledger.FromMinorUnits(m.PreviousAmount),
		PreviousDirection: ledger.Direction(m.PreviousDirection),
		PreviousDate:      ledger.Timestamp(m.PreviousDate),
		PreviousNote:      m.PreviousNote,
		ChangedAt:         ledger.Timestamp(m.ChangedAt),
	}
}

func FromCard(c *ledger.Card) *Card {
	return &Card{
		ID:         c.ID,
		Name:       c.Name,
		Number:     c.Number,
		Type:       string(c.Type),
		NameOnCard: c.NameOnCard,
		Expiry:     c.Expiry,
		CVV:        c.CVV,
		Color:      c.Color,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *Card) ToDomain() *ledger.Card {
	return &ledger.Card{
		ID:         m.ID,
		Name:       m.Name,
		Number:     m.Number,
		Type:       ledger.CardType(m.Type),
		NameOnCard: m.NameOnCard,
		Expiry:     m.Expiry,
		CVV:        m.CVV,
		Color:      m.Color,
		CreatedAt:  ledger.Timestamp(m.CreatedAt),
	}
}
