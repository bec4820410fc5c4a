package transaction

import (
	"context"

	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
)

// Repository defines data access for transactions and their edit history.
type Repository interface {
	// Create inserts a new transaction. ErrInvalidReference when the person
	// does not exist.
	Create(ctx context.Context, tx *ledger.Transaction) error

	// Get returns the transaction with the given id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error)

	// List returns every transaction ordered by date, newest first.
	List(ctx context.Context) ([]*ledger.Transaction, error)

	// ListByPerson returns the person's transactions ordered by date then
	// creation time, newest first.
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]*ledger.Transaction, error)

	// ListIDsByPerson returns the ids of the person's transactions.
	ListIDsByPerson(ctx context.Context, personID uuid.UUID) ([]uuid.UUID, error)

	// Save overwrites the editable columns of an existing transaction.
	// ErrNotFound if absent.
	Save(ctx context.Context, tx *ledger.Transaction) error

	// Delete removes the transaction row. Deleting an absent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByPerson removes every transaction of a person.
	DeleteByPerson(ctx context.Context, personID uuid.UUID) error

	// Exists reports whether a transaction with the given id is stored.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// AppendHistory records the prior state of a transaction.
	AppendHistory(ctx context.Context, h *ledger.TransactionHistory) error

	// ListHistory returns the edit history of a transaction, most recent first.
	ListHistory(ctx context.Context, transactionID uuid.UUID) ([]*ledger.TransactionHistory, error)

	// DeleteHistory removes the edit history of a transaction.
	DeleteHistory(ctx context.Context, transactionID uuid.UUID) error

	// DeleteHistoryByPerson removes the edit history of every transaction of a person.
	DeleteHistoryByPerson(ctx context.Context, personID uuid.UUID) error
}
