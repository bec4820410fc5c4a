package person

import (
	"context"

	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/google/uuid"
)

// Repository defines data access for people.
type Repository interface {
	// Create inserts a new person. ErrAlreadyExists on id collision.
	Create(ctx context.Context, p *ledger.Person) error

	// Get returns the person with the given id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*ledger.Person, error)

	// List returns every person, newest first.
	List(ctx context.Context) ([]*ledger.Person, error)

	// Update applies the non-nil fields of update. ErrNotFound if absent.
	Update(ctx context.Context, id uuid.UUID, update dto.PersonUpdate) error

	// Save overwrites every column of an existing row, or inserts it.
	Save(ctx context.Context, p *ledger.Person) error

	// Delete removes the person row. Deleting an absent id is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists reports whether a person with the given id is stored.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
