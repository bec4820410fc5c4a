package card

import (
	"context"

	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/google/uuid"
)

// Repository defines data access for wallet cards.
type Repository interface {
	Create(ctx context.Context, c *ledger.Card) error
	Get(ctx context.Context, id uuid.UUID) (*ledger.Card, error)
	// List returns every card, newest first.
	List(ctx context.Context) ([]*ledger.Card, error)
	// Save overwrites every column of an existing row, or inserts it.
	Save(ctx context.Context, c *ledger.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
