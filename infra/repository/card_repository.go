package repository

import (
	"context"

	"github.com/amirasaad/debtfree/infra/repository/model"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/repository/card"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a card repository bound to db.
func NewCardRepository(db *gorm.DB) card.Repository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(ctx context.Context, c *ledger.Card) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(model.FromCard(c)).Error
	})
}

func (r *cardRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Card, error) {
	var m model.Card
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return m.ToDomain(), nil
}

func (r *cardRepository) List(ctx context.Context) ([]*ledger.Card, error) {
	var ms []model.Card
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*ledger.Card, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *cardRepository) Save(ctx context.Context, c *ledger.Card) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Save(model.FromCard(c)).Error
	})
}

func (r *cardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&model.Card{}, "id = ?", id).Error
	})
}

func (r *cardRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Card{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return count > 0, nil
}
