package repository

import (
	"context"

	"github.com/amirasaad/debtfree/infra/repository/model"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/repository/transaction"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a transaction repository bound to db.
func NewTransactionRepository(db *gorm.DB) transaction.Repository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *ledger.Transaction) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(model.FromTransaction(tx)).Error
	})
}

func (r *transactionRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	var m model.Transaction
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return m.ToDomain(), nil
}

func (r *transactionRepository) List(ctx context.Context) ([]*ledger.Transaction, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *transactionRepository) ListByPerson(
	ctx context.Context,
	personID uuid.UUID,
) ([]*ledger.Transaction, error) {
	return r.find(r.db.WithContext(ctx).Where("person_id = ?", personID))
}

func (r *transactionRepository) find(q *gorm.DB) ([]*ledger.Transaction, error) {
	var ms []model.Transaction
	if err := q.
		Order("date DESC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*ledger.Transaction, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *transactionRepository) ListIDsByPerson(ctx context.Context, personID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("person_id = ?", personID).
		Pluck("id", &ids).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return ids, nil
}

func (r *transactionRepository) Save(ctx context.Context, tx *ledger.Transaction) error {
	res := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(map[string]any{
			"amount":    ledger.ToMinorUnits(tx.Amount),
			"direction": tx.Direction.String(),
			"date":      tx.Date,
			"note":      tx.Note,
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&model.Transaction{}, "id = ?", id).Error
	})
}

func (r *transactionRepository) DeleteByPerson(ctx context.Context, personID uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&model.Transaction{}, "person_id = ?", personID).Error
	})
}

func (r *transactionRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Transaction{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return count > 0, nil
}

func (r *transactionRepository) AppendHistory(ctx context.Context, h *ledger.TransactionHistory) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(model.FromHistory(h)).Error
	})
}

func (r *transactionRepository) ListHistory(
	ctx context.Context,
	transactionID uuid.UUID,
) ([]*ledger.TransactionHistory, error) {
	var ms []model.TransactionHistory
	if err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("changed_at DESC").
		Order("id DESC").
		Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*ledger.TransactionHistory, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *transactionRepository) DeleteHistory(ctx context.Context, transactionID uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Delete(&model.TransactionHistory{}, "transaction_id = ?", transactionID).Error
	})
}

func (r *transactionRepository) DeleteHistoryByPerson(ctx context.Context, personID uuid.UUID) error {
	owned := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("id").
		Where("person_id = ?", personID)
	return WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("transaction_id IN (?)", owned).
			Delete(&model.TransactionHistory{}).Error
	})
}
