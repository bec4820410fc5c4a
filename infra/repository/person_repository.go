package repository

import (
	"context"

	"github.com/amirasaad/debtfree/infra/repository/model"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/repository/person"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a person repository bound to db.
func NewPersonRepository(db *gorm.DB) person.Repository {
	return &personRepository{db: db}
}

func (r *personRepository) Create(ctx context.Context, p *ledger.Person) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(model.FromPerson(p)).Error
	})
}

func (r *personRepository) Get(ctx context.Context, id uuid.UUID) (*ledger.Person, error) {
	var m model.Person
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	return m.ToDomain(), nil
}

func (r *personRepository) List(ctx context.Context) ([]*ledger.Person, error) {
	var ms []model.Person
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&ms).Error; err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*ledger.Person, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

func (r *personRepository) Update(ctx context.Context, id uuid.UUID, update dto.PersonUpdate) error {
	updates := make(map[string]any)

	// Only include non-nil fields in the update
	if update.Name != nil {
		updates["name"] = *update.Name
	}
	if update.Phone != nil {
		updates["phone"] = *update.Phone
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}
	if len(updates) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Person{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *personRepository) Save(ctx context.Context, p *ledger.Person) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Save(model.FromPerson(p)).Error
	})
}

func (r *personRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&model.Person{}, "id = ?", id).Error
	})
}

func (r *personRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Person{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return count > 0, nil
}
