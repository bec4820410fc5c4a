package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/debtfree/pkg/repository"
	"github.com/amirasaad/debtfree/pkg/repository/card"
	"github.com/amirasaad/debtfree/pkg/repository/person"
	"github.com/amirasaad/debtfree/pkg/repository/transaction"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
// Repositories handed out inside Do share the transaction session.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			repository.PersonRepositoryType:      func(db *gorm.DB) any { return NewPersonRepository(db) },
			repository.TransactionRepositoryType: func(db *gorm.DB) any { return NewTransactionRepository(db) },
			repository.CardRepositoryType:        func(db *gorm.DB) any { return NewCardRepository(db) },
		},
	}
}

// Do runs the given function in a transaction boundary, providing a UoW with repository access.
// Nested calls reuse the enclosing transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	if u.tx != nil {
		return fn(u)
	}
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txnUow := &UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry}
		return fn(txnUow)
	})
	return MapGormErrorToDomain(err)
}

// GetRepository provides generic, type-safe access to repositories using the
// transaction session, or the root session outside Do.
func (u *UoW) GetRepository(repoType reflect.Type) (any, error) {
	constructor, ok := u.repoRegistry[repoType]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %v", repoType)
	}
	return constructor(u.session()), nil
}

func (u *UoW) PersonRepository() (person.Repository, error) {
	repo, err := u.GetRepository(repository.PersonRepositoryType)
	if err != nil {
		return nil, err
	}
	return repo.(person.Repository), nil
}

func (u *UoW) TransactionRepository() (transaction.Repository, error) {
	repo, err := u.GetRepository(repository.TransactionRepositoryType)
	if err != nil {
		return nil, err
	}
	return repo.(transaction.Repository), nil
}

func (u *UoW) CardRepository() (card.Repository, error) {
	repo, err := u.GetRepository(repository.CardRepositoryType)
	if err != nil {
		return nil, err
	}
	return repo.(card.Repository), nil
}

func (u *UoW) session() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}
