package repository

import (
	"context"
	"reflect"

	"github.com/amirasaad/debtfree/pkg/repository/card"
	"github.com/amirasaad/debtfree/pkg/repository/person"
	"github.com/amirasaad/debtfree/pkg/repository/transaction"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Repositories obtained from the UnitOfWork passed to Do share its transaction.
// Repositories obtained outside Do run each statement on its own.
//
// Example usage:
//
//	err := uow.Do(ctx, func(uow UnitOfWork) error {
//		txRepo, err := uow.TransactionRepository()
//		if err != nil {
//			return err
//		}
//		return txRepo.Delete(ctx, id)
//	})
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error,
	// the transaction is rolled back.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type bound
	// to the current session.
	GetRepository(repoType reflect.Type) (any, error)

	PersonRepository() (person.Repository, error)
	TransactionRepository() (transaction.Repository, error)
	CardRepository() (card.Repository, error)
}

// Repository interface types accepted by GetRepository.
var (
	PersonRepositoryType      = reflect.TypeOf((*person.Repository)(nil)).Elem()
	TransactionRepositoryType = reflect.TypeOf((*transaction.Repository)(nil)).Elem()
	CardRepositoryType        = reflect.TypeOf((*card.Repository)(nil)).Elem()
)
