package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/repository"
	"github.com/amirasaad/debtfree/pkg/repository/transaction"
	"github.com/google/uuid"
)

// CreateTransaction records money lent to or borrowed from an existing person.
func (s *Service) CreateTransaction(
	ctx context.Context,
	in dto.TransactionCreate,
) (tx *ledger.Transaction, err error) {
	if err = s.validateInput(in); err != nil {
		return nil, err
	}
	direction, err := ledger.ParseDirection(in.Direction)
	if err != nil {
		return nil, err
	}
	tx, err = ledger.NewTransaction(in.PersonID, in.Amount, direction, in.Date, in.Note)
	if err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		people, err := uow.PersonRepository()
		if err != nil {
			return err
		}
		ok, err := people.Exists(ctx, in.PersonID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("person %s: %w", in.PersonID, domain.ErrNotFound)
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		return txs.Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("transaction created", "transaction_id", tx.ID, "person_id", tx.PersonID)
	return tx, nil
}

// GetTransaction returns a transaction or domain.ErrNotFound.
func (s *Service) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// GetAllTransactions returns every transaction, most recent date first.
func (s *Service) GetAllTransactions(ctx context.Context) ([]*ledger.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// GetTransactionsByPerson returns a person's transactions ordered by date,
// then creation time, newest first.
func (s *Service) GetTransactionsByPerson(
	ctx context.Context,
	personID uuid.UUID,
) ([]*ledger.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByPerson(ctx, personID)
}

// UpdateTransaction edits a transaction. The prior state is appended to the
// history and the row overwritten in the same unit of work; a missing
// transaction leaves no history behind.
func (s *Service) UpdateTransaction(
	ctx context.Context,
	id uuid.UUID,
	in dto.TransactionUpdate,
) (tx *ledger.Transaction, err error) {
	if err = s.validateInput(in); err != nil {
		return nil, err
	}
	var direction *ledger.Direction
	if in.Direction != nil {
		d, err := ledger.ParseDirection(*in.Direction)
		if err != nil {
			return nil, err
		}
		direction = &d
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		next := *current
		amount, dir, date, note := next.Amount, next.Direction, next.Date, next.Note
		if in.Amount != nil {
			amount = *in.Amount
		}
		if direction != nil {
			dir = *direction
		}
		if in.Date != nil {
			date = *in.Date
		}
		if in.Note != nil {
			note = *in.Note
		}
		if err = next.Revise(amount, dir, date, note); err != nil {
			return err
		}

		if err = s.overwrite(ctx, repo, current, &next, time.Now()); err != nil {
			return err
		}
		tx = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("transaction updated", "transaction_id", id)
	return tx, nil
}

// overwrite snapshots current into the history and stores next over it.
func (s *Service) overwrite(
	ctx context.Context,
	repo transaction.Repository,
	current, next *ledger.Transaction,
	changedAt time.Time,
) error {
	if err := repo.AppendHistory(ctx, current.Snapshot(changedAt)); err != nil {
		return err
	}
	return repo.Save(ctx, next)
}

// DeleteTransaction removes a transaction and its history. Deleting an
// absent transaction is a no-op.
func (s *Service) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if err = repo.DeleteHistory(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}

// GetTransactionHistory returns the edit history of a transaction, most
// recent change first.
func (s *Service) GetTransactionHistory(
	ctx context.Context,
	transactionID uuid.UUID,
) ([]*ledger.TransactionHistory, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListHistory(ctx, transactionID)
}
