package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/repository"
)

// Replica path. Records arrive from the remote mirror with their ids already
// assigned; they are stored as-is without user-level validation.

// InsertPersonIfAbsent stores p unless a person with the same id exists.
// The local copy always wins.
func (s *Service) InsertPersonIfAbsent(ctx context.Context, p *ledger.Person) (inserted bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.PersonRepository()
		if err != nil {
			return err
		}
		exists, err := repo.Exists(ctx, p.ID)
		if err != nil || exists {
			return err
		}
		inserted = true
		return repo.Create(ctx, p)
	})
	return inserted && err == nil, err
}

// InsertTransactionIfAbsent stores tx unless a transaction with the same id
// exists. It returns domain.ErrMissingParent when the person is not stored yet.
func (s *Service) InsertTransactionIfAbsent(ctx context.Context, tx *ledger.Transaction) (inserted bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		exists, err := repo.Exists(ctx, tx.ID)
		if err != nil || exists {
			return err
		}
		if err = s.requireParent(ctx, uow, tx); err != nil {
			return err
		}
		inserted = true
		return repo.Create(ctx, tx)
	})
	return inserted && err == nil, err
}

// InsertCardIfAbsent stores c unless a card with the same id exists.
func (s *Service) InsertCardIfAbsent(ctx context.Context, c *ledger.Card) (inserted bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		exists, err := repo.Exists(ctx, c.ID)
		if err != nil || exists {
			return err
		}
		inserted = true
		return repo.Create(ctx, c)
	})
	return inserted && err == nil, err
}

// ApplyPerson inserts p or overwrites the stored copy. Nothing is written
// when the stored copy already matches.
func (s *Service) ApplyPerson(ctx context.Context, p *ledger.Person) (changed bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.PersonRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, p.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			changed = true
			return repo.Create(ctx, p)
		case err != nil:
			return err
		case current.SameAs(p):
			return nil
		}
		changed = true
		return repo.Save(ctx, p)
	})
	return changed && err == nil, err
}

// ApplyCard inserts c or overwrites the stored copy. Nothing is written when
// the stored copy already matches.
func (s *Service) ApplyCard(ctx context.Context, c *ledger.Card) (changed bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, c.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			changed = true
			return repo.Create(ctx, c)
		case err != nil:
			return err
		case current.SameAs(c):
			return nil
		}
		changed = true
		return repo.Save(ctx, c)
	})
	return changed && err == nil, err
}

// ApplyTransaction inserts tx, or, when the stored copy differs, records the
// stored state in the history and overwrites it. The person must be stored
// for an insert; otherwise domain.ErrMissingParent is returned.
func (s *Service) ApplyTransaction(ctx context.Context, tx *ledger.Transaction) (changed bool, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		current, err := repo.Get(ctx, tx.ID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			if err = s.requireParent(ctx, uow, tx); err != nil {
				return err
			}
			changed = true
			return repo.Create(ctx, tx)
		case err != nil:
			return err
		case current.SameContent(tx):
			return nil
		}
		next := *current
		next.Amount, next.Direction, next.Date, next.Note = tx.Amount, tx.Direction, tx.Date, tx.Note
		changed = true
		return s.overwrite(ctx, repo, current, &next, time.Now())
	})
	return changed && err == nil, err
}

func (s *Service) requireParent(ctx context.Context, uow repository.UnitOfWork, tx *ledger.Transaction) error {
	people, err := uow.PersonRepository()
	if err != nil {
		return err
	}
	ok, err := people.Exists(ctx, tx.PersonID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("transaction %s needs person %s: %w", tx.ID, tx.PersonID, domain.ErrMissingParent)
	}
	return nil
}
