package ledger

import (
	"context"
	"strings"

	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/repository"
	"github.com/google/uuid"
)

// CreatePerson validates the input and stores a new person.
func (s *Service) CreatePerson(ctx context.Context, in dto.PersonCreate) (p *ledger.Person, err error) {
	if err = s.validateInput(in); err != nil {
		return nil, err
	}
	p, err = ledger.NewPerson(in.Name, in.Phone, in.Notes)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.PersonRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("person created", "person_id", p.ID)
	return p, nil
}

// GetPerson returns a person or domain.ErrNotFound.
func (s *Service) GetPerson(ctx context.Context, id uuid.UUID) (*ledger.Person, error) {
	repo, err := s.uow.PersonRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// GetAllPersons returns every person, most recently created first.
func (s *Service) GetAllPersons(ctx context.Context) ([]*ledger.Person, error) {
	repo, err := s.uow.PersonRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// UpdatePerson applies the supplied fields and returns the stored result.
// Supplying no field is a no-op that still reports a missing person.
func (s *Service) UpdatePerson(
	ctx context.Context,
	id uuid.UUID,
	in dto.PersonUpdate,
) (p *ledger.Person, err error) {
	if err = s.validateInput(in); err != nil {
		return nil, err
	}
	in = normalizePersonUpdate(in)
	if in.Name != nil && *in.Name == "" {
		return nil, ledger.ErrNameRequired
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.PersonRepository()
		if err != nil {
			return err
		}
		if !in.Empty() {
			if err = repo.Update(ctx, id, in); err != nil {
				return err
			}
		}
		p, err = repo.Get(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func normalizePersonUpdate(in dto.PersonUpdate) dto.PersonUpdate {
	trim := func(v *string) *string {
		if v == nil {
			return nil
		}
		t := strings.TrimSpace(*v)
		return &t
	}
	return dto.PersonUpdate{
		Name:  trim(in.Name),
		Phone: trim(in.Phone),
		Notes: trim(in.Notes),
	}
}

// DeletePerson removes a person together with their transactions and
// history in one unit of work. It returns the ids of the removed
// transactions. Deleting an absent person is a no-op.
func (s *Service) DeletePerson(ctx context.Context, id uuid.UUID) (cascaded []uuid.UUID, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		people, err := uow.PersonRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if cascaded, err = txs.ListIDsByPerson(ctx, id); err != nil {
			return err
		}
		if err = txs.DeleteHistoryByPerson(ctx, id); err != nil {
			return err
		}
		if err = txs.DeleteByPerson(ctx, id); err != nil {
			return err
		}
		return people.Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("person deleted", "person_id", id, "transactions", len(cascaded))
	return cascaded, nil
}
