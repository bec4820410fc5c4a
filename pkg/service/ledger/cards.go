package ledger

import (
	"context"
	"strings"

	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/repository"
	"github.com/google/uuid"
)

// CreateCard validates the input and stores a new card.
func (s *Service) CreateCard(ctx context.Context, in dto.CardCreate) (c *ledger.Card, err error) {
	if err = s.validateInput(in); err != nil {
		return nil, err
	}
	ct, err := ledger.ParseCardType(in.Type)
	if err != nil {
		return nil, err
	}
	c, err = ledger.NewCard(in.Name, in.Number, ct, in.NameOnCard, in.Expiry, in.CVV, in.Color)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetCard returns a card or domain.ErrNotFound.
func (s *Service) GetCard(ctx context.Context, id uuid.UUID) (*ledger.Card, error) {
	repo, err := s.uow.CardRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// GetAllCards returns every card, most recently added first.
func (s *Service) GetAllCards(ctx context.Context) ([]*ledger.Card, error) {
	repo, err := s.uow.CardRepository()
	if err != nil {
		return nil, err
	}
	return repo.List(ctx)
}

// UpdateCard overwrites every editable field of a card.
func (s *Service) UpdateCard(ctx context.Context, id uuid.UUID, in dto.CardUpdate) (c *ledger.Card, err error) {
	if err = s.validateInput(in); err != nil {
		return nil, err
	}
	ct, err := ledger.ParseCardType(in.Type)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		if c, err = repo.Get(ctx, id); err != nil {
			return err
		}
		c.Name = strings.TrimSpace(in.Name)
		c.Number = strings.ReplaceAll(in.Number, " ", "")
		c.Type = ct
		c.NameOnCard = strings.TrimSpace(in.NameOnCard)
		c.Expiry = strings.TrimSpace(in.Expiry)
		c.CVV = in.CVV
		c.Color = in.Color
		return repo.Save(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCard removes a card. Deleting an absent card is a no-op.
func (s *Service) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CardRepository()
		if err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
}
