// Package ledger provides the Ledger Store operations: validated CRUD for
// people, transactions and cards, the replica path used by cloud sync, and
// balance summaries.
package ledger

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/amirasaad/debtfree/pkg/repository"
	"github.com/go-playground/validator/v10"
)

// Service implements the Ledger Store on top of a UnitOfWork.
type Service struct {
	uow      repository.UnitOfWork
	logger   *slog.Logger
	validate *validator.Validate
	currency string
}

// Option configures a Service.
type Option func(*Service)

// WithCurrency sets the currency used to render balance messages.
func WithCurrency(code string) Option {
	return func(s *Service) {
		if code != "" {
			s.currency = code
		}
	}
}

// New creates a new Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		uow:      uow,
		logger:   logger.With("component", "ledger"),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		currency: balance.DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Currency returns the ISO code used for balance messages.
func (s *Service) Currency() string {
	return s.currency
}

func (s *Service) validateInput(in any) error {
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on %q", domain.ErrValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
