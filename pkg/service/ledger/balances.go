package ledger

import (
	"context"

	"github.com/amirasaad/debtfree/pkg/domain/balance"
	"github.com/google/uuid"
)

// PersonBalance computes the net balance against one person.
func (s *Service) PersonBalance(ctx context.Context, personID uuid.UUID) (balance.PersonBalance, error) {
	p, err := s.GetPerson(ctx, personID)
	if err != nil {
		return balance.PersonBalance{}, err
	}
	txs, err := s.GetTransactionsByPerson(ctx, personID)
	if err != nil {
		return balance.PersonBalance{}, err
	}
	return balance.CalculatePersonBalance(p, txs), nil
}

// Summary returns every person's balance, largest magnitude first, and the
// overall balance.
func (s *Service) Summary(ctx context.Context) ([]balance.PersonBalance, balance.GlobalBalance, error) {
	persons, err := s.GetAllPersons(ctx)
	if err != nil {
		return nil, balance.GlobalBalance{}, err
	}
	txs, err := s.GetAllTransactions(ctx)
	if err != nil {
		return nil, balance.GlobalBalance{}, err
	}
	balances := balance.Summarize(persons, txs)
	balance.SortByMagnitude(balances)
	return balances, balance.CalculateGlobalBalance(balances, balance.WithCurrency(s.currency)), nil
}
