package cloudsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/mirror"
	"github.com/google/uuid"
)

// Mirrored writes. Each one writes locally first and, while an identity is
// bound, copies the result to the mirror. When the mirror cannot be reached
// the local result is returned alone. Any other mirror failure is returned
// together with the local result and wraps domain.ErrRemote.

func (c *Coordinator) AddPerson(ctx context.Context, in dto.PersonCreate) (*ledger.Person, error) {
	p, err := c.ledger.CreatePerson(ctx, in)
	if err != nil {
		return nil, err
	}
	return p, c.put(ctx, "add person", mirror.People, p.ID, dto.PersonToDoc(p))
}

func (c *Coordinator) UpdatePerson(ctx context.Context, id uuid.UUID, in dto.PersonUpdate) (*ledger.Person, error) {
	p, err := c.ledger.UpdatePerson(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return p, c.put(ctx, "update person", mirror.People, p.ID, dto.PersonToDoc(p))
}

// DeletePerson also removes the person's transaction documents remotely.
func (c *Coordinator) DeletePerson(ctx context.Context, id uuid.UUID) error {
	cascaded, err := c.ledger.DeletePerson(ctx, id)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(cascaded))
	for _, txID := range cascaded {
		ids = append(ids, txID.String())
	}
	return errors.Join(
		c.delete(ctx, "delete person transactions", mirror.Transactions, ids...),
		c.delete(ctx, "delete person", mirror.People, id.String()),
	)
}

func (c *Coordinator) AddTransaction(ctx context.Context, in dto.TransactionCreate) (*ledger.Transaction, error) {
	tx, err := c.ledger.CreateTransaction(ctx, in)
	if err != nil {
		return nil, err
	}
	return tx, c.put(ctx, "add transaction", mirror.Transactions, tx.ID, dto.TransactionToDoc(tx))
}

func (c *Coordinator) UpdateTransaction(ctx context.Context, id uuid.UUID, in dto.TransactionUpdate) (*ledger.Transaction, error) {
	tx, err := c.ledger.UpdateTransaction(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return tx, c.put(ctx, "update transaction", mirror.Transactions, tx.ID, dto.TransactionToDoc(tx))
}

func (c *Coordinator) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := c.ledger.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	return c.delete(ctx, "delete transaction", mirror.Transactions, id.String())
}

func (c *Coordinator) AddCard(ctx context.Context, in dto.CardCreate) (*ledger.Card, error) {
	card, err := c.ledger.CreateCard(ctx, in)
	if err != nil {
		return nil, err
	}
	return card, c.put(ctx, "add card", mirror.Cards, card.ID, dto.CardToDoc(card))
}

func (c *Coordinator) UpdateCard(ctx context.Context, id uuid.UUID, in dto.CardUpdate) (*ledger.Card, error) {
	card, err := c.ledger.UpdateCard(ctx, id, in)
	if err != nil {
		return nil, err
	}
	return card, c.put(ctx, "update card", mirror.Cards, card.ID, dto.CardToDoc(card))
}

func (c *Coordinator) DeleteCard(ctx context.Context, id uuid.UUID) error {
	if err := c.ledger.DeleteCard(ctx, id); err != nil {
		return err
	}
	return c.delete(ctx, "delete card", mirror.Cards, id.String())
}

func (c *Coordinator) put(ctx context.Context, op string, col mirror.Collection, id uuid.UUID, v any) error {
	ns, ok := c.bound()
	if !ok {
		return nil
	}
	doc, err := mirror.NewDocument(id.String(), v)
	if err != nil {
		return c.remoteResult(op, col, err)
	}
	rctx, cancel := c.remoteContext(ctx)
	defer cancel()
	return c.remoteResult(op, col, c.remote.Put(rctx, ns, col, doc))
}

func (c *Coordinator) delete(ctx context.Context, op string, col mirror.Collection, ids ...string) error {
	ns, ok := c.bound()
	if !ok || len(ids) == 0 {
		return nil
	}
	rctx, cancel := c.remoteContext(ctx)
	defer cancel()
	return c.remoteResult(op, col, c.remote.Delete(rctx, ns, col, ids...))
}

// remoteResult swallows environment-class failures and passes the rest on
// as domain.ErrRemote.
func (c *Coordinator) remoteResult(op string, col mirror.Collection, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrRemoteUnavailable):
		c.logger.Warn("mirror unavailable, kept local change only", "op", op, "collection", col, "error", err)
		return nil
	case errors.Is(err, domain.ErrRemote):
		c.logger.Error("mirror rejected change", "op", op, "collection", col, "error", err)
		return err
	}
	c.logger.Error("mirror rejected change", "op", op, "collection", col, "error", err)
	return fmt.Errorf("%w: %s: %w", domain.ErrRemote, op, err)
}
