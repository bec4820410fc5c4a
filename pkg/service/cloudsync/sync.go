package cloudsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/mirror"
)

// pushBatch bounds the number of documents sent in one Put.
const pushBatch = 250

// download copies remote documents that are absent locally. People come
// first so transactions find their person; the local copy always wins.
func (c *Coordinator) download(ctx context.Context, s *session) {
	for _, col := range mirror.Collections {
		if ctx.Err() != nil {
			return
		}
		rctx, cancel := c.remoteContext(ctx)
		docs, err := c.remote.List(rctx, s.ns, col)
		cancel()
		if err != nil {
			c.logRemote("download skipped", err, "collection", col)
			continue
		}
		inserted := 0
		for _, doc := range docs {
			if ctx.Err() != nil {
				return
			}
			ok, err := c.insertIfAbsent(ctx, s, col, doc)
			if err != nil {
				c.logger.Error("failed to import remote document", "collection", col, "id", doc.ID, "error", err)
				continue
			}
			if ok {
				inserted++
			}
		}
		c.logger.Info("download complete", "collection", col, "remote", len(docs), "inserted", inserted)
	}
}

func (c *Coordinator) insertIfAbsent(ctx context.Context, s *session, col mirror.Collection, doc mirror.Document) (bool, error) {
	switch col {
	case mirror.People:
		var pd dto.PersonDoc
		if err := doc.Decode(&pd); err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		p, err := pd.ToDomain()
		if err != nil {
			return false, err
		}
		return c.ledger.InsertPersonIfAbsent(ctx, p)
	case mirror.Transactions:
		var td dto.TransactionDoc
		if err := doc.Decode(&td); err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		tx, err := td.ToDomain()
		if err != nil {
			return false, err
		}
		ok, err := c.ledger.InsertTransactionIfAbsent(ctx, tx)
		if errors.Is(err, domain.ErrMissingParent) {
			s.park(tx)
			c.logger.Warn("parked transaction without person", "transaction_id", tx.ID, "person_id", tx.PersonID)
			return false, nil
		}
		return ok, err
	case mirror.Cards:
		var cd dto.CardDoc
		if err := doc.Decode(&cd); err != nil {
			return false, fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		card, err := cd.ToDomain()
		if err != nil {
			return false, err
		}
		return c.ledger.InsertCardIfAbsent(ctx, card)
	}
	return false, fmt.Errorf("unknown collection %q", col)
}

// PushAll overwrites the remote documents with every local row. It returns
// the failures of each collection joined together.
func (c *Coordinator) PushAll(ctx context.Context) error {
	ns, ok := c.bound()
	if !ok {
		return domain.ErrNotBound
	}
	return errors.Join(c.push(ctx, ns)...)
}

// push uploads cards, people and transactions in that order. A failing
// collection does not stop the others.
func (c *Coordinator) push(ctx context.Context, ns mirror.Namespace) []error {
	var errs []error
	for _, step := range []struct {
		col  mirror.Collection
		load func(context.Context) ([]mirror.Document, error)
	}{
		{mirror.Cards, c.localCards},
		{mirror.People, c.localPeople},
		{mirror.Transactions, c.localTransactions},
	} {
		docs, err := step.load(ctx)
		if err != nil {
			errs = append(errs, fmt.Errorf("push %s: %w", step.col, err))
			continue
		}
		if err := c.putAll(ctx, ns, step.col, docs); err != nil {
			c.logRemote("push failed", err, "collection", step.col)
			errs = append(errs, fmt.Errorf("push %s: %w", step.col, err))
			continue
		}
		c.logger.Info("push complete", "collection", step.col, "documents", len(docs))
	}
	return errs
}

func (c *Coordinator) putAll(ctx context.Context, ns mirror.Namespace, col mirror.Collection, docs []mirror.Document) error {
	for start := 0; start < len(docs); start += pushBatch {
		end := min(start+pushBatch, len(docs))
		rctx, cancel := c.remoteContext(ctx)
		err := c.remote.Put(rctx, ns, col, docs[start:end]...)
		cancel()
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) localPeople(ctx context.Context) ([]mirror.Document, error) {
	people, err := c.ledger.GetAllPersons(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]mirror.Document, 0, len(people))
	for _, p := range people {
		d, err := mirror.NewDocument(p.ID.String(), dto.PersonToDoc(p))
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (c *Coordinator) localTransactions(ctx context.Context) ([]mirror.Document, error) {
	txs, err := c.ledger.GetAllTransactions(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]mirror.Document, 0, len(txs))
	for _, t := range txs {
		d, err := mirror.NewDocument(t.ID.String(), dto.TransactionToDoc(t))
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func (c *Coordinator) localCards(ctx context.Context) ([]mirror.Document, error) {
	cards, err := c.ledger.GetAllCards(ctx)
	if err != nil {
		return nil, err
	}
	docs := make([]mirror.Document, 0, len(cards))
	for _, card := range cards {
		d, err := mirror.NewDocument(card.ID.String(), dto.CardToDoc(card))
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// logRemote logs a mirror failure at a level matching its class.
func (c *Coordinator) logRemote(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, domain.ErrRemoteUnavailable) {
		c.logger.Warn(msg, args...)
		return
	}
	c.logger.Error(msg, args...)
}
