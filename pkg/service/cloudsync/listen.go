package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/domain/ledger"
	"github.com/amirasaad/debtfree/pkg/dto"
	"github.com/amirasaad/debtfree/pkg/mirror"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// listen runs one watcher per collection and feeds their changes, in the
// order received, to a single merge loop. It closes s.done on exit.
func (c *Coordinator) listen(ctx context.Context, s *session) {
	defer close(s.done)

	changes := make(chan mirror.Change)
	g, gctx := errgroup.WithContext(ctx)
	for _, col := range mirror.Collections {
		g.Go(func() error {
			c.watch(gctx, s.ns, col, changes)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(changes)
	}()

	for change := range changes {
		if err := c.apply(ctx, s, change); err != nil {
			c.logger.Error("failed to merge remote change",
				"collection", change.Collection,
				"type", change.Type,
				"id", change.Doc.ID,
				"error", err,
			)
		}
	}
}

// watch subscribes to one collection and re-subscribes with backoff when
// the feed fails or closes, until ctx ends.
func (c *Coordinator) watch(ctx context.Context, ns mirror.Namespace, col mirror.Collection, out chan<- mirror.Change) {
	delay := watchRetryMin
	for ctx.Err() == nil {
		feed, err := c.remote.Watch(ctx, ns, col)
		if err != nil {
			c.logRemote("watch failed", err, "collection", col, "retry_in", delay)
		} else {
			delay = watchRetryMin
			for change := range feed {
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
			if ctx.Err() != nil {
				return
			}
			c.logger.Warn("change feed closed, resubscribing", "collection", col)
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return
		}
		delay = min(delay*2, watchRetryMax)
	}
}

// apply merges one remote change into the local store. Changes written by
// this device are skipped.
func (c *Coordinator) apply(ctx context.Context, s *session, change mirror.Change) error {
	if change.Doc.Origin != "" && change.Doc.Origin == c.remote.Origin() {
		return nil
	}
	switch change.Collection {
	case mirror.People:
		return c.applyPerson(ctx, s, change)
	case mirror.Transactions:
		return c.applyTransaction(ctx, s, change)
	case mirror.Cards:
		return c.applyCard(ctx, change)
	}
	return fmt.Errorf("unknown collection %q", change.Collection)
}

func (c *Coordinator) applyPerson(ctx context.Context, s *session, change mirror.Change) error {
	if change.Type == mirror.Removed {
		id, err := removedID(change)
		if err != nil {
			return err
		}
		for _, tx := range s.unpark(id) {
			c.logger.Debug("dropping parked transaction of removed person", "transaction_id", tx.ID)
		}
		_, err = c.ledger.DeletePerson(ctx, id)
		return err
	}

	var pd dto.PersonDoc
	if err := change.Doc.Decode(&pd); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	p, err := pd.ToDomain()
	if err != nil {
		return err
	}
	if _, err = c.ledger.ApplyPerson(ctx, p); err != nil {
		return err
	}

	for _, tx := range s.unpark(p.ID) {
		if err := c.mergeTransaction(ctx, s, tx); err != nil {
			c.logger.Error("failed to merge parked transaction", "transaction_id", tx.ID, "error", err)
		}
	}
	return nil
}

func (c *Coordinator) applyTransaction(ctx context.Context, s *session, change mirror.Change) error {
	if change.Type == mirror.Removed {
		id, err := removedID(change)
		if err != nil {
			return err
		}
		s.forget(id)
		return c.ledger.DeleteTransaction(ctx, id)
	}

	var td dto.TransactionDoc
	if err := change.Doc.Decode(&td); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	tx, err := td.ToDomain()
	if err != nil {
		return err
	}
	return c.mergeTransaction(ctx, s, tx)
}

// mergeTransaction inserts or updates tx, parking it when its person has
// not arrived yet.
func (c *Coordinator) mergeTransaction(ctx context.Context, s *session, tx *ledger.Transaction) error {
	_, err := c.ledger.ApplyTransaction(ctx, tx)
	if errors.Is(err, domain.ErrMissingParent) {
		s.park(tx)
		c.logger.Debug("parked transaction without person", "transaction_id", tx.ID, "person_id", tx.PersonID)
		return nil
	}
	return err
}

func (c *Coordinator) applyCard(ctx context.Context, change mirror.Change) error {
	if change.Type == mirror.Removed {
		id, err := removedID(change)
		if err != nil {
			return err
		}
		return c.ledger.DeleteCard(ctx, id)
	}

	var cd dto.CardDoc
	if err := change.Doc.Decode(&cd); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	card, err := cd.ToDomain()
	if err != nil {
		return err
	}
	_, err = c.ledger.ApplyCard(ctx, card)
	return err
}

func removedID(change mirror.Change) (uuid.UUID, error) {
	id, err := uuid.Parse(change.Doc.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: document id %q: %w", domain.ErrValidation, change.Doc.ID, err)
	}
	return id, nil
}
