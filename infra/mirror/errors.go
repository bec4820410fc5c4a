package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/redis/go-redis/v9"
)

// classify maps a store failure onto the two remote error classes.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrRemoteUnavailable) || errors.Is(err, domain.ErrRemote) {
		return err
	}
	if unavailable(err) {
		return fmt.Errorf("%w: %w", domain.ErrRemoteUnavailable, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrRemote, err)
}

func unavailable(err error) bool {
	if errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, redis.ErrClosed) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	// Server is starting, replicating or shutting down.
	for _, prefix := range []string{"LOADING", "MASTERDOWN", "TRYAGAIN", "CLUSTERDOWN"} {
		if redis.HasErrorPrefix(err, prefix) {
			return true
		}
	}
	return false
}
