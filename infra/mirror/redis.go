package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/debtfree/pkg/config"
	"github.com/amirasaad/debtfree/pkg/domain"
	"github.com/amirasaad/debtfree/pkg/mirror"
	"github.com/redis/go-redis/v9"
)

// putScript writes documents into the collection hash and appends one feed
// entry per document. ARGV: maxlen, then id/document pairs.
var putScript = redis.NewScript(`
local maxlen = tonumber(ARGV[1])
for i = 2, #ARGV, 2 do
  local op = 'modified'
  if redis.call('HEXISTS', KEYS[1], ARGV[i]) == 0 then op = 'added' end
  redis.call('HSET', KEYS[1], ARGV[i], ARGV[i+1])
  redis.call('XADD', KEYS[2], 'MAXLEN', '~', maxlen, '*', 'op', op, 'id', ARGV[i], 'doc', ARGV[i+1])
end
return (#ARGV - 1) / 2
`)

// deleteScript removes documents and appends a feed entry only for ids that
// existed. ARGV: maxlen, origin, unix ms, then ids.
var deleteScript = redis.NewScript(`
local maxlen = tonumber(ARGV[1])
local removed = 0
for i = 4, #ARGV do
  if redis.call('HDEL', KEYS[1], ARGV[i]) == 1 then
    redis.call('XADD', KEYS[2], 'MAXLEN', '~', maxlen, '*', 'op', 'removed', 'id', ARGV[i], 'origin', ARGV[2], 'ts', ARGV[3])
    removed = removed + 1
  end
end
return removed
`)

const watchBlock = time.Second

// Redis is a mirror backed by one hash per collection holding the documents
// and one stream per collection as its change feed.
type Redis struct {
	client *redis.Client
	prefix string
	maxLen int64
	origin string
	logger *slog.Logger
}

// NewRedis creates a Redis mirror from configuration. It does not contact
// the server; use Ping to check reachability.
func NewRedis(cfg *config.Redis, origin string, logger *slog.Logger) (*Redis, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("redis mirror: url is required")
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis mirror: invalid URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.WriteTimeout = cfg.WriteTimeout
	}
	maxLen := cfg.StreamMaxLen
	if maxLen <= 0 {
		maxLen = 10000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{
		client: redis.NewClient(opt),
		prefix: cfg.KeyPrefix,
		maxLen: maxLen,
		origin: origin,
		logger: logger.With("component", "redis-mirror"),
	}, nil
}

// Ping checks that the server answers.
func (r *Redis) Ping(ctx context.Context) error {
	return classify(r.client.Ping(ctx).Err())
}

func (r *Redis) Origin() string { return r.origin }

func (r *Redis) docsKey(ns mirror.Namespace, c mirror.Collection) string {
	return r.prefix + string(ns) + ":" + string(c) + ":docs"
}

func (r *Redis) feedKey(ns mirror.Namespace, c mirror.Collection) string {
	return r.prefix + string(ns) + ":" + string(c) + ":feed"
}

func (r *Redis) List(ctx context.Context, ns mirror.Namespace, c mirror.Collection) ([]mirror.Document, error) {
	raw, err := r.client.HGetAll(ctx, r.docsKey(ns, c)).Result()
	if err != nil {
		return nil, classify(err)
	}
	return r.decodeAll(raw), nil
}

func (r *Redis) Put(ctx context.Context, ns mirror.Namespace, c mirror.Collection, docs ...mirror.Document) error {
	if len(docs) == 0 {
		return nil
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	args := make([]any, 0, 1+2*len(docs))
	args = append(args, r.maxLen)
	for _, d := range docs {
		if d.ID == "" {
			return fmt.Errorf("%w: document without id", domain.ErrRemote)
		}
		d.UpdatedAt = now
		d.Origin = r.origin
		encoded, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("%w: encode document %s: %w", domain.ErrRemote, d.ID, err)
		}
		args = append(args, d.ID, string(encoded))
	}
	keys := []string{r.docsKey(ns, c), r.feedKey(ns, c)}
	if err := putScript.Run(ctx, r.client, keys, args...).Err(); err != nil {
		r.logger.Error("failed to put documents", "namespace", ns, "collection", c, "count", len(docs), "error", err)
		return classify(err)
	}
	r.logger.Debug("documents put", "namespace", ns, "collection", c, "count", len(docs))
	return nil
}

func (r *Redis) Delete(ctx context.Context, ns mirror.Namespace, c mirror.Collection, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	args := make([]any, 0, 3+len(ids))
	args = append(args, r.maxLen, r.origin, time.Now().UnixMilli())
	for _, id := range ids {
		args = append(args, id)
	}
	keys := []string{r.docsKey(ns, c), r.feedKey(ns, c)}
	if err := deleteScript.Run(ctx, r.client, keys, args...).Err(); err != nil {
		r.logger.Error("failed to delete documents", "namespace", ns, "collection", c, "count", len(ids), "error", err)
		return classify(err)
	}
	return nil
}

func (r *Redis) Watch(ctx context.Context, ns mirror.Namespace, c mirror.Collection) (<-chan mirror.Change, error) {
	feed := r.feedKey(ns, c)

	// The snapshot and the feed position are read in one transaction so no
	// change falls between them.
	var lastCmd *redis.XMessageSliceCmd
	var docsCmd *redis.MapStringStringCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		lastCmd = pipe.XRevRangeN(ctx, feed, "+", "-", 1)
		docsCmd = pipe.HGetAll(ctx, r.docsKey(ns, c))
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	lastID := "0-0"
	if msgs := lastCmd.Val(); len(msgs) > 0 {
		lastID = msgs[0].ID
	}
	snapshot := r.decodeAll(docsCmd.Val())

	out := make(chan mirror.Change)
	go func() {
		defer close(out)
		for _, d := range snapshot {
			select {
			case out <- mirror.Change{Type: mirror.Added, Collection: c, Doc: d}:
			case <-ctx.Done():
				return
			}
		}
		r.follow(ctx, feed, lastID, c, out)
	}()
	return out, nil
}

func (r *Redis) follow(ctx context.Context, feed, lastID string, c mirror.Collection, out chan<- mirror.Change) {
	for {
		res, err := r.client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{feed, lastID},
			Count:   100,
			Block:   watchBlock,
		}).Result()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, redis.ErrClosed) {
				return
			}
			if !errors.Is(err, redis.Nil) {
				r.logger.Error("error reading change feed", "feed", feed, "error", err)
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return
				}
			}
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				change, err := decodeChange(c, msg.Values)
				if err != nil {
					r.logger.Error("skipping malformed feed entry", "feed", feed, "entry", msg.ID, "error", err)
					continue
				}
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// Close closes the client; live watches end.
func (r *Redis) Close() error {
	err := r.client.Close()
	if errors.Is(err, redis.ErrClosed) {
		return nil
	}
	return err
}

func (r *Redis) decodeAll(raw map[string]string) []mirror.Document {
	docs := make([]mirror.Document, 0, len(raw))
	for id, value := range raw {
		var d mirror.Document
		if err := json.Unmarshal([]byte(value), &d); err != nil {
			r.logger.Error("skipping malformed document", "id", id, "error", err)
			continue
		}
		d.ID = id
		docs = append(docs, d)
	}
	slices.SortFunc(docs, func(a, b mirror.Document) int { return strings.Compare(a.ID, b.ID) })
	return docs
}

func decodeChange(c mirror.Collection, values map[string]any) (mirror.Change, error) {
	op, _ := values["op"].(string)
	id, _ := values["id"].(string)
	if id == "" {
		return mirror.Change{}, fmt.Errorf("feed entry without id")
	}
	switch mirror.ChangeType(op) {
	case mirror.Added, mirror.Modified:
		raw, _ := values["doc"].(string)
		var d mirror.Document
		if err := json.Unmarshal([]byte(raw), &d); err != nil {
			return mirror.Change{}, fmt.Errorf("decode document %s: %w", id, err)
		}
		d.ID = id
		return mirror.Change{Type: mirror.ChangeType(op), Collection: c, Doc: d}, nil
	case mirror.Removed:
		origin, _ := values["origin"].(string)
		doc := mirror.Document{ID: id, Origin: origin}
		if ts, err := strconv.ParseInt(fmt.Sprint(values["ts"]), 10, 64); err == nil {
			doc.UpdatedAt = time.UnixMilli(ts).UTC()
		}
		return mirror.Change{Type: mirror.Removed, Collection: c, Doc: doc}, nil
	}
	return mirror.Change{}, fmt.Errorf("unknown change type %q", op)
}

var _ mirror.Store = (*Redis)(nil)
