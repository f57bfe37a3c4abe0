package infra

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hello-service/middleware/ratelimit/domain"

	"github.com/redis/go-redis/v9"
)

// RedisStatsStore contabiliza decisões em hashes do Redis:
//
//	<prefix>:total                  allowed/denied (cumulativo, sem TTL)
//	<prefix>:minute:<yyyymmddhhmm>  allowed/denied por minuto
//	<prefix>:route                  "<METHOD> <path>:<allowed|denied>"
//	<prefix>:key:<key>              allowed/denied por cliente (opcional)
type RedisStatsStore struct {
	rdb redis.UniversalClient

	prefix string
	// ttl vale só para as chaves por minuto e por cliente
	ttl    time.Duration
	bucket string // "minute" ou "none"

	trackKeys bool
}

type RedisStatsOption func(*RedisStatsStore)

func WithStatsPrefix(prefix string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.prefix = strings.Trim(prefix, ":") }
}

func WithStatsTTL(d time.Duration) RedisStatsOption {
	return func(s *RedisStatsStore) { s.ttl = d }
}

func WithStatsBucket(bucket string) RedisStatsOption {
	return func(s *RedisStatsStore) { s.bucket = strings.ToLower(strings.TrimSpace(bucket)) }
}

func WithStatsTrackKeys(track bool) RedisStatsOption {
	return func(s *RedisStatsStore) { s.trackKeys = track }
}

func NewRedisStatsStore(rdb redis.UniversalClient, opts ...RedisStatsOption) *RedisStatsStore {
	s := &RedisStatsStore{
		rdb:    rdb,
		prefix: "ratelimit:stats",
		ttl:    24 * time.Hour,
		bucket: "minute",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type statOp struct {
	key    string
	field  string
	expire bool
}

// ops lista os incrementos de um evento, na ordem de escrita.
func (s *RedisStatsStore) ops(ev domain.StatsEvent) []statOp {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}

	field := "denied"
	if ev.Allowed {
		field = "allowed"
	}

	ops := []statOp{{key: s.prefix + ":total", field: field}}
	if s.bucket == "minute" {
		ops = append(ops, statOp{
			key:    fmt.Sprintf("%s:minute:%s", s.prefix, at.UTC().Format("200601021504")),
			field:  field,
			expire: true,
		})
	}
	if route := routeField(ev); route != "" {
		ops = append(ops, statOp{key: s.prefix + ":route", field: route + ":" + field})
	}
	if k := strings.TrimSpace(string(ev.Key)); s.trackKeys && k != "" {
		ops = append(ops, statOp{key: s.prefix + ":key:" + k, field: field, expire: true})
	}
	return ops
}

func (s *RedisStatsStore) Record(ctx context.Context, ev domain.StatsEvent) error {
	if s == nil || s.rdb == nil {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, op := range s.ops(ev) {
		pipe.HIncrBy(ctx, op.key, op.field, 1)
		if op.expire && s.ttl > 0 {
			pipe.Expire(ctx, op.key, s.ttl)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis stats record: %w", err)
	}
	return nil
}

func routeField(ev domain.StatsEvent) string {
	return strings.TrimSpace(strings.TrimSpace(ev.Method) + " " + strings.TrimSpace(ev.Path))
}
