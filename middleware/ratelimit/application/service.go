package application

import (
	"math"
	"time"

	"hello-service/middleware/ratelimit/domain"
)

const defaultRetryAfter = 1 * time.Second

// Service aplica o rate limit a uma chave e devolve a decisão.
// Tradução para status/headers fica com o adapter HTTP.
type Service struct {
	Store      domain.LimiterStore
	RetryAfter time.Duration
}

func (s Service) Decide(key domain.Key) domain.Decision {
	if s.Store == nil {
		return domain.Decision{Allowed: true}
	}

	lim := s.Store.Get(key)
	if lim == nil {
		return domain.Decision{Allowed: true}
	}

	allowed := lim.Allow()
	remaining := int(math.Floor(lim.Tokens()))
	if remaining < 0 {
		remaining = 0
	}
	if allowed {
		return domain.Decision{Allowed: true, Remaining: remaining}
	}

	retry := s.RetryAfter
	if retry <= 0 {
		retry = defaultRetryAfter
	}
	return domain.Decision{Allowed: false, Remaining: remaining, RetryAfter: retry}
}
