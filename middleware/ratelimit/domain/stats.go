package domain

import (
	"context"
	"time"
)

// StatsEvent é uma decisão do rate limit pronta para ser contabilizada.
//
// Cuidado com cardinalidade: Key e Path vêm do cliente.
type StatsEvent struct {
	Key     Key
	Allowed bool

	Method string
	Path   string

	At time.Time
}

// StatsStore persiste eventos de decisão. O middleware trata falhas como
// best-effort: loga e segue com a requisição.
type StatsStore interface {
	Record(ctx context.Context, ev StatsEvent) error
}
