package application

import (
	"context"
	"errors"
	"time"

	"hello-service/middleware/ratelimit/domain"
)

// ConcurrencyService adquire vagas no pool respeitando AcquireTimeout.
type ConcurrencyService struct {
	Pool           domain.SlotPool
	AcquireTimeout time.Duration
}

// Acquire devolve o release da vaga obtida.
//
// Com AcquireTimeout <= 0 espera até ctx encerrar. Estourar o próprio prazo
// vira domain.ErrNoSlot; cancelamento do ctx do chamador é devolvido como está.
func (s ConcurrencyService) Acquire(ctx context.Context) (func(), error) {
	if s.Pool == nil {
		return func() {}, nil
	}
	if s.AcquireTimeout <= 0 {
		return s.Pool.Acquire(ctx)
	}

	acqCtx, cancel := context.WithTimeout(ctx, s.AcquireTimeout)
	defer cancel()

	release, err := s.Pool.Acquire(acqCtx)
	if err == nil {
		return release, nil
	}
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		return nil, domain.ErrNoSlot
	}
	return nil, err
}
