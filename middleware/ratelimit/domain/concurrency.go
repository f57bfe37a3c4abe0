package domain

import (
	"context"
	"errors"
)

// ErrNoSlot indica que nenhuma vaga ficou livre dentro do prazo de aquisição.
var ErrNoSlot = errors.New("no concurrency slot available")

// SlotPool é um recurso de capacidade finita (requisições em voo).
//
// Acquire bloqueia até obter vaga ou até ctx encerrar, caso em que devolve
// ctx.Err(). O release retornado deve ser chamado exatamente uma vez.
type SlotPool interface {
	Acquire(ctx context.Context) (release func(), err error)
	InUse() int
	Capacity() int
}
