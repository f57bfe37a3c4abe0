package domain

import "time"

// Key identifica quem está sendo limitado (IP, API key, usuário...).
type Key string

// Limiter decide se uma ação é permitida agora.
// Tokens informa o saldo atual do balde (pode ser fracionário).
type Limiter interface {
	Allow() bool
	Tokens() float64
}

// LimiterStore devolve o limiter de uma chave, criando se necessário.
type LimiterStore interface {
	Get(Key) Limiter
}

type Decision struct {
	Allowed bool
	// Remaining é o saldo inteiro depois da decisão. Nunca negativo.
	Remaining int
	// RetryAfter só é preenchido quando Allowed=false.
	RetryAfter time.Duration
}
