// Package ratelimit traz os middlewares net/http de rate limit e de limite de
// concorrência que ficam na frente das rotas do serviço.
//
// Camadas:
//
//   - domain: contratos (Limiter, LimiterStore, SlotPool, StatsStore)
//   - application: decisão allow/deny e aquisição de vaga com prazo
//   - infra: token bucket (x/time/rate), semáforo, estatísticas no Redis
//   - ratelimit (este pacote): extração da chave, status e headers HTTP
//
// Bloqueios respondem JSON no mesmo formato de erro das rotas:
// 429 para rate limit e 503 para falta de vaga.
package ratelimit
