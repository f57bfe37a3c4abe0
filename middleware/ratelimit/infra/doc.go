// Package infra implementa os contratos de domain:
//
//   - Store: token bucket por chave com golang.org/x/time/rate
//   - ChanPool: semáforo em channel para limite de concorrência
//   - RedisStatsStore: contadores de decisões no Redis
//   - PrometheusStatsStore: as mesmas decisões como métrica
//   - MultiStats: repassa o mesmo evento para vários StatsStore
package infra
