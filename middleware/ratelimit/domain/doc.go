// Package domain define os contratos do rate limit e do limite de concorrência.
//
// Nada aqui conhece net/http ou implementações concretas; as regras podem ser
// testadas com fakes simples.
package domain
