// Package application contém os casos de uso do rate limit e da concorrência:
// decidir allow/deny e adquirir vaga com prazo. Depende só de domain.
package application
