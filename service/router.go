// Package service monta as rotas públicas do serviço:
//
//	GET /        {"message": "Hello from <name> service"}
//	GET /health  {"status": "ok"}
//
// Outro método numa rota conhecida responde 405, caminho desconhecido 404,
// sempre com corpo JSON {"detail": ...}.
package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	RootPath   = "/"
	HealthPath = "/health"
)

type Options struct {
	// Name é o <X> de "Hello from <X> service".
	Name    string
	Version string
	// Middlewares rodam na ordem dada, o primeiro é o mais externo.
	Middlewares []func(http.Handler) http.Handler
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if opts.Version != "" {
		r.Use(middleware.SetHeader("X-Service-Version", opts.Version))
	}
	r.Use(opts.Middlewares...)

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get(RootPath, RootHandler(opts.Name))
	r.Get(HealthPath, HealthHandler())

	return r
}
