package service

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Greeting é o texto devolvido por GET /.
func Greeting(name string) string {
	return fmt.Sprintf("Hello from %s service", name)
}

// RootHandler responde {"message": "Hello from <name> service"}.
func RootHandler(name string) http.HandlerFunc {
	msg := Greeting(name)
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

// HealthHandler responde {"status": "ok"}.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": http.StatusText(http.StatusNotFound)})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": http.StatusText(http.StatusMethodNotAllowed)})
}

// o corpo é montado a cada chamada; nada é compartilhado entre requisições
func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
