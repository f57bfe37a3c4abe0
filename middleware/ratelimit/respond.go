package ratelimit

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// sem notação científica para valores comuns (0.02, 10, 2.5)
func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// retryAfterSeconds arredonda para cima: Retry-After só aceita segundos inteiros
// e 0 faria o cliente tentar de novo na hora.
func retryAfterSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func writeError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": http.StatusText(status)})
}
