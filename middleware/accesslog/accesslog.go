// Package accesslog registra uma linha zap por requisição.
package accesslog

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Middleware loga método, caminho, status, bytes, duração e request id.
// Respostas 5xx saem em Error, 4xx em Warn, o resto em Info. Um panic que
// atravessa o middleware é logado como 500 e repassado ao Recoverer.
func Middleware(log *zap.Logger) func(next http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				rec := recover()
				status := ww.Status()
				switch {
				case rec != nil:
					status = http.StatusInternalServerError
				case status == 0:
					status = http.StatusOK
				}

				lvl := zapcore.InfoLevel
				switch {
				case status >= 500:
					lvl = zapcore.ErrorLevel
				case status >= 400:
					lvl = zapcore.WarnLevel
				}

				if ce := log.Check(lvl, "http request"); ce != nil {
					ce.Write(
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Int("status", status),
						zap.Int("bytes", ww.BytesWritten()),
						zap.Duration("duration", time.Since(start)),
						zap.String("remote", r.RemoteAddr),
						zap.String("request_id", middleware.GetReqID(r.Context())),
					)
				}

				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
