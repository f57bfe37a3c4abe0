// Command smoke valida um hello-service em execução:
//
//	smoke -url http://localhost:8000 -name Go
//
// Sai com status 1 se alguma verificação falhar.
package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"hello-service/logger"

	"go.uber.org/zap"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8000", "base URL of the running service")
	name := flag.String("name", "Go", "expected service name in the greeting")
	timeout := flag.Duration("timeout", 5*time.Second, "overall timeout")
	flag.Parse()

	log, err := logger.New("dev", "info", "smoke")
	if err != nil {
		logger.Bootstrap().Fatal("logger error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results := check(ctx, &http.Client{Timeout: *timeout}, *baseURL, *name)
	failed := false
	for _, r := range results {
		if r.Err != nil {
			failed = true
			log.Error("FAIL", zap.String("check", r.Name), zap.Error(r.Err))
			continue
		}
		log.Info("ok", zap.String("check", r.Name))
	}
	if failed {
		log.Fatal("smoke checks failed", zap.String("url", *baseURL))
	}
}
