// Command server sobe o hello-service.
//
// A porta vem de PORT (padrão 8000) e o bind é em todas as interfaces.
// Qualquer erro de inicialização (config inválida, porta ocupada) encerra o
// processo com status 1.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"hello-service/config"
	"hello-service/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Bootstrap().Fatal("config error", zap.Error(err))
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		logger.Bootstrap().Fatal("logger error", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, nil); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
