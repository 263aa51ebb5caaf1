package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"collabnote/config"
	"collabnote/internal/svc"
	"collabnote/internal/utils"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	utils.InitLogger(cfg.AppEnv)
	defer func() { _ = zap.L().Sync() }()

	sc, err := svc.NewServiceContext(cfg)
	if err != nil {
		zap.L().Fatal("failed to initialise services", zap.Error(err))
	}
	defer sc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if sc.Consumer != nil {
		sc.Consumer.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           newRouter(sc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zap.L().Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Error("server stopped unexpectedly", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	zap.L().Info("shutting down")

	if err := shutdownServer(srv, 10*time.Second); err != nil {
		// deferred sc.Close and log sync must still run
		zap.L().Error("graceful shutdown failed", zap.Error(err))
		return
	}
	zap.L().Info("server stopped")
}

// shutdownServer drains in-flight requests for at most timeout.
func shutdownServer(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
