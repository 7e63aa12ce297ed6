package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"workload-node/internal/agent"
	"workload-node/internal/api"
	"workload-node/internal/config"
	"workload-node/internal/db"
	"workload-node/internal/logger"
)

func main() {
	config.InitConfig(".env")
	logger.InitLogger()
	defer logger.CloseLogger()

	if err := db.InitDB(config.AppConfig.DBPath); err != nil {
		logger.ERROR.Fatalf("Ошибка инициализации журнала результатов: %v", err)
	}
	defer db.CloseDB()

	logger.INFO.Printf("Node %s started", config.AppConfig.NodeID)
	defer logger.INFO.Println("Node stopped")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{
		Addr:              ":" + config.AppConfig.ServerPort,
		Handler:           api.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return agent.StartAgent(gctx)
	})

	g.Go(func() error {
		logger.INFO.Println("HTTP сервер запущен на порту " + config.AppConfig.ServerPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.INFO.Println("Получен сигнал остановки, завершаем работу...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.ERROR.Printf("Node stopped with error: %v", err)
	}
}
