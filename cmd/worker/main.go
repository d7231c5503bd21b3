package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mailhub/config"
	"mailhub/internal/connector"
	"mailhub/internal/crypto"
	"mailhub/internal/db"
	"mailhub/internal/mq"
	redisclient "mailhub/internal/redis"
	"mailhub/internal/repository"
	syncsvc "mailhub/internal/service/sync"
)

func main() {
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	logger.Info("Starting sync worker...")

	// Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	deduper := syncsvc.NewDeduper(rdb, time.Hour)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.ApplySchema(context.Background(), dbConn); err != nil {
		logger.Fatal("schema setup failed", zap.Error(err))
	}

	logger.Info("DB ready")

	// Credential sealing
	box, err := crypto.NewBox(cfg.Crypto.Key)
	if err != nil {
		logger.Fatal("invalid crypto key", zap.Error(err))
	}

	// repositories
	accountRepo := repository.NewAccountRepository(dbConn)
	folderRepo := repository.NewFolderRepository(dbConn)
	emailRepo := repository.NewEmailRepository(dbConn)
	addressRepo := repository.NewAddressRepository(dbConn)

	syncService := syncsvc.NewService(
		accountRepo,
		folderRepo,
		emailRepo,
		addressRepo,
		connector.DefaultRegistry(),
		box,
		logger,
	).WithDeduper(deduper)

	logger.Info("Init consumer: " + mq.SyncRequestedKey + ".q")
	consumer, err := mq.NewConsumer(cfg.MQ.URL, mq.SyncRequestedKey, logger)
	if err != nil {
		logger.Fatal("Sync consumer init failed", zap.Error(err))
	}
	consumer.SetHandler(syncService.HandleJob)

	go func() {
		if err := consumer.StartConsuming(); err != nil {
			logger.Fatal("Sync consumer crashed", zap.Error(err))
		}
	}()

	logger.Info("Worker running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down sync worker gracefully...")
	consumer.Close()
}
