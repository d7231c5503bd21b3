package main

import (
	"context"

	"go.uber.org/zap"

	"mailhub/config"
	"mailhub/internal/connector"
	"mailhub/internal/crypto"
	"mailhub/internal/db"
	"mailhub/internal/handler"
	"mailhub/internal/httpserver"
	"mailhub/internal/mq"
	redisclient "mailhub/internal/redis"
	"mailhub/internal/repository"
	"mailhub/internal/service/auth"
	"mailhub/internal/service/folder"
	"mailhub/internal/service/mailbox"
	"mailhub/internal/service/personalize"
	syncsvc "mailhub/internal/service/sync"
)

func main() {
	// Load config
	cfg := config.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Init DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := db.ApplySchema(context.Background(), dbConn); err != nil {
		logger.Fatal("schema setup failed", zap.Error(err))
	}

	// Init Redis
	rdb := redisclient.NewClient(cfg.Redis)
	defer rdb.Close()

	// Init RabbitMQ producer
	producer, err := mq.NewProducer(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("failed to init producer", zap.Error(err))
	}
	defer producer.Close()

	// Credential sealing
	box, err := crypto.NewBox(cfg.Crypto.Key)
	if err != nil {
		logger.Fatal("invalid crypto key", zap.Error(err))
	}

	// Init Repositories
	userRepo := repository.NewUserRepository(dbConn)
	accountRepo := repository.NewAccountRepository(dbConn)
	folderRepo := repository.NewFolderRepository(dbConn)
	emailRepo := repository.NewEmailRepository(dbConn)
	addressRepo := repository.NewAddressRepository(dbConn)
	persRepo := repository.NewPersonalizationRepository(dbConn)
	tagRepo := repository.NewTagRepository(dbConn)

	// Init Services
	authService := auth.NewService(userRepo, cfg.JWT.Secret)
	folderService := folder.NewService(folderRepo, accountRepo, rdb, logger)
	mailboxService := mailbox.NewService(emailRepo, addressRepo)
	personalizeService := personalize.NewService(persRepo, tagRepo, emailRepo, folderRepo)
	syncService := syncsvc.NewService(
		accountRepo,
		folderRepo,
		emailRepo,
		addressRepo,
		connector.DefaultRegistry(),
		box,
		logger,
	).WithProducer(producer)

	// Init Handlers
	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountRepo, folderService, syncService, box)
	folderHandler := handler.NewFolderHandler(folderService)
	emailHandler := handler.NewEmailHandler(mailboxService)
	addressHandler := handler.NewAddressHandler(mailboxService)
	personalizationHandler := handler.NewPersonalizationHandler(personalizeService)

	// Router
	router := httpserver.NewRouter(
		authHandler,
		accountHandler,
		folderHandler,
		emailHandler,
		addressHandler,
		personalizationHandler,
		cfg.JWT.Secret,
		dbConn,
	)

	// Start API server
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("server start failed", zap.Error(err))
	}
}
