package config

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"keepsakes/attachment"
	"keepsakes/cache"
	"keepsakes/config/common"
	"keepsakes/config/logger"
	"keepsakes/handler"
	"keepsakes/middleware"
	"keepsakes/repository"
	"keepsakes/routes"
	"keepsakes/security"
	"keepsakes/usecase"
)

type AppConfig struct {
	*fiber.App
	*validator.Validate
	*logrus.Logger
	*DBConfig
	*security.JWT
	*middleware.Middleware
	Config    *common.Config
	AppLogger *logger.AppLogger
	Redis     *redis.Client
	Store     attachment.ObjectStore
}

func RunServer() {
	newConfig := common.NewViper()
	app := NewFiber(newConfig)
	log := NewLogrus()
	appLogger := logger.NewLogger(newConfig.GetLogDir())
	newDB := NewDB(newConfig, appLogger)
	newValidator := NewValidator()
	newJWT := security.NewJWT(newConfig)
	newMiddleware := middleware.NewMiddleware(newConfig, log)

	store, err := attachment.NewCloudinaryStore(newConfig.GetCloudinaryURL())
	if err != nil {
		log.WithError(err).Fatal("Failed to configure object store")
	}

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: newConfig.GetCorsOrigins(),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	hub := App(&AppConfig{
		App:        app,
		Validate:   newValidator,
		Logger:     log,
		DBConfig:   newDB,
		JWT:        newJWT,
		Middleware: newMiddleware,
		Config:     newConfig,
		AppLogger:  appLogger,
		Redis:      NewRedis(newConfig, log),
		Store:      store,
	})

	port, _, _ := newConfig.GetServerConfig()
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Error("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	hub.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.WithError(err).Error("Failed to shut down server")
	}
}

// App wires repositories, usecases and handlers onto aC.App and returns the
// realtime hub so the caller can stop it.
func App(aC *AppConfig) *handler.WebSocketHandler {
	newAuthRepository := repository.NewAuthRepository()
	newUserRepository := repository.NewUserRepository()
	newConversationRepository := repository.NewConversationRepository()
	newMessageRepository := repository.NewMessageRepository()
	newBlockRepository := repository.NewBlockRepository()

	folder, allowPDF, maxSizeBytes, deleteConcurrency := aC.Config.GetAttachmentConfig()
	profileFolder, defaultImage := aC.Config.GetProfileImageConfig()
	attachments := attachment.NewManager(aC.Store, aC.AppLogger, attachment.ManagerConfig{
		Folder:            folder,
		AllowDocuments:    allowPDF,
		MaxSizeBytes:      maxSizeBytes,
		DeleteConcurrency: deleteConcurrency,
	})

	var blockCache usecase.BlockStatusCache
	if aC.Redis != nil {
		blockCache = cache.NewBlockCache(aC.Redis, aC.Config.GetBlockCacheTTL())
	}

	wsHandler := handler.NewWebSocketHandler(aC.AppLogger)

	newAuthUsecase := usecase.NewAuthUsecase(newAuthRepository, newUserRepository, aC.Validate, aC.GetDB(), aC.Logger, aC.JWT, defaultImage)
	newUserUsecase := usecase.NewUserUsecase(newUserRepository, aC.Validate, aC.GetDB(), aC.AppLogger, attachments, profileFolder, defaultImage)
	newBlockUsecase := usecase.NewBlockUsecase(newBlockRepository, newUserRepository, aC.GetDB(), aC.Logger, blockCache)
	newConversationUsecase := usecase.NewConversationUsecase(newConversationRepository, newMessageRepository, newUserRepository,
		aC.GetDB(), aC.Logger, newBlockUsecase, attachments, wsHandler)
	newMessageUsecase := usecase.NewMessageUsecase(newMessageRepository, newConversationRepository, newUserRepository,
		aC.Validate, aC.GetDB(), aC.Logger, newConversationUsecase, newBlockUsecase, attachments, wsHandler)

	route := routes.ConfigRoute{
		App:                 aC.App,
		Middleware:          aC.Middleware,
		JWT:                 aC.JWT,
		AuthHandler:         handler.NewAuthHandler(newAuthUsecase, aC.Logger),
		UserHandler:         handler.NewUserHandler(newUserUsecase, newBlockUsecase, aC.Logger),
		ConversationHandler: handler.NewConversationHandler(newConversationUsecase, aC.Logger),
		MessageHandler:      handler.NewMessageHandler(newMessageUsecase, aC.Logger),
		AttachmentHandler:   handler.NewAttachmentHandler(attachments, aC.Logger),
		WebSocketHandler:    wsHandler,
	}
	route.GetRoute()
	return wsHandler
}
