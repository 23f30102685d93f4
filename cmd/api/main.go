package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/langerprakhar/referral-service/internal/config"
	"github.com/langerprakhar/referral-service/internal/handler"
	"github.com/langerprakhar/referral-service/internal/repository"
	"github.com/langerprakhar/referral-service/internal/server"
	"github.com/langerprakhar/referral-service/internal/usecase"
	"github.com/langerprakhar/referral-service/pkg/auth"
	"github.com/langerprakhar/referral-service/pkg/mailer"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load(&logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &logger, db)
	referralRepo := repository.NewReferralMongoRepository(ctx, &logger, db)

	jwtAuth := auth.NewJWTAuthenticator()
	mail := mailer.NewMailer(&logger)

	authUsecase := usecase.NewAuthUsecase(userRepo, referralRepo, jwtAuth, cfg, &logger)
	resetUsecase := usecase.NewPasswordResetUsecase(userRepo, mail, cfg, &logger)
	referralUsecase := usecase.NewReferralUsecase(userRepo, referralRepo, &logger)

	authHandler := handler.NewAuthHandler(&logger, authUsecase, resetUsecase, cfg)
	referralHandler := handler.NewReferralHandler(&logger, referralUsecase)

	router := server.NewRouter(cfg, &logger, jwtAuth, authHandler, referralHandler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
