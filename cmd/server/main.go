package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/config"
	"github.com/iliyamo/auth-service/internal/database"
	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/logger"
	"github.com/iliyamo/auth-service/internal/mail"
	"github.com/iliyamo/auth-service/internal/metrics"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/queue"
	"github.com/iliyamo/auth-service/internal/repository"
	"github.com/iliyamo/auth-service/internal/router"
	"github.com/iliyamo/auth-service/internal/service"
	"github.com/iliyamo/auth-service/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	lg, err := logger.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(database.Options{
		User: cfg.DBUser, Pass: cfg.DBPass, Host: cfg.DBHost, Port: cfg.DBPort, Name: cfg.DBName,
	})
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	m, err := metrics.New()
	if err != nil {
		return err
	}

	sender, err := newSender(cfg.Mail, lg)
	if err != nil {
		return err
	}

	// With queued delivery the notifier only publishes; a consumer in this
	// process drains the queue into the real sender.
	dispatch := sender
	if cfg.Mail.Transport == config.MailTransportQueue {
		pub := queue.NewPublisher(cfg.Mail.RabbitMQURL, cfg.Mail.Queue, lg)
		defer func() { _ = pub.Close() }()
		dispatch = pub

		consumer := queue.NewConsumer(cfg.Mail.RabbitMQURL, cfg.Mail.Queue, sender, lg)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("mail consumer stopped", zap.Error(err))
			}
		}()
	}
	notifier := mail.NewNotifier(cfg.BaseURL, dispatch)

	svc := service.New(
		repository.NewUserRepo(db),
		utils.NewBcryptHasher(cfg.BcryptCost),
		utils.UUIDGenerator{},
		notifier,
		notifier,
		service.Options{
			CodeTTL:            cfg.CodeTTL,
			TokenTTL:           cfg.TokenTTL,
			RecoveryTTL:        cfg.RecoveryTTL,
			EmailValidationTTL: cfg.EmailValidationTTL,
			SingleUseCodes:     cfg.SingleUseCodes,
		},
		lg,
	)

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		lg.Warn("redis unavailable, rate limiting disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	e := router.New(router.Deps{
		Auth:      handler.NewAuthHandler(svc, m, lg),
		Metrics:   m,
		DB:        db,
		RateLimit: middleware.NewTokenBucket(cfg.RateLimit, rdb, lg),
		Log:       lg,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("mail_transport", cfg.Mail.Transport))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newSender(cfg config.MailConfig, lg *zap.Logger) (mail.Sender, error) {
	if !cfg.UsePostmark() {
		lg.Info("postmark not configured, writing mail to disk", zap.String("dir", cfg.DevDir))
		return mail.NewDevSender(cfg.DevDir), nil
	}
	pm, err := mail.NewPostmarkSender(mail.PostmarkConfig{
		ServerToken:  cfg.PostmarkServerToken,
		AccountToken: cfg.PostmarkAccountToken,
		SenderEmail:  cfg.SenderEmail,
		SupportEmail: cfg.SupportEmail,
	})
	if err != nil {
		return nil, err
	}
	return pm, nil
}
