package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/identity/internal/handlers"
	"github.com/nkiryanov/identity/internal/logger"
	"github.com/nkiryanov/identity/internal/repository"
	"github.com/nkiryanov/identity/internal/repository/postgres"
	"github.com/nkiryanov/identity/internal/repository/redis"
	"github.com/nkiryanov/identity/internal/service/auth"
	"github.com/nkiryanov/identity/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/identity/internal/service/notify"
	"github.com/nkiryanov/identity/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	emails *notify.Async

	// Release resources after server stopped, in reverse order
	closers []func(ctx context.Context) error
}

func NewServerApp(ctx context.Context, c *Config) (_ *ServerApp, err error) {
	// Initialize logger
	log, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	app := &ServerApp{ListenAddr: c.ListenAddr, logger: log}
	defer func() {
		if err != nil {
			_ = app.close(context.WithoutCancel(ctx))
		}
	}()

	// Connect to the storage
	repo, err := newRepo(c)
	if err != nil {
		return nil, err
	}
	if err := repo.Connect(ctx); err != nil {
		return nil, fmt.Errorf("error while connecting to %s storage. Err: %w", c.Storage, err)
	}
	app.closers = append(app.closers, repo.Disconnect)

	if c.Reset {
		log.Warn("Removing all users", "storage", c.Storage)
		if err := repo.Reset(ctx); err != nil {
			return nil, fmt.Errorf("error while resetting storage. Err: %w", err)
		}
	}

	// Initialize services
	hasher, err := auth.NewHasher(c.Hasher)
	if err != nil {
		return nil, err
	}
	tokens, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey, TTL: c.TokenTTL})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}
	sender, err := app.newEmailSender(c)
	if err != nil {
		return nil, err
	}
	app.emails = notify.NewAsync(sender, log)

	register, err := user.NewRegisterUser(repo, auth.UUIDGenerator{}, hasher, app.emails)
	if err != nil {
		return nil, err
	}
	login, err := user.NewLoginUser(repo, hasher, tokens)
	if err != nil {
		return nil, err
	}
	get, err := user.NewGetUser(repo)
	if err != nil {
		return nil, err
	}

	app.Handler = handlers.NewRouter(handlers.NewUsers(register, login, get, log), tokens, log)
	return app, nil
}

func newRepo(c *Config) (repository.UserRepo, error) {
	switch c.Storage {
	case StoragePostgres:
		return postgres.NewUserRepo(c.DatabaseDSN), nil
	case StorageRedis:
		return redis.NewUserRepo(c.RedisURL, redis.DefaultPrefix), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", c.Storage)
	}
}

func (s *ServerApp) newEmailSender(c *Config) (notify.EmailSender, error) {
	switch c.EmailSender {
	case SenderLog:
		return notify.LogSender{Logger: s.logger}, nil
	case SenderAMQP:
		sender, err := notify.NewAMQPSender(c.AMQPURL, c.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to amqp. Err: %w", err)
		}
		s.closers = append(s.closers, func(context.Context) error { return sender.Close() })
		return sender, nil
	case SenderMailgun:
		sender := notify.NewMailgunSender(c.MailgunDomain, c.MailgunAPIKey, c.MailgunSender)
		if c.MailgunAPIBase != "" {
			sender.SetAPIBase(c.MailgunAPIBase)
		}
		return sender, nil
	default:
		return nil, fmt.Errorf("unknown email sender %q", c.EmailSender)
	}
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	closeErr := s.close(closeCtx)

	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	return errors.Join(err, closeErr)
}

// Wait for pending emails, then release storage and broker connections
func (s *ServerApp) close(ctx context.Context) error {
	if s.emails != nil {
		s.emails.Close()
	}

	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	s.closers = nil

	return errors.Join(errs...)
}
