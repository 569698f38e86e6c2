package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/solo_wallet/internal/config"
	"github.com/congo-pay/solo_wallet/internal/infra"
	"github.com/congo-pay/solo_wallet/internal/routes"
	"github.com/congo-pay/solo_wallet/internal/transfer"
	"github.com/congo-pay/solo_wallet/internal/wallet"
)

// Server wraps the Fiber application, the wallet store and the transfer
// pipeline.
type Server struct {
	app        *fiber.App
	cfg        config.Config
	wallet     *wallet.Store
	dispatcher *transfer.Dispatcher
	publisher  transfer.Publisher
	logger     *slog.Logger
}

// New initializes the wallet for cfg.WalletOwner, selects a transfer
// publisher and wires the HTTP routes.
func New(ctx context.Context, cfg config.Config, backends infra.Backends, logger *slog.Logger) (*Server, error) {
	publisher, err := newPublisher(ctx, cfg, backends, logger)
	if err != nil {
		return nil, err
	}
	dispatcher := transfer.NewDispatcher(publisher, cfg.TransferQueueSize, logger)

	store, err := wallet.Initialize(cfg.WalletOwner,
		wallet.WithLogger(logger),
		wallet.WithForwarder(dispatcher),
	)
	if err != nil {
		_ = dispatcher.Close(ctx)
		_ = closePublisher(publisher)
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: routes.ErrorHandler,
	})

	routes.Setup(app, routes.Deps{
		Cfg:    cfg,
		DB:     backends.DB,
		Cache:  backends.Cache,
		Logger: logger,
		Wallet: store,
	})

	return &Server{
		app:        app,
		cfg:        cfg,
		wallet:     store,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}, nil
}

func newPublisher(ctx context.Context, cfg config.Config, backends infra.Backends, logger *slog.Logger) (transfer.Publisher, error) {
	switch {
	case len(cfg.KafkaBrokers) > 0:
		logger.Info("transfer intents published to kafka", slog.String("topic", cfg.TransferTopic))
		return transfer.NewKafkaPublisher(cfg.KafkaBrokers, cfg.TransferTopic), nil
	case backends.DB != nil:
		outbox := transfer.NewOutboxPublisher(backends.DB)
		if err := outbox.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		logger.Info("transfer intents written to postgres outbox")
		return outbox, nil
	default:
		logger.Info("transfer intents logged only")
		return transfer.NewLogPublisher(logger), nil
	}
}

// App exposes the underlying Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Wallet returns the store served by this server.
func (s *Server) Wallet() *wallet.Store {
	return s.wallet
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown stops accepting requests, then drains pending transfer intents.
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.dispatcher.Close(ctx); err != nil && !errors.Is(err, transfer.ErrClosed) {
		errs = append(errs, err)
	}
	if err := closePublisher(s.publisher); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// closePublisher releases publishers that hold connections, such as the
// kafka writer.
func closePublisher(p transfer.Publisher) error {
	if closer, ok := p.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
