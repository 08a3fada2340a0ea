package server

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	mid "MarketPulse/internal/middleware"
	"MarketPulse/internal/service/stream"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	"MarketPulse/pkg/docstore"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	pkgqueue "MarketPulse/pkg/queue"

	"github.com/labstack/echo/v4"
)

// Handlers groups every route-registering handler so DI can hand the app a
// single value.
type Handlers []xhttp.Handler

func (hs Handlers) RegisterRoutes(e *echo.Echo) {
	for _, h := range hs {
		if h != nil {
			h.RegisterRoutes(e)
		}
	}
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	handlers   Handlers
	consumer   *pkgkafka.Consumer
	kh         pkgkafka.MessageHandler
	queue      *pkgqueue.RedisQueue
	pipeline   *mid.NewsPipeline
	hub        *stream.Hub
	chClient   *pkgch.Client
	store      *docstore.RedisStore
	publisher  domrepo.Publisher
	httpServer *xhttp.Server
	l          *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	handlers Handlers,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	queue *pkgqueue.RedisQueue,
	pipeline *mid.NewsPipeline,
	hub *stream.Hub,
	chClient *pkgch.Client,
	store *docstore.RedisStore,
	publisher domrepo.Publisher,
	l *applogger.Logger,
) *App {
	return &App{
		cfg:       cfg,
		handlers:  handlers,
		consumer:  consumer,
		kh:        kh,
		queue:     queue,
		pipeline:  pipeline,
		hub:       hub,
		chClient:  chClient,
		store:     store,
		publisher: publisher,
		l:         l,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.l
	if l == nil {
		l, _ = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	}

	a.httpServer = xhttp.NewServer(a.handlers,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithRequestMetrics(l, 2*time.Second),
	)

	// Start intake pipeline buffering
	if a.pipeline != nil {
		a.pipeline.Start(ctx)
		l.Info("news pipeline started")
	}

	// Start queue workers
	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			l.Error("queue start error", applogger.Error(err))
			return err
		}
	}

	// Start consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.l
	if l == nil {
		var err error
		l, err = applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
		if err != nil {
			log.Printf("failed to create logger: %v", err)
			return err
		}
	}
	l.Info("shutting down...")

	// Shutdown HTTP server first so no new work arrives
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Disconnect stream clients
	if a.hub != nil {
		if err := a.hub.Close(); err != nil {
			l.Warn("stream hub close error", applogger.Error(err))
		}
	}

	// Stop consumer before the pipeline so buffered items can still flush
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}
	if a.pipeline != nil {
		a.pipeline.Stop()
	}

	// Stop queue workers
	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			l.Warn("queue stop error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			l.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			l.Warn("docstore close error", applogger.Error(err))
		}
	}

	// Flush any aggregated logs
	l.RemoveCollector()

	l.Info("shutdown complete")
	return nil
}
