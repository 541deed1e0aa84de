package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/greenchain-backend/internal/auth"
	"github.com/goodnatureofminers/greenchain-backend/internal/catalog"
	"github.com/goodnatureofminers/greenchain-backend/internal/clock"
	"github.com/goodnatureofminers/greenchain-backend/internal/feed"
	"github.com/goodnatureofminers/greenchain-backend/internal/metrics"
	"github.com/goodnatureofminers/greenchain-backend/internal/newsletter"
	"github.com/goodnatureofminers/greenchain-backend/internal/session"
	"github.com/goodnatureofminers/greenchain-backend/internal/transport"
	"github.com/goodnatureofminers/greenchain-backend/internal/ui"
	"github.com/goodnatureofminers/greenchain-backend/internal/wallet"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	grpcZap "github.com/grpc-ecosystem/go-grpc-middleware/logging/zap"
	grpcRecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	grpcCtxTags "github.com/grpc-ecosystem/go-grpc-middleware/tags"
	grpcPrometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type config struct {
	GRPCAddr        string        `long:"grpc-addr" env:"DASHBOARD_GRPC_ADDR" description:"gRPC health server addr" default:":8000"`
	HTTPAddr        string        `long:"http-addr" env:"DASHBOARD_HTTP_ADDR" description:"HTTP API addr" default:":8001"`
	AuthURL         string        `long:"auth-url" env:"DASHBOARD_AUTH_URL" description:"sign-in service base URL; sign in is disabled when empty"`
	AuthTimeout     time.Duration `long:"auth-timeout" env:"DASHBOARD_AUTH_TIMEOUT" description:"sign-in request timeout" default:"10s"`
	CatalogFile     string        `long:"catalog" env:"DASHBOARD_CATALOG" description:"YAML catalog replacing the built-in one"`
	SessionTTL      time.Duration `long:"session-ttl" env:"DASHBOARD_SESSION_TTL" description:"session lifetime" default:"12h"`
	MaxSessions     int64         `long:"max-sessions" env:"DASHBOARD_MAX_SESSIONS" description:"maximum number of open sessions" default:"10000"`
	FeedInterval    time.Duration `long:"feed-interval" env:"DASHBOARD_FEED_INTERVAL" description:"live feed tick interval" default:"5s"`
	NewsletterBatch int           `long:"newsletter-batch" env:"DASHBOARD_NEWSLETTER_BATCH" description:"newsletter signups per batch" default:"100"`
	NewsletterFlush time.Duration `long:"newsletter-flush" env:"DASHBOARD_NEWSLETTER_FLUSH" description:"newsletter batch flush interval" default:"1s"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()
	grpcZap.ReplaceGrpcLoggerV2(logger)

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("dashboard api failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	cat, err := loadCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}

	factory, err := session.NewFactory(session.Config{
		Feed:   feed.Config{Interval: cfg.FeedInterval},
		Wallet: wallet.DefaultConfig(),
		UI:     ui.DefaultConfig(),
	}, cat, clock.System{}, metrics.NewFeed(), metrics.NewWallet(), logger)
	if err != nil {
		return fmt.Errorf("init session factory: %w", err)
	}
	store, err := session.NewStore(session.StoreConfig{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.MaxSessions,
	}, factory, metrics.NewSessions(), logger)
	if err != nil {
		return fmt.Errorf("init session store: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Sessions released after shutdown deadline", zap.Error(err))
		}
	}()

	nlCfg := newsletter.DefaultConfig()
	nlCfg.BatchSize = cfg.NewsletterBatch
	nlCfg.FlushInterval = cfg.NewsletterFlush
	signups, err := newsletter.NewService(nlCfg, newsletter.NewRegistry(), clock.System{}, metrics.NewNewsletter(), logger)
	if err != nil {
		return fmt.Errorf("init newsletter: %w", err)
	}
	signups.Start(ctx)
	defer signups.Stop()

	// a nil interface keeps sign in answering 501
	var authenticator transport.Authenticator
	if cfg.AuthURL != "" {
		client, err := auth.NewClient(auth.Config{BaseURL: cfg.AuthURL, Timeout: cfg.AuthTimeout}, metrics.NewAuth(), logger)
		if err != nil {
			return fmt.Errorf("init auth client: %w", err)
		}
		defer client.Close()
		authenticator = client
	} else {
		logger.Warn("no auth url configured; sign in is disabled")
	}

	handler, err := transport.NewHandler(cat, store, authenticator, signups, logger)
	if err != nil {
		return fmt.Errorf("init http handler: %w", err)
	}

	health := transport.NewHealthHandler()
	grpcServer := newGRPCServer(logger, health)

	mux := http.NewServeMux()
	mux.Handle("/api/", handler.Routes())
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           cors.Default().Handler(mux),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// no WriteTimeout: feed streams stay open
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}

	socket, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting gRPC server", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(socket); err != nil {
			return fmt.Errorf("serve grpc: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		health.Shutdown()

		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}

		logger.Info("Shutting down gRPC server")
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}

func newGRPCServer(logger *zap.Logger, health healthpb.HealthServer) *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{
		grpcRecovery.UnaryServerInterceptor(),
		grpcCtxTags.UnaryServerInterceptor(),
		grpcPrometheus.UnaryServerInterceptor,
		grpcZap.UnaryServerInterceptor(logger),
	}
	grpcServer := grpc.NewServer(
		grpc.UnaryInterceptor(grpcMiddleware.ChainUnaryServer(chain...)),
		grpc.StreamInterceptor(grpcMiddleware.ChainStreamServer(
			grpcRecovery.StreamServerInterceptor(),
			grpcPrometheus.StreamServerInterceptor,
		)),
	)
	healthpb.RegisterHealthServer(grpcServer, health)
	grpcPrometheus.EnableHandlingTimeHistogram()
	grpcPrometheus.Register(grpcServer)

	return grpcServer
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return catalog.Load(data)
}
