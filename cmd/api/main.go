package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	cloudstorage "cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/lancer-works/api/internal/handlers"
	"github.com/lancer-works/api/internal/platform/auth"
	"github.com/lancer-works/api/internal/platform/config"
	"github.com/lancer-works/api/internal/platform/observability"
	platformstorage "github.com/lancer-works/api/internal/platform/storage"
	"github.com/lancer-works/api/internal/repositories"
	"github.com/lancer-works/api/internal/repositories/postgres"
	"github.com/lancer-works/api/internal/services"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := postgres.Open(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := postgres.Migrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	store, err := postgres.NewStore(db)
	if err != nil {
		logger.Fatal("failed to initialise store", zap.Error(err))
	}

	storageClient, err := cloudstorage.NewClient(ctx)
	if err != nil {
		logger.Fatal("failed to initialise storage client", zap.Error(err))
	}
	defer func() {
		if err := storageClient.Close(); err != nil {
			logger.Warn("storage close error", zap.Error(err))
		}
	}()

	bucket, err := platformstorage.NewBucket(storageClient, cfg.Storage.Bucket)
	if err != nil {
		logger.Fatal("failed to initialise asset bucket", zap.Error(err))
	}

	if strings.TrimSpace(cfg.Storage.SignerKeyFile) == "" {
		logger.Fatal("storage signer key file is required")
	}
	signer, err := platformstorage.NewServiceAccountSignerFromFile(cfg.Storage.SignerKeyFile)
	if err != nil {
		logger.Fatal("failed to load storage signer key", zap.Error(err))
	}
	signedURLClient, err := platformstorage.NewClient(signer)
	if err != nil {
		logger.Fatal("failed to initialise signed url client", zap.Error(err))
	}
	urlSigner := &bucketURLSigner{
		client: signedURLClient,
		bucket: cfg.Storage.Bucket,
		ttl:    cfg.Storage.SignedURLTTL,
	}

	tokens, err := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), auth.WithTokenTTL(cfg.Auth.TokenTTL))
	if err != nil {
		logger.Fatal("failed to initialise token manager", zap.Error(err))
	}
	googleVerifier, err := auth.NewGoogleVerifier(cfg.Auth.GoogleClientID)
	if err != nil {
		logger.Fatal("failed to initialise google verifier", zap.Error(err))
	}
	authenticator := auth.NewAuthenticator(tokens)

	authService, err := services.NewAuthService(services.AuthServiceDeps{
		Registry: store,
		Google:   googleVerifier,
		Issuer:   tokens,
		Clock:    time.Now,
	})
	if err != nil {
		logger.Fatal("failed to initialise auth service", zap.Error(err))
	}
	assetService, err := services.NewAssetService(services.AssetServiceDeps{
		Store:    bucket,
		Signer:   urlSigner,
		MaxBytes: cfg.Uploads.MaxBytes,
		Logger:   logger.Named("assets"),
	})
	if err != nil {
		logger.Fatal("failed to initialise asset service", zap.Error(err))
	}
	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{Registry: store})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}
	customerService, err := services.NewCustomerService(services.CustomerServiceDeps{Registry: store})
	if err != nil {
		logger.Fatal("failed to initialise customer service", zap.Error(err))
	}
	productService, err := services.NewProductService(services.ProductServiceDeps{Registry: store})
	if err != nil {
		logger.Fatal("failed to initialise product service", zap.Error(err))
	}
	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Registry: store,
		Clock:    time.Now,
	})
	if err != nil {
		logger.Fatal("failed to initialise order service", zap.Error(err))
	}
	exportService, err := services.NewExportService(services.ExportServiceDeps{Registry: store})
	if err != nil {
		logger.Fatal("failed to initialise export service", zap.Error(err))
	}

	healthRepo, err := newHealthRepository(store)
	if err != nil {
		logger.Fatal("failed to initialise health repository", zap.Error(err))
	}
	healthHandlers := handlers.NewHealthHandlers(handlers.WithHealthRepository(healthRepo))

	authHandlers := handlers.NewAuthHandlers(authenticator, authService)
	artistHandlers := handlers.NewArtistHandlers(authenticator, catalogService)
	baseHandlers := handlers.NewArtistBaseHandlers(authenticator, catalogService, assetService, cfg.Uploads.MaxBytes)
	tagHandlers := handlers.NewTagHandlers(authenticator, catalogService)
	customerHandlers := handlers.NewCustomerHandlers(authenticator, customerService)
	productHandlers := handlers.NewProductHandlers(authenticator, productService, assetService, cfg.Uploads.MaxBytes)
	commissionHandlers := handlers.NewCommissionHandlers(authenticator, productService)
	orderHandlers := handlers.NewOrderHandlers(authenticator, orderService)
	exportHandlers := handlers.NewExportHandlers(authenticator, exportService)

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(),
	}

	router := handlers.NewRouter(
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithAuthRoutes(authHandlers.Routes),
		handlers.WithArtistRoutes(artistHandlers.Routes),
		handlers.WithArtistBaseRoutes(baseHandlers.Routes),
		handlers.WithTagRoutes(tagHandlers.Routes),
		handlers.WithCustomerRoutes(customerHandlers.Routes),
		handlers.WithProductRoutes(productHandlers.Routes),
		handlers.WithCommissionRoutes(commissionHandlers.Routes),
		handlers.WithOrderRoutes(orderHandlers.Routes),
		handlers.WithExportRoutes(exportHandlers.Routes),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("lancer api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newHealthRepository(store *postgres.Store) (repositories.HealthRepository, error) {
	checks := []repositories.DependencyCheck{
		{
			Name:    "database",
			Timeout: 1500 * time.Millisecond,
			Check:   store.Ping,
		},
	}
	return repositories.NewDependencyHealthRepository(checks)
}

// bucketURLSigner binds the signed URL client to the configured bucket and TTL.
type bucketURLSigner struct {
	client *platformstorage.Client
	bucket string
	ttl    time.Duration
}

func (s *bucketURLSigner) SignedDownloadURL(ctx context.Context, key string) (string, time.Time, error) {
	result, err := s.client.SignedDownloadURL(ctx, s.bucket, key, platformstorage.DownloadOptions{
		ExpiresIn: s.ttl,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return result.URL, result.ExpiresAt, nil
}
