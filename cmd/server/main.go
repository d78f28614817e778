package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lacarta/pos-gateway/internal/adapters/itd"
	"github.com/lacarta/pos-gateway/internal/adapters/postgres"
	"github.com/lacarta/pos-gateway/internal/adapters/secrets"
	"github.com/lacarta/pos-gateway/internal/config"
	"github.com/lacarta/pos-gateway/internal/domain"
	"github.com/lacarta/pos-gateway/internal/domain/ports"
	gatewayhandler "github.com/lacarta/pos-gateway/internal/handlers/gateway"
	"github.com/lacarta/pos-gateway/internal/services/posgateway"
	"github.com/lacarta/pos-gateway/pkg/logging"
	"github.com/lacarta/pos-gateway/pkg/observability"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting pos-gateway",
		ports.String("version", "0.1.0"),
		ports.String("secrets_backend", cfg.Secrets.Backend))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := resolveSecrets(ctx, cfg, logger); err != nil {
		logger.Error("resolve secrets", ports.Err(err))
		os.Exit(1)
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("init database", ports.Err(err))
		os.Exit(1)
	}
	defer pool.Close()

	store := postgres.NewOrderEvidenceStore(pool, logger)
	terminals := postgres.NewTerminalConfigSource(pool, domain.TerminalConfig{
		PosID:       cfg.Terminal.DefaultPosID,
		SystemID:    cfg.Terminal.DefaultSystemID,
		Branch:      cfg.Terminal.DefaultBranch,
		ClientAppID: cfg.Terminal.DefaultClientAppID,
	}, logger)

	client := itd.NewClientWithDefaults(itd.Endpoints{
		Sale:    cfg.Terminal.SaleURL,
		Cancel:  cfg.Terminal.CancelURL,
		Refund:  cfg.Terminal.RefundURL,
		Query:   cfg.Terminal.QueryURL,
		Reverse: cfg.Terminal.ReverseURL,
	}, logger)

	svc := posgateway.NewService(store, terminals, client, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Get("/healthz", observability.HealthHandler())
	router.Get("/readyz", observability.ReadinessHandler(store))
	router.Handle("/metrics", promhttp.Handler())
	gatewayhandler.NewHandler(svc, logger).RegisterRoutes(router)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("http server listening", ports.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", ports.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", ports.Err(err))
	}
	logger.Info("stopped")
}

func newLogger(cfg config.LoggerConfig) (*logging.ZapLogger, error) {
	if cfg.Development {
		return logging.NewDevelopment()
	}
	return logging.NewProductionWithLevel(cfg.Level)
}

// resolveSecrets pulls the database password and default terminal system id
// from the secret backend when they are referenced by path instead of value
func resolveSecrets(ctx context.Context, cfg *config.Config, logger ports.Logger) error {
	dbSecret := os.Getenv("DB_PASSWORD_SECRET")
	terminalSecret := os.Getenv("ITD_SYSTEM_ID_SECRET")
	if dbSecret == "" && terminalSecret == "" {
		return nil
	}

	store, err := secrets.NewFromConfig(ctx, cfg.Secrets, logger)
	if err != nil {
		return err
	}

	if dbSecret != "" {
		secret, err := store.GetSecret(ctx, dbSecret)
		if err != nil {
			return err
		}
		cfg.Database.Password = secret.Value
	}
	if terminalSecret != "" {
		secret, err := store.GetSecret(ctx, terminalSecret)
		if err != nil {
			return err
		}
		cfg.Terminal.DefaultSystemID = secret.Value
	}
	return nil
}
