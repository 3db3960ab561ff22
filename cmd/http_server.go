package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/church-management/api"
	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/approval"
	approvalPostgres "github.com/frahmantamala/church-management/internal/approval/postgres"
	"github.com/frahmantamala/church-management/internal/auth"
	authPostgres "github.com/frahmantamala/church-management/internal/auth/postgres"
	"github.com/frahmantamala/church-management/internal/catalog"
	catalogPostgres "github.com/frahmantamala/church-management/internal/catalog/postgres"
	"github.com/frahmantamala/church-management/internal/core/common/media"
	"github.com/frahmantamala/church-management/internal/core/events"
	"github.com/frahmantamala/church-management/internal/document"
	"github.com/frahmantamala/church-management/internal/transport"
	"github.com/frahmantamala/church-management/internal/transport/middleware"
	"github.com/frahmantamala/church-management/internal/transport/rest"
	"github.com/frahmantamala/church-management/internal/user"
	userPostgres "github.com/frahmantamala/church-management/internal/user/postgres"
	"github.com/frahmantamala/church-management/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	Logger   *slog.Logger
	Registry *prometheus.Registry
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	if err := setupRoutes(deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up routes: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger

	openAPI, _, err := api.Load(context.Background())
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)
	events.NewMetrics(deps.Registry).Register(bus)

	resolver := media.NewResolver(cfg.Server.MediaURL)
	base := transport.NewBaseHandler(lg)

	authRepo := authPostgres.NewRepository(deps.Gorm)
	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)

	userService := user.NewService(
		userPostgres.NewUserRepository(deps.Gorm),
		userPostgres.NewStatsRepository(deps.DB),
		bus,
		resolver,
		cfg.Security.BCryptCost,
		lg,
	)

	generator := document.NewGenerator(newDocumentRenderer(cfg.Documents, lg), authRepo, bus, document.Options{
		ChurchName:    cfg.Documents.ChurchName,
		PresidentName: cfg.Documents.PresidentName,
	}, lg)

	handlers := rest.Handlers{
		Auth:     auth.NewHandler(base, auth.NewService(authRepo, tokens, lg)),
		User:     user.NewHandler(base, userService),
		Approval: approval.NewHandler(base, approval.NewService(approvalPostgres.NewApprovalRepository(deps.Gorm), bus, lg)),
		Catalog:  catalog.NewHandler(base, catalog.NewService(catalogPostgres.NewCatalogRepository(deps.Gorm), resolver, lg)),
		Document: document.NewHandler(base, generator),
	}

	opts := rest.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		AuthLimiter:    middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, lg),
		OpenAPI:        openAPI,
	}
	if cfg.Observability.Metrics.Enabled {
		opts.Metrics = middleware.NewHTTPMetrics(deps.Registry)
		opts.MetricsPath = cfg.Observability.Metrics.Path
		opts.MetricsHandler = promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, opts, lg)
	return nil
}

// newDocumentRenderer returns nil when documents are disabled or the asset
// directory is missing; the generator then answers 503.
func newDocumentRenderer(cfg internal.DocumentsConfig, lg *slog.Logger) document.Renderer {
	if !cfg.Enabled {
		lg.Warn("document generation disabled by configuration")
		return nil
	}
	renderer, err := document.NewPDFRenderer(cfg.AssetsDir, cfg.FontFamily)
	if err != nil {
		lg.Warn("document generation unavailable", "assets_dir", cfg.AssetsDir, "error", err)
		return nil
	}
	return renderer
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gdb, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Dependencies{
		Config:   config,
		Logger:   logger.LoggerWrapper(),
		DB:       db,
		Gorm:     gdb,
		Router:   chi.NewRouter(),
		Registry: registry,
	}, nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm shares the sqlx connection pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Warn),
	})
}
