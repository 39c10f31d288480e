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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/tutorconnect/auth"
	"github.com/diewo77/tutorconnect/internal/config"
	"github.com/diewo77/tutorconnect/internal/db"
	"github.com/diewo77/tutorconnect/internal/logging"
	"github.com/diewo77/tutorconnect/internal/metrics"
	"github.com/diewo77/tutorconnect/internal/policy"
	"github.com/diewo77/tutorconnect/internal/registration"
	"github.com/diewo77/tutorconnect/internal/store"
	"github.com/diewo77/tutorconnect/view"
)

var (
	env        string
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tutorconnect",
		Short: "TutorConnect - match students with local tutors",
		// Running without a subcommand starts the server.
		RunE: func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
	}
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (development, production); overrides APP_ENV")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Optional YAML config file; overrides CONFIG_PATH")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context()) },
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  func(cmd *cobra.Command, args []string) error { return runMigrate(cmd.Context()) },
	})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads .env, configuration and the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.App.Env = env
	}
	log, err := logging.New(cfg.App.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}

// migrateSchema applies SQL migrations on Postgres when enabled, and
// AutoMigrate otherwise.
func migrateSchema(cfg *config.Config, conn *gorm.DB, log *zap.Logger) error {
	if cfg.App.Migrations && cfg.Database.Driver == db.DriverPostgres {
		log.Info("running sql migrations")
		if err := db.RunSQLMigrations(cfg.Database.URL()); err != nil {
			return err
		}
	} else {
		if err := db.Migrate(conn); err != nil {
			return err
		}
	}
	return db.CheckSchema(conn)
}

func runMigrate(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	conn, err := db.Open(ctx, cfg.Database, cfg.App.Dev, log)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	if err := migrateSchema(cfg, conn, log); err != nil {
		log.Error("migration failed", zap.Error(err))
		return err
	}
	log.Info("migrations completed successfully")
	return nil
}

// newFlights picks the in-flight guard for role selection: Redis when
// configured so several instances share it, in-process otherwise.
func newFlights(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (registration.FlightGuard, func(), error) {
	if cfg.URL == "" {
		return registration.NewMemoryFlights(), func() {}, nil
	}
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("role selection guard uses redis", zap.String("addr", opt.Addr))
	return registration.NewRedisFlights(client, cfg.Prefix, cfg.FlightTTL), func() { _ = client.Close() }, nil
}

func runServe(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	conn, err := db.Open(ctx, cfg.Database, cfg.App.Dev, log)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	// Run migrations on startup if enabled; SQLite always auto-migrates.
	if cfg.App.Migrations || cfg.Database.Driver == db.DriverSQLite {
		if err := migrateSchema(cfg, conn, log); err != nil {
			log.Error("migration failed", zap.Error(err))
			return err
		}
		log.Info("migrations completed")
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}

	flights, closeFlights, err := newFlights(ctx, cfg.Redis, log)
	if err != nil {
		log.Error("failed to set up role selection guard", zap.Error(err))
		return err
	}
	defer closeFlights()

	if cfg.Session.Secret == "" && cfg.App.IsProduction() {
		return errors.New("SESSION_SECRET is required in production")
	}
	auth.Configure(cfg.Session.Secret, cfg.Session.TTL)

	// Configure auth verifier to check if user exists in DB
	users := store.NewUsers(conn)
	auth.SetUserVerifier(users.Exists)

	view.SetDevMode(cfg.App.Dev)

	routerCfg := policy.NewRouterConfig(conn, policy.Deps{
		Flights: flights,
		Metrics: metrics.New(),
		Log:     log,
		Pinger:  sqlDB,
	})
	appHandler := NewApp(routerCfg, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      appHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("port", cfg.Server.Port), zap.Bool("dev", cfg.App.Dev), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-sigCtx.Done():
		log.Info("shutdown signal received")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error during shutdown", zap.Error(err))
		return err
	}
	log.Info("server stopped gracefully")
	return nil
}
