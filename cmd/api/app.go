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

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/karyawan/staff-api/internal/api"
	"github.com/karyawan/staff-api/internal/core/ports"
	"github.com/karyawan/staff-api/internal/core/service"
	"github.com/karyawan/staff-api/internal/infrastructure/db/memory"
	mongodb "github.com/karyawan/staff-api/internal/infrastructure/db/mongo"
	"github.com/karyawan/staff-api/internal/infrastructure/db/postgres"
	redisdb "github.com/karyawan/staff-api/internal/infrastructure/db/redis"
	"github.com/karyawan/staff-api/internal/infrastructure/http/handlers"
	"github.com/karyawan/staff-api/internal/infrastructure/security"
	"github.com/karyawan/staff-api/internal/infrastructure/seed"
	"github.com/karyawan/staff-api/internal/pkg/config"
	"github.com/karyawan/staff-api/pkg/logger"
)

// store is an opened user repository plus its lifecycle hooks.
type store struct {
	repo    ports.UserRepository
	migrate func(ctx context.Context) error
	close   func(ctx context.Context) error
}

func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: appName,
	})

	if err := cfg.Validate(); err != nil {
		return nil, log, err
	}
	return cfg, log, nil
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.URL}, logger.Component("gorm"))
		if err != nil {
			return nil, err
		}
		repo := postgres.NewUserRepository(db)
		return &store{
			repo:    repo,
			migrate: repo.Migrate,
			close:   func(context.Context) error { return postgres.Close(db) },
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		repo := mongodb.NewUserRepository(db)
		return &store{
			repo:    repo,
			migrate: repo.EnsureIndexes,
			close:   client.Disconnect,
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store; data is lost on restart")
		return &store{
			repo:    memory.NewUserRepository(),
			migrate: func(context.Context) error { return nil },
			close:   func(context.Context) error { return nil },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func serve(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeWithTimeout(st.close, log, "store")

	// The schema is created on start so a fresh database is usable at once.
	if err := st.migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ready := map[string]handlers.Pinger{cfg.StoreDriver: st.repo}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		ready["redis"] = handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
	}

	var denylist ports.TokenDenylist
	if cfg.RevokeOnLogout {
		denylist = redisdb.NewTokenDenylist(rdb)
		log.Info().Msg("logout revocation enabled")
	}

	tokens, err := security.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	hasher := security.NewBcryptHasher()

	if cfg.SeedUsersFile != "" {
		res, err := seed.NewSeeder(st.repo, hasher, logger.Component("seed")).FromFile(ctx, cfg.SeedUsersFile)
		if err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
		log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Msg("seed applied")
	}

	e := api.NewRouter(api.Deps{
		AuthService:     service.NewAuthService(st.repo, hasher, tokens, denylist, logger.Component("auth")),
		EmployeeService: service.NewEmployeeService(st.repo, hasher, logger.Component("employees")),
		Tokens:          tokens,
		Denylist:        denylist,
		ReadyChecks:     ready,
		CORSOrigins:     cfg.CORSOrigins,
		Log:             logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func migrate(ctx context.Context) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeWithTimeout(st.close, log, "store")

	if err := st.migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("store", cfg.StoreDriver).Msg("migration complete")
	return nil
}

func seedUsers(ctx context.Context, file string) error {
	cfg, log, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	if file == "" {
		file = cfg.SeedUsersFile
	}
	if file == "" {
		return errors.New("no seed file: pass --file or set SEED_USERS_FILE")
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer closeWithTimeout(st.close, log, "store")

	if err := st.migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	res, err := seed.NewSeeder(st.repo, security.NewBcryptHasher(), logger.Component("seed")).FromFile(ctx, file)
	if err != nil {
		return err
	}
	log.Info().Int("created", res.Created).Int("skipped", res.Skipped).Str("file", file).Msg("seed complete")
	return nil
}

func closeWithTimeout(fn func(context.Context) error, log zerolog.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Warn().Err(err).Str("dependency", name).Msg("close failed")
	}
}
