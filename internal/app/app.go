package app

import (
	httpserver "coinlings/internal/app/http-server"
	"coinlings/internal/config"
	"coinlings/internal/handlers"
	"coinlings/internal/lib/jwt"
	"coinlings/internal/metrics"
	"coinlings/internal/middlewares"
	"coinlings/internal/repository"
	"coinlings/internal/repository/memory"
	"coinlings/internal/repository/postgres"
	"coinlings/internal/repository/redis"
	"coinlings/internal/repository/sprites"
	"coinlings/internal/repository/sqlite"
	"coinlings/internal/routes"
	"coinlings/internal/services"
	"coinlings/internal/world"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

type App struct {
	HTTPServer *httpserver.Server

	log     *slog.Logger
	closers []func() error
}

// Deps is everything the HTTP surface needs, already connected.
type Deps struct {
	Store         repository.Store
	Tokens        services.RedisClient
	JWT           *jwt.Generator
	Catalog       services.SpriteCatalog
	Metrics       *metrics.Metrics
	Rand          world.Rand
	MaxPopulation int
	CORSOrigins   []string
}

func New(log *slog.Logger, cfg *config.Config) *App {
	ctx := context.Background()

	a := &App{log: log}

	store, err := openStore(ctx, log, cfg.Database)
	if err != nil {
		panic(err)
	}
	a.closers = append(a.closers, store.Close)

	refreshTTL := 24 * time.Hour * time.Duration(cfg.JWT.RefreshExpirationDays)
	jwtGen := jwt.NewGenerator(cfg.JWT.Secret, time.Minute*time.Duration(cfg.JWT.AccessExpirationMinutes), refreshTTL)

	redisDB, err := redis.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, jwtGen.RefreshTTL())
	if err != nil {
		panic(err)
	}
	a.closers = append(a.closers, redisDB.Close)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Server.Timeout)
	if err := redisDB.Ping(pingCtx); err != nil {
		log.Warn("redis is unreachable, sign-in will fail until it is back", slog.String("error", err.Error()))
	}
	cancel()

	catalog, err := openCatalog(ctx, cfg.Sprites)
	if err != nil {
		panic(err)
	}

	r := NewRouter(log, Deps{
		Store:         store,
		Tokens:        redisDB,
		JWT:           jwtGen,
		Catalog:       catalog,
		Metrics:       metrics.New(),
		Rand:          world.DefaultRand(),
		MaxPopulation: cfg.World.MaxPopulation,
		CORSOrigins:   cfg.Server.CORSOrigins,
	})

	a.HTTPServer = httpserver.NewServer(log, cfg.Server.Address, r, cfg.Server.Timeout)

	return a
}

// NewRouter wires services and handlers on top of deps.
func NewRouter(log *slog.Logger, deps Deps) *gin.Engine {
	reconciler := services.NewReconciler(log, deps.Rand)

	authService := services.NewAuthService(log, deps.Store, deps.Tokens, deps.JWT)
	ledgerService := services.NewLedgerService(log, deps.Store, reconciler, deps.MaxPopulation, deps.Metrics)
	containerService := services.NewContainerService(log, deps.Store, deps.Rand, deps.Metrics)
	creatureService := services.NewCreatureService(log, deps.Store, reconciler, deps.MaxPopulation, deps.Metrics)
	journalService := services.NewJournalService(log, deps.Catalog, deps.Store)

	h := routes.Handlers{
		Auth:         handlers.NewAuthHandler(log, authService),
		Transactions: handlers.NewTransactionHandler(log, ledgerService),
		Containers:   handlers.NewContainerHandler(log, containerService),
		Creatures:    handlers.NewCreatureHandler(log, creatureService),
		Journal:      handlers.NewJournalHandler(log, journalService),
	}

	authMiddleware := middlewares.NewAuthMiddleware(deps.JWT)

	return routes.InitRoutes(h, authMiddleware, deps.Metrics, deps.Metrics.Handler(), deps.CORSOrigins)
}

// Stop shuts the server down and releases storage connections.
func (a *App) Stop(ctx context.Context) error {
	const op = "app.Stop"

	var errs []error
	if err := a.HTTPServer.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func openStore(ctx context.Context, log *slog.Logger, cfg config.DatabaseConfig) (repository.Store, error) {
	const op = "app.openStore"

	log = log.With(slog.String("op", op), slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case "memory":
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	case "sqlite":
		store, err := sqlite.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("sqlite storage opened", slog.String("path", store.Path()))
		return store, nil
	case "postgres":
		store, err := postgres.NewPostgres(ctx, cfg.PostgresConn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("postgres storage ready")
		return store, nil
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
}

func openCatalog(ctx context.Context, cfg config.SpritesConfig) (services.SpriteCatalog, error) {
	const op = "app.openCatalog"

	switch cfg.Driver {
	case "fs":
		return sprites.NewFS(cfg.Dir), nil
	case "s3":
		catalog, err := sprites.NewS3(ctx, sprites.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.PathStyle,

			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return catalog, nil
	default:
		return nil, fmt.Errorf("%s: unknown sprites driver %q", op, cfg.Driver)
	}
}
