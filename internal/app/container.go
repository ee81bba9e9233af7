package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/database"
	"jobboard/internal/database/migration"
	dbpostgres "jobboard/internal/database/postgres"
	"jobboard/internal/database/seeder"
	"jobboard/internal/delivery/http/handler"
	"jobboard/internal/domain/job"
	"jobboard/internal/domain/profile"
	"jobboard/internal/domain/user"
	"jobboard/internal/infrastructure/cache"
	"jobboard/internal/infrastructure/gormstore"
	"jobboard/internal/infrastructure/persistence/postgres"
	"jobboard/internal/infrastructure/supabase"
	"jobboard/internal/notify"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/repository"
	"jobboard/internal/usecase/auth"
	"jobboard/internal/usecase/directory"
	"jobboard/internal/usecase/session"
	"jobboard/internal/ws"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Container holds the wired dependencies for one BACKEND_DRIVER.
type Container struct {
	Config config.Config
	Logger *logrus.Logger

	DB    database.DB
	Gorm  *gorm.DB
	Redis *cache.Redis

	Jobs     job.Repository
	Profiles profile.Repository
	Provider user.Provider

	Tokens      jwt.Service
	Hub         *ws.Hub
	Directories *directory.Registry
	Sessions    *session.Store

	checks  map[string]handler.Pinger
	closers []func() error
}

func NewContainer(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
		checks: map[string]handler.Pinger{},
	}

	connectCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	var err error
	switch cfg.Backend.Driver {
	case config.DriverPostgres:
		err = c.wirePostgres(connectCtx)
	case config.DriverSupabase:
		err = c.wireSupabase()
	case config.DriverSQLite:
		err = c.wireSQLite()
	default:
		err = fmt.Errorf("unknown backend driver %q", cfg.Backend.Driver)
	}
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	c.closers = append(c.closers, c.Redis.Close)

	var revocations session.Revocations = session.NewMemoryRevocations()
	if c.Redis.Available() {
		c.Jobs = repository.NewCachedJobRepository(c.Jobs, c.Redis, c.Redis.TTL(), logger)
		revocations = session.NewCachedRevocations(c.Redis)
		c.checks["redis"] = c.Redis
	}

	c.Tokens = jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	c.Hub = ws.NewHub(logger)
	notifier := notify.Fanout{notify.LogNotifier{Logger: logger}, c.Hub}
	c.Directories = directory.NewRegistry(c.Jobs, notifier, logger, cfg.Directory.DefaultMinSalary, cfg.Directory.DefaultMaxSalary)
	c.Sessions = session.NewStore(c.Provider, c.Profiles, c.Tokens, revocations, c.Directories, logger)

	logger.WithFields(logrus.Fields{
		"driver": cfg.Backend.Driver,
		"redis":  c.Redis.Available(),
	}).Info("container ready")
	return c, nil
}

func (c *Container) wirePostgres(ctx context.Context) error {
	pool, err := dbpostgres.Connect(ctx, c.Config.Database)
	if err != nil {
		return err
	}
	c.DB = pool
	c.closers = append(c.closers, pool.Close)
	c.checks["database"] = pool

	// Prepared statements below need the schema in place.
	if c.Config.App.MigrateOnStart {
		r := migration.Runner{URL: c.Config.Database.PostgresURL("pgx5"), Logger: c.Logger}
		if err := r.Run(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if c.Config.App.SeedOnStart {
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}
		if err := r.Run(ctx, pool); err != nil {
			return err
		}
	}

	sqlDB, err := postgres.New(pool.SQLDB())
	if err != nil {
		return err
	}

	users, err := postgres.NewUserRepository(ctx, sqlDB)
	if err != nil {
		return err
	}
	c.closers = append(c.closers, users.Close)

	c.Jobs = repository.NewPostgresJobRepository(pool)
	c.Profiles = repository.NewPostgresProfileRepository(pool)
	c.Provider = auth.NewService(users)
	return nil
}

func (c *Container) wireSupabase() error {
	client, err := supabase.NewClient(c.Config.Supabase)
	if err != nil {
		return err
	}
	c.Jobs = supabase.NewJobStore(client)
	c.Profiles = supabase.NewProfileStore(client)
	c.Provider = supabase.NewAuthProvider(client)
	return nil
}

func (c *Container) wireSQLite() error {
	db, err := gormstore.Open(c.Config.Backend.SQLitePath, c.Logger.IsLevelEnabled(logrus.DebugLevel))
	if err != nil {
		return err
	}
	c.Gorm = db

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("sqlite handle: %w", err)
	}
	c.closers = append(c.closers, sqlDB.Close)
	c.checks["database"] = pingFunc(sqlDB.PingContext)

	c.Jobs = gormstore.NewJobRepository(db)
	c.Profiles = gormstore.NewProfileRepository(db)
	c.Provider = auth.NewService(gormstore.NewUserRepository(db))
	return nil
}

func (c *Container) HealthChecks() map[string]handler.Pinger {
	return c.checks
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
