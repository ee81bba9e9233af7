package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

//go:embed sql/*.sql
var files embed.FS

// Runner applies the embedded migrations. URL must use the pgx5:// scheme.
type Runner struct {
	URL    string
	Logger logrus.FieldLogger
}

func (r Runner) Run(ctx context.Context) error {
	if strings.TrimSpace(r.URL) == "" {
		return errors.New("empty migration url")
	}

	src, err := iofs.New(files, "sql")
	if err != nil {
		return fmt.Errorf("open migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, r.URL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		_, _ = m.Close()
	}()
	if r.Logger != nil {
		m.Log = migrateLogger{l: r.Logger}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("migration version %d is dirty", version)
	}
	if r.Logger != nil {
		r.Logger.WithField("version", version).Info("migrations applied")
	}
	return nil
}

type migrateLogger struct {
	l logrus.FieldLogger
}

func (m migrateLogger) Printf(format string, v ...interface{}) {
	m.l.Debugf(strings.TrimSpace(format), v...)
}

func (m migrateLogger) Verbose() bool {
	return false
}
