package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresDB wraps a database/sql handle backed by the shared pgx pool.
type PostgresDB struct {
	db *sql.DB
}

func New(db *sql.DB) (*PostgresDB, error) {
	if db == nil {
		return nil, errors.New("nil sql db")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &PostgresDB{db: db}, nil
}

func (p *PostgresDB) sqlDB() *sql.DB {
	return p.db
}

func (p *PostgresDB) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}
