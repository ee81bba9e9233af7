package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"jobboard/internal/domain/user"

	"github.com/google/uuid"
)

type UserRepository struct {
	db *PostgresDB

	stmtCreate     *sql.Stmt
	stmtGetByID    *sql.Stmt
	stmtGetByEmail *sql.Stmt
	stmtExists     *sql.Stmt
}

func NewUserRepository(ctx context.Context, db *PostgresDB) (*UserRepository, error) {
	r := &UserRepository{db: db}

	prepare := func(dst **sql.Stmt, query string) error {
		s, err := db.sqlDB().PrepareContext(ctx, query)
		if err != nil {
			return err
		}
		*dst = s
		return nil
	}

	for _, it := range []struct {
		dst   **sql.Stmt
		query string
	}{
		{&r.stmtCreate, `INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)`},
		{&r.stmtGetByID, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = $1`},
		{&r.stmtGetByEmail, `SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = $1`},
		{&r.stmtExists, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`},
	} {
		if err := prepare(it.dst, it.query); err != nil {
			_ = r.Close()
			return nil, err
		}
	}

	return r, nil
}

func (r *UserRepository) Close() error {
	var firstErr error
	closeStmt := func(s *sql.Stmt) {
		if s == nil {
			return
		}
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	closeStmt(r.stmtCreate)
	closeStmt(r.stmtGetByID)
	closeStmt(r.stmtGetByEmail)
	closeStmt(r.stmtExists)

	return firstErr
}

func (r *UserRepository) CreateUser(ctx context.Context, u user.User) error {
	_, err := r.stmtCreate.ExecContext(ctx, u.ID.String(), u.Email, u.PasswordHash)
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.stmtGetByID.QueryRowContext(ctx, id.String())
	return scanUser(row)
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.stmtGetByEmail.QueryRowContext(ctx, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.stmtExists.QueryRowContext(ctx, strings.ToLower(strings.TrimSpace(email))).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

type userRow interface {
	Scan(dest ...any) error
}

func scanUser(row userRow) (user.User, error) {
	var (
		u  user.User
		id string
	)
	if err := row.Scan(&id, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return user.User{}, err
	}
	u.ID = parsed
	return u, nil
}
