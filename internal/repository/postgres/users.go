package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/domain"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/core/port"
	"github.com/nicoshinozaki/Smart-Shelving-System/internal/repository"
)

// pgQuerier captures the pgx query surface shared by pools, connections, and mocks.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	db      pgQuerier
	builder squirrel.StatementBuilderType
}

// NewUserRepository wires a PostgreSQL-backed user repository.
func NewUserRepository(db pgQuerier) *UserRepository {
	return &UserRepository{
		db:      db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByEmail retrieves a user by email. Lookup is case-insensitive to match the
// client's login form behaviour.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	stmt, args, err := r.builder.
		Select(
			"id",
			"email",
			"password_hash",
			"first_name",
			"last_name",
			"created_at",
		).
		From("users").
		Where(squirrel.Eq{"lower(email)": strings.ToLower(strings.TrimSpace(email))}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user sql: %w", err)
	}

	var (
		user      domain.User
		createdAt time.Time
	)
	row := r.db.QueryRow(ctx, stmt, args...)
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&createdAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select user by email: %w", err)
	}

	user.CreatedAt = createdAt
	return &user, nil
}

var _ port.UserRepository = (*UserRepository)(nil)
