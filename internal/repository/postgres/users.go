package postgres

import (
	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"context"
	"errors"
	"fmt"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var userColumns = []string{"id", "email", "password", "balance::text", "created_at"}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	var balance string
	if err := row.Scan(&user.ID, &user.Email, &user.Password, &balance, &user.CreatedAt); err != nil {
		return models.User{}, err
	}

	var err error
	if user.Balance, err = parseDecimal(balance); err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s queries) CreateUser(ctx context.Context, email string, passHash []byte) (uuid.UUID, error) {
	const op = "storage.Postgres.CreateUser"

	sql, args, err := squirrel.Insert("users").
		Columns("email", "password").
		Values(email, passHash).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	var id uuid.UUID
	if err = s.q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, fmt.Errorf("%s: %w", op, repository.ErrUserAlreadyExists)
		}

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s queries) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	const op = "storage.Postgres.GetUserByEmail"

	return s.getUser(ctx, op, squirrel.Eq{"email": email})
}

func (s queries) GetUserByID(ctx context.Context, ownerID uuid.UUID) (models.User, error) {
	const op = "storage.Postgres.GetUserByID"

	return s.getUser(ctx, op, squirrel.Eq{"id": ownerID})
}

func (s queries) getUser(ctx context.Context, op string, where squirrel.Eq) (models.User, error) {
	sql, args, err := squirrel.Select(userColumns...).
		From("users").
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	user, err := scanUser(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
