package postgres

import (
	"coinlings/internal/domain/models"
	"coinlings/internal/repository"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

//go:embed schema.sql
var schema string

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type queries struct {
	q querier
}

type Storage struct {
	queries
	db *pgxpool.Pool
}

var _ repository.Store = (*Storage)(nil)

func NewPostgres(ctx context.Context, conn string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := pgxpool.New(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{queries: queries{q: db}, db: db}, nil
}

// Migrate creates the tables when they do not exist yet.
func (s *Storage) Migrate(ctx context.Context) error {
	const op = "storage.Postgres.Migrate"

	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// WithinOwnerTx holds the owner's users row FOR UPDATE for the whole unit of work, so
// units of work for one owner run one at a time while other owners proceed in parallel.
func (s *Storage) WithinOwnerTx(ctx context.Context, ownerID uuid.UUID, fn repository.TxFunc) (err error) {
	const op = "storage.Postgres.WithinOwnerTx"

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	lockQuery, lockArgs, err := ownerLock(ownerID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var locked uuid.UUID
	if err = tx.QueryRow(ctx, lockQuery, lockArgs...).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = fn(ctx, &ownerTx{queries: queries{q: tx}, ownerID: ownerID}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ownerLock selects the owner's users row FOR UPDATE.
func ownerLock(ownerID uuid.UUID) (string, []any, error) {
	return squirrel.Select("id").
		From("users").
		Where(squirrel.Eq{"id": ownerID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

func (s *Storage) Close() error {
	s.db.Close()
	return nil
}

type ownerTx struct {
	queries
	ownerID uuid.UUID
}

func (t *ownerTx) LockedUser(ctx context.Context) (models.User, error) {
	return t.GetUserByID(ctx, t.ownerID)
}

func (t *ownerTx) SetBalance(ctx context.Context, balance decimal.Decimal) error {
	const op = "storage.Postgres.SetBalance"

	sql, args, err := squirrel.Update("users").
		Set("balance", balance).
		Where(squirrel.Eq{"id": t.ownerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := t.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
	}

	return nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
