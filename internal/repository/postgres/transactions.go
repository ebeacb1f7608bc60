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
)

var transactionColumns = []string{
	"id", "owner_id", "kind", "amount::text", "date", "notes", "category", "worth_it", "created_at",
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var t models.Transaction
	var amount string
	err := row.Scan(&t.ID, &t.OwnerID, &t.Kind, &amount, &t.Date, &t.Notes, &t.Category, &t.WorthIt, &t.CreatedAt)
	if err != nil {
		return models.Transaction{}, err
	}

	if t.Amount, err = parseDecimal(amount); err != nil {
		return models.Transaction{}, err
	}

	return t, nil
}

func (s queries) InsertTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error) {
	const op = "storage.Postgres.InsertTransaction"

	t.ID = uuid.New()

	sql, args, err := squirrel.Insert("transactions").
		Columns("id", "owner_id", "kind", "amount", "date", "notes", "category", "worth_it").
		Values(t.ID, t.OwnerID, t.Kind, t.Amount, t.Date, t.Notes, t.Category, t.WorthIt).
		Suffix("RETURNING created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.q.QueryRow(ctx, sql, args...).Scan(&t.CreatedAt); err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s queries) ListTransactions(ctx context.Context, ownerID uuid.UUID) ([]models.Transaction, error) {
	const op = "storage.Postgres.ListTransactions"

	sql, args, err := squirrel.Select(transactionColumns...).
		From("transactions").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("seq DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return items, nil
}

func (s queries) SetWorthIt(ctx context.Context, ownerID, id uuid.UUID, worthIt bool) (models.Transaction, error) {
	const op = "storage.Postgres.SetWorthIt"

	sql, args, err := squirrel.Update("transactions").
		Set("worth_it", worthIt).
		Where(squirrel.Eq{"id": id, "owner_id": ownerID, "kind": models.KindDebit}).
		Suffix("RETURNING " + joinColumns(transactionColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	t, err := scanTransaction(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Transaction{}, fmt.Errorf("%s: %w", op, s.missingDebit(ctx, ownerID, id))
		}
		return models.Transaction{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// missingDebit tells a credit apart from a transaction the owner does not have.
func (s queries) missingDebit(ctx context.Context, ownerID, id uuid.UUID) error {
	sql, args, err := squirrel.Select("kind").
		From("transactions").
		Where(squirrel.Eq{"id": id, "owner_id": ownerID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	var kind models.TransactionKind
	if err := s.q.QueryRow(ctx, sql, args...).Scan(&kind); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrTransactionNotFound
		}
		return err
	}

	return repository.ErrNotDebit
}

func (s queries) DistinctCategories(ctx context.Context, ownerID uuid.UUID, kind models.TransactionKind) ([]string, error) {
	const op = "storage.Postgres.DistinctCategories"

	sql, args, err := squirrel.Select("DISTINCT category").
		From("transactions").
		Where(squirrel.Eq{"owner_id": ownerID, "kind": kind}).
		Where(squirrel.NotEq{"category": ""}).
		OrderBy("category").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return categories, nil
}
