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
	"time"
)

var containerColumns = []string{"id", "owner_id", "name", "x_pct", "y_pct", "capacity", "deleted", "created_at"}

func scanContainer(row pgx.Row) (models.Container, error) {
	var c models.Container
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.XPct, &c.YPct, &c.Capacity, &c.Deleted, &c.CreatedAt)
	return c, err
}

func liveContainer(ownerID, id uuid.UUID) squirrel.Eq {
	return squirrel.Eq{"id": id, "owner_id": ownerID, "deleted": false}
}

func (s queries) ListContainers(ctx context.Context, ownerID uuid.UUID) ([]models.Container, error) {
	const op = "storage.Postgres.ListContainers"

	sql, args, err := squirrel.Select(containerColumns...).
		From("containers").
		Where(squirrel.Eq{"owner_id": ownerID, "deleted": false}).
		OrderBy("seq").
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

	var containers []models.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return containers, nil
}

func (s queries) GetContainer(ctx context.Context, ownerID, id uuid.UUID) (models.Container, error) {
	const op = "storage.Postgres.GetContainer"

	sql, args, err := squirrel.Select(containerColumns...).
		From("containers").
		Where(liveContainer(ownerID, id)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Container{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanContainer(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Container{}, fmt.Errorf("%s: %w", op, repository.ErrContainerNotFound)
		}
		return models.Container{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s queries) Occupancy(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]int, error) {
	const op = "storage.Postgres.Occupancy"

	sql, args, err := squirrel.Select("container_id", "COUNT(*)").
		From("creatures").
		Where(squirrel.Eq{"owner_id": ownerID, "retired": false}).
		GroupBy("container_id").
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

	occupancy := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		occupancy[id] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return occupancy, nil
}

func (s queries) InsertContainers(ctx context.Context, containers []models.Container) ([]models.Container, error) {
	const op = "storage.Postgres.InsertContainers"

	if len(containers) == 0 {
		return nil, nil
	}

	out := make([]models.Container, 0, len(containers))
	for _, batch := range chunk(containers, maxRowsPerStatement) {
		inserted, err := s.insertContainerBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, inserted...)
	}

	return out, nil
}

func (s queries) insertContainerBatch(ctx context.Context, containers []models.Container) ([]models.Container, error) {
	out := make([]models.Container, len(containers))
	index := make(map[uuid.UUID]int, len(containers))

	insert := squirrel.Insert("containers").
		Columns("id", "owner_id", "name", "x_pct", "y_pct", "capacity").
		Suffix("RETURNING id, created_at").
		PlaceholderFormat(squirrel.Dollar)
	for i, c := range containers {
		c.ID = uuid.New()
		out[i] = c
		index[c.ID] = i
		insert = insert.Values(c.ID, c.OwnerID, c.Name, c.XPct, c.YPct, c.Capacity)
	}

	sql, args, err := insert.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	returned := 0
	for rows.Next() {
		var id uuid.UUID
		var createdAt time.Time
		if err := rows.Scan(&id, &createdAt); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("unexpected container id %s in RETURNING", id)
		}
		out[i].CreatedAt = createdAt
		returned++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if returned != len(containers) {
		return nil, fmt.Errorf("inserted %d of %d containers", returned, len(containers))
	}

	return out, nil
}

func (s queries) updateContainer(ctx context.Context, op string, ownerID, id uuid.UUID, set map[string]any) (models.Container, error) {
	sql, args, err := squirrel.Update("containers").
		SetMap(set).
		Where(liveContainer(ownerID, id)).
		Suffix("RETURNING " + joinColumns(containerColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Container{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanContainer(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Container{}, fmt.Errorf("%s: %w", op, repository.ErrContainerNotFound)
		}
		return models.Container{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s queries) SetContainerPosition(ctx context.Context, ownerID, id uuid.UUID, x, y float64) (models.Container, error) {
	const op = "storage.Postgres.SetContainerPosition"

	return s.updateContainer(ctx, op, ownerID, id, map[string]any{"x_pct": x, "y_pct": y})
}

func (s queries) RenameContainer(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Container, error) {
	const op = "storage.Postgres.RenameContainer"

	return s.updateContainer(ctx, op, ownerID, id, map[string]any{"name": name})
}

func (s queries) SetContainerCapacity(ctx context.Context, ownerID, id uuid.UUID, capacity int) error {
	const op = "storage.Postgres.SetContainerCapacity"

	_, err := s.updateContainer(ctx, op, ownerID, id, map[string]any{"capacity": capacity})
	return err
}

func (s queries) SoftDeleteContainer(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "storage.Postgres.SoftDeleteContainer"

	_, err := s.updateContainer(ctx, op, ownerID, id, map[string]any{"deleted": true})
	return err
}

func (s queries) DeleteContainer(ctx context.Context, ownerID, id uuid.UUID) error {
	const op = "storage.Postgres.DeleteContainer"

	sql, args, err := squirrel.Delete("containers").
		Where(liveContainer(ownerID, id)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrContainerNotFound)
	}

	return nil
}
