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

var creatureColumns = []string{
	"id", "owner_id", "container_id", "name", "personality", "dialogues", "rarity", "sprite", "retired", "created_at", "updated_at",
}

func scanCreature(row pgx.Row) (models.Creature, error) {
	var c models.Creature
	err := row.Scan(&c.ID, &c.OwnerID, &c.ContainerID, &c.Name, &c.Personality, &c.Dialogues,
		&c.Rarity, &c.Sprite, &c.Retired, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func aliveCreature(ownerID, id uuid.UUID) squirrel.Eq {
	return squirrel.Eq{"id": id, "owner_id": ownerID, "retired": false}
}

func (s queries) listCreatures(ctx context.Context, op string, where squirrel.Eq) ([]models.Creature, error) {
	sql, args, err := squirrel.Select(creatureColumns...).
		From("creatures").
		Where(where).
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

	var creatures []models.Creature
	for rows.Next() {
		c, err := scanCreature(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		creatures = append(creatures, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return creatures, nil
}

func (s queries) ListAliveCreatures(ctx context.Context, ownerID uuid.UUID) ([]models.Creature, error) {
	const op = "storage.Postgres.ListAliveCreatures"

	return s.listCreatures(ctx, op, squirrel.Eq{"owner_id": ownerID, "retired": false})
}

func (s queries) ListContainerCreatures(ctx context.Context, ownerID, containerID uuid.UUID) ([]models.Creature, error) {
	const op = "storage.Postgres.ListContainerCreatures"

	return s.listCreatures(ctx, op, squirrel.Eq{"owner_id": ownerID, "container_id": containerID, "retired": false})
}

func (s queries) GetCreature(ctx context.Context, ownerID, id uuid.UUID) (models.Creature, error) {
	const op = "storage.Postgres.GetCreature"

	sql, args, err := squirrel.Select(creatureColumns...).
		From("creatures").
		Where(aliveCreature(ownerID, id)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Creature{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanCreature(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Creature{}, fmt.Errorf("%s: %w", op, repository.ErrCreatureNotFound)
		}
		return models.Creature{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s queries) InsertCreatures(ctx context.Context, creatures []models.Creature) ([]models.Creature, error) {
	const op = "storage.Postgres.InsertCreatures"

	if len(creatures) == 0 {
		return nil, nil
	}

	out := make([]models.Creature, 0, len(creatures))
	for _, batch := range chunk(creatures, maxRowsPerStatement) {
		inserted, err := s.insertCreatureBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, inserted...)
	}

	return out, nil
}

// insertCreatureBatch writes one multi-row INSERT and matches the returned rows back by id,
// since RETURNING does not promise input order.
func (s queries) insertCreatureBatch(ctx context.Context, creatures []models.Creature) ([]models.Creature, error) {
	out := make([]models.Creature, len(creatures))
	index := make(map[uuid.UUID]int, len(creatures))

	insert := squirrel.Insert("creatures").
		Columns("id", "owner_id", "container_id", "name", "personality", "dialogues", "rarity", "sprite").
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)
	for i, c := range creatures {
		c.ID = uuid.New()
		if c.Dialogues == nil {
			c.Dialogues = []string{}
		}
		out[i] = c
		index[c.ID] = i
		insert = insert.Values(c.ID, c.OwnerID, c.ContainerID, c.Name, string(c.Personality), c.Dialogues, string(c.Rarity), c.Sprite)
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
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			return nil, fmt.Errorf("unexpected creature id %s in RETURNING", id)
		}
		out[i].CreatedAt = createdAt
		out[i].UpdatedAt = updatedAt
		returned++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if returned != len(creatures) {
		return nil, fmt.Errorf("inserted %d of %d creatures", returned, len(creatures))
	}

	return out, nil
}

func (s queries) RetireCreatures(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) error {
	const op = "storage.Postgres.RetireCreatures"

	if len(ids) == 0 {
		return nil
	}

	for _, batch := range chunk(ids, maxRowsPerStatement) {
		sql, args, err := squirrel.Update("creatures").
			Set("retired", true).
			Set("updated_at", squirrel.Expr("now()")).
			Where(squirrel.Eq{"owner_id": ownerID, "id": batch, "retired": false}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if _, err := s.q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s queries) updateCreature(ctx context.Context, op string, ownerID, id uuid.UUID, set map[string]any) (models.Creature, error) {
	set["updated_at"] = squirrel.Expr("now()")

	sql, args, err := squirrel.Update("creatures").
		SetMap(set).
		Where(aliveCreature(ownerID, id)).
		Suffix("RETURNING " + joinColumns(creatureColumns)).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return models.Creature{}, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanCreature(s.q.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Creature{}, fmt.Errorf("%s: %w", op, repository.ErrCreatureNotFound)
		}
		return models.Creature{}, fmt.Errorf("%s: %w", op, err)
	}

	return c, nil
}

func (s queries) RenameCreature(ctx context.Context, ownerID, id uuid.UUID, name string) (models.Creature, error) {
	const op = "storage.Postgres.RenameCreature"

	return s.updateCreature(ctx, op, ownerID, id, map[string]any{"name": name})
}

func (s queries) MoveCreature(ctx context.Context, ownerID, id, containerID uuid.UUID) (models.Creature, error) {
	const op = "storage.Postgres.MoveCreature"

	return s.updateCreature(ctx, op, ownerID, id, map[string]any{"container_id": containerID})
}

func (s queries) ReassignCreatures(ctx context.Context, ownerID, fromID, toID uuid.UUID) (int64, error) {
	const op = "storage.Postgres.ReassignCreatures"

	sql, args, err := squirrel.Update("creatures").
		Set("container_id", toID).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"owner_id": ownerID, "container_id": fromID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected(), nil
}

func (s queries) UnlockedSprites(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	const op = "storage.Postgres.UnlockedSprites"

	sql, args, err := squirrel.Select("DISTINCT sprite").
		From("creatures").
		Where(squirrel.Eq{"owner_id": ownerID}).
		Where(squirrel.NotEq{"sprite": ""}).
		OrderBy("sprite").
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

	var sprites []string
	for rows.Next() {
		var sprite string
		if err := rows.Scan(&sprite); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sprites = append(sprites, sprite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sprites, nil
}
