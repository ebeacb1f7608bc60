// Package sqlite keeps the in-memory store and snapshots it into a SQLite file after
// every successful write. It suits a single-process deployment.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"coinlings/internal/repository"
	"coinlings/internal/repository/memory"
	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

var buckets = []string{"users", "transactions", "containers", "creatures"}

type Storage struct {
	*memory.Storage
	db   *sql.DB
	path string
}

var _ repository.Store = (*Storage)(nil)

func NewSQLite(path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	if path == "" {
		path = "coinlings.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("%s: create dirs: %w", op, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: create state table: %w", op, err)
	}

	s := &Storage{Storage: memory.New(), db: db, path: path}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Storage.WithPersister(s)

	return s, nil
}

func (s *Storage) load() error {
	rows, err := sq.Select("bucket", "payload").
		From("state").
		RunWith(s.db).
		Query()
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snapshot memory.Snapshot
	found := false
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		found = true

		var target any
		switch bucket {
		case "users":
			target = &snapshot.Users
		case "transactions":
			target = &snapshot.Transactions
		case "containers":
			target = &snapshot.Containers
		case "creatures":
			target = &snapshot.Creatures
		default:
			continue
		}
		if err := json.Unmarshal(payload, target); err != nil {
			return fmt.Errorf("decode %s: %w", bucket, err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("select state: %w", err)
	}

	if found {
		s.ImportState(snapshot)
	}
	return nil
}

// Save writes every bucket in one transaction. It is called with the memory store locked.
func (s *Storage) Save(snapshot memory.Snapshot) (retErr error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage.sqlite.Save: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, bucket := range buckets {
		var data []byte
		switch bucket {
		case "users":
			data, err = json.Marshal(snapshot.Users)
		case "transactions":
			data, err = json.Marshal(snapshot.Transactions)
		case "containers":
			data, err = json.Marshal(snapshot.Containers)
		case "creatures":
			data, err = json.Marshal(snapshot.Creatures)
		}
		if err != nil {
			return fmt.Errorf("storage.sqlite.Save: encode %s: %w", bucket, err)
		}
		_, err = sq.Insert("state").
			Columns("bucket", "payload").
			Values(bucket, data).
			Suffix("ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload").
			RunWith(tx).
			Exec()
		if err != nil {
			return fmt.Errorf("storage.sqlite.Save: upsert %s: %w", bucket, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("storage.sqlite.Save: %w", err)
	}
	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file.
func (s *Storage) Path() string { return s.path }
