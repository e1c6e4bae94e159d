package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS items (
	item_id         INTEGER PRIMARY KEY AUTOINCREMENT,
	item_name       TEXT NOT NULL DEFAULT '',
	due_date        TEXT NOT NULL DEFAULT '',
	item_importance INTEGER NOT NULL DEFAULT 0
);`

// Store keeps items in a SQLite database.
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens (and migrates) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_id, item_name, due_date, item_importance FROM items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ItemID, &it.ItemName, &it.DueDate, &it.ItemImportance); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return items, nil
}

func (s *Store) Create(ctx context.Context, it model.Item) (model.Item, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO items (item_name, due_date, item_importance) VALUES (?, ?, ?)`,
		it.ItemName, it.DueDate, it.ItemImportance)
	if err != nil {
		return model.Item{}, fmt.Errorf("create: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Item{}, fmt.Errorf("create: %w", err)
	}
	it.ItemID = id
	return it, nil
}

func (s *Store) Get(ctx context.Context, id int64) (model.Item, error) {
	var it model.Item
	err := s.db.QueryRowContext(ctx,
		`SELECT item_id, item_name, due_date, item_importance FROM items WHERE item_id = ?`, id).
		Scan(&it.ItemID, &it.ItemName, &it.DueDate, &it.ItemImportance)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Item{}, store.ErrNotFound
	}
	if err != nil {
		return model.Item{}, fmt.Errorf("get: %w", err)
	}
	return it, nil
}

func (s *Store) Update(ctx context.Context, id int64, it model.Item) (model.Item, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE items SET item_name = ?, due_date = ?, item_importance = ? WHERE item_id = ?`,
		it.ItemName, it.DueDate, it.ItemImportance, id)
	if err != nil {
		return model.Item{}, fmt.Errorf("update: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.Item{}, store.ErrNotFound
	}
	it.ItemID = id
	return it, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE item_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }
