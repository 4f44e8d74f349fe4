// sqlite предоставляет реализацию storage.Storage на встраиваемом SQLite
// (modernc.org/sqlite, без cgo). Это локальный офлайн-кэш по умолчанию.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pribylovaa/go-audio-sections/internal/storage"

	_ "modernc.org/sqlite"
)

// Storage — кэш секций в файле SQLite.
type Storage struct {
	db *sql.DB
}

// New открывает (или создаёт) базу по пути path и применяет схему.
// WAL даёт читателям согласованный снимок во время транзакции записи,
// busy_timeout — ожидание вместо SQLITE_BUSY при конкурентной записи.
func New(ctx context.Context, path string) (*Storage, error) {
	const op = "storage.sqlite.New"

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Close закрывает соединения с базой.
func (s *Storage) Close() {
	_ = s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS sections (
	key          TEXT PRIMARY KEY,
	logical_id   TEXT NOT NULL,
	name         TEXT NOT NULL,
	ord          INTEGER NOT NULL,
	layout       TEXT NOT NULL,
	content_type TEXT NOT NULL,
	page         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS sections_read_order ON sections (page, ord, key);

CREATE TABLE IF NOT EXISTS items (
	key              TEXT PRIMARY KEY,
	section_key      TEXT NOT NULL,
	ord              INTEGER NOT NULL,
	item_id          TEXT NOT NULL,
	kind             TEXT NOT NULL,
	name             TEXT NOT NULL,
	description      TEXT NOT NULL,
	avatar_url       TEXT NOT NULL,
	duration_seconds INTEGER NOT NULL DEFAULT 0,
	details          TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS items_section_ord ON items (section_key, ord);

CREATE TABLE IF NOT EXISTS remote_keys (
	section_key TEXT PRIMARY KEY,
	prev_key    INTEGER,
	next_key    INTEGER
);
`

// InTx выполняет fn в одной транзакции записи.
func (s *Storage) InTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	const op = "storage.sqlite.InTx"

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}

	if err := fn(ctx, &tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.Storage = (*Storage)(nil)
