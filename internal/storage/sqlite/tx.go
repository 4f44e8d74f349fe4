package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
)

// tx реализует storage.Tx поверх *sql.Tx.
type tx struct {
	tx *sql.Tx
}

// ClearAll удаляет все три таблицы кэша.
func (t *tx) ClearAll(ctx context.Context) error {
	const op = "storage.sqlite.ClearAll"

	for _, q := range []string{
		`DELETE FROM sections`,
		`DELETE FROM items`,
		`DELETE FROM remote_keys`,
	} {
		if _, err := t.tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// DeletePage удаляет секции страницы и всё, что к ним привязано.
func (t *tx) DeletePage(ctx context.Context, page int) error {
	const op = "storage.sqlite.DeletePage"

	for _, q := range []string{
		`DELETE FROM items WHERE section_key IN (SELECT key FROM sections WHERE page = ?)`,
		`DELETE FROM remote_keys WHERE section_key IN (SELECT key FROM sections WHERE page = ?)`,
		`DELETE FROM sections WHERE page = ?`,
	} {
		if _, err := t.tx.ExecContext(ctx, q, page); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// SaveSections вставляет секции и элементы с заменой при конфликте ключей.
func (t *tx) SaveSections(ctx context.Context, sections []models.Section) error {
	const op = "storage.sqlite.SaveSections"

	if len(sections) == 0 {
		return nil
	}

	secStmt, err := t.tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO sections (key, logical_id, name, ord, layout, content_type, page)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare sections: %w", op, err)
	}
	defer secStmt.Close()

	itemStmt, err := t.tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO items (key, section_key, ord, item_id, kind, name, description, avatar_url, duration_seconds, details)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare items: %w", op, err)
	}
	defer itemStmt.Close()

	for _, sec := range sections {
		if _, err := secStmt.ExecContext(ctx, sec.Key, sec.LogicalID.String(), sec.Name, sec.Order,
			string(sec.Layout), string(sec.ContentType), sec.Page); err != nil {
			return fmt.Errorf("%s: section %q: %w", op, sec.Key, err)
		}

		for i, it := range sec.Items {
			details, err := storage.EncodeItemDetails(it)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			if _, err := itemStmt.ExecContext(ctx, it.Key, sec.Key, i, it.ID, string(it.Kind), it.Name,
				it.Description, it.AvatarURL, it.DurationSeconds, string(details)); err != nil {
				return fmt.Errorf("%s: item %q: %w", op, it.Key, err)
			}
		}
	}

	return nil
}

// SaveRemoteKeys вставляет курсоры с заменой при конфликте.
func (t *tx) SaveRemoteKeys(ctx context.Context, keys []models.RemoteKey) error {
	const op = "storage.sqlite.SaveRemoteKeys"

	if len(keys) == 0 {
		return nil
	}

	stmt, err := t.tx.PrepareContext(ctx, `
	INSERT OR REPLACE INTO remote_keys (section_key, prev_key, next_key) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%s: prepare: %w", op, err)
	}
	defer stmt.Close()

	for _, rk := range keys {
		if _, err := stmt.ExecContext(ctx, rk.SectionKey, nullInt(rk.PrevKey), nullInt(rk.NextKey)); err != nil {
			return fmt.Errorf("%s: %q: %w", op, rk.SectionKey, err)
		}
	}

	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)

	return &n
}

var _ storage.Tx = (*tx)(nil)
