package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
)

// tx реализует storage.Tx поверх pgx.Tx.
type tx struct {
	tx pgx.Tx
}

// ClearAll удаляет все три таблицы кэша.
func (t *tx) ClearAll(ctx context.Context) error {
	const op = "storage.postgres.ClearAll"

	if _, err := t.tx.Exec(ctx, `TRUNCATE sections, items, remote_keys`); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeletePage удаляет секции страницы и всё, что к ним привязано.
func (t *tx) DeletePage(ctx context.Context, page int) error {
	const op = "storage.postgres.DeletePage"

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM items WHERE section_key IN (SELECT key FROM sections WHERE page = $1)`, page)
	batch.Queue(`DELETE FROM remote_keys WHERE section_key IN (SELECT key FROM sections WHERE page = $1)`, page)
	batch.Queue(`DELETE FROM sections WHERE page = $1`, page)

	if err := t.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveSections сохраняет секции и элементы пачкой с upsert по ключам.
func (t *tx) SaveSections(ctx context.Context, sections []models.Section) error {
	const op = "storage.postgres.SaveSections"

	if len(sections) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, sec := range sections {
		batch.Queue(`
		INSERT INTO sections (key, logical_id, name, ord, layout, content_type, page)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (key) DO UPDATE
		SET logical_id = EXCLUDED.logical_id,
			name = EXCLUDED.name,
			ord = EXCLUDED.ord,
			layout = EXCLUDED.layout,
			content_type = EXCLUDED.content_type,
			page = EXCLUDED.page
		`, sec.Key, sec.LogicalID, sec.Name, sec.Order, string(sec.Layout), string(sec.ContentType), sec.Page)

		for i, it := range sec.Items {
			details, err := storage.EncodeItemDetails(it)
			if err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}

			batch.Queue(`
			INSERT INTO items (key, section_key, ord, item_id, kind, name, description, avatar_url, duration_seconds, details)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (key) DO UPDATE
			SET section_key = EXCLUDED.section_key,
				ord = EXCLUDED.ord,
				item_id = EXCLUDED.item_id,
				kind = EXCLUDED.kind,
				name = EXCLUDED.name,
				description = EXCLUDED.description,
				avatar_url = EXCLUDED.avatar_url,
				duration_seconds = EXCLUDED.duration_seconds,
				details = EXCLUDED.details
			`, it.Key, sec.Key, i, it.ID, string(it.Kind), it.Name, it.Description, it.AvatarURL,
				it.DurationSeconds, details)
		}
	}

	if err := t.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

// SaveRemoteKeys сохраняет курсоры пачкой с upsert по ключу секции.
func (t *tx) SaveRemoteKeys(ctx context.Context, keys []models.RemoteKey) error {
	const op = "storage.postgres.SaveRemoteKeys"

	if len(keys) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, rk := range keys {
		batch.Queue(`
		INSERT INTO remote_keys (section_key, prev_key, next_key)
		VALUES ($1, $2, $3)
		ON CONFLICT (section_key) DO UPDATE
		SET prev_key = EXCLUDED.prev_key, next_key = EXCLUDED.next_key
		`, rk.SectionKey, rk.PrevKey, rk.NextKey)
	}

	if err := t.sendBatch(ctx, batch); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

func (t *tx) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	br := t.tx.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch item %d: %w", i, err)
		}
	}

	return nil
}

var _ storage.Tx = (*tx)(nil)
