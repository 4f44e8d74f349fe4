package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
)

const sectionColumns = `key, logical_id::text, name, ord, layout, content_type, page`

// readOnly — снимок для чтения: секции и элементы видят один и тот же коммит.
var readOnly = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}

// ListSections возвращает страницу секций с keyset-пагинацией
// по (page, ord, key) по возрастанию.
func (s *Storage) ListSections(ctx context.Context, opts models.ListOptions) (*models.SectionPage, error) {
	const op = "storage.postgres.ListSections"

	limit := opts.Limit
	if limit <= 0 {
		limit = 1
	}

	var cur *storage.Cursor
	if opts.PageToken != "" {
		c, err := storage.DecodeCursor(opts.PageToken)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidCursor)
		}
		cur = &c
	}

	var page models.SectionPage
	err := pgx.BeginTxFunc(ctx, s.db, readOnly, func(pgTx pgx.Tx) error {
		var (
			rows pgx.Rows
			err  error
		)
		if cur == nil {
			rows, err = pgTx.Query(ctx, `
			SELECT `+sectionColumns+`
			FROM sections
			ORDER BY page, ord, key
			LIMIT $1`, limit)
		} else {
			rows, err = pgTx.Query(ctx, `
			SELECT `+sectionColumns+`
			FROM sections
			WHERE (page, ord, key) > ($1, $2, $3)
			ORDER BY page, ord, key
			LIMIT $4`, cur.Page, cur.Order, cur.Key, limit)
		}
		if err != nil {
			return err
		}

		for rows.Next() {
			sec, err := scanSection(rows)
			if err != nil {
				rows.Close()
				return err
			}
			page.Items = append(page.Items, sec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("rows: %w", err)
		}

		return attachItems(ctx, pgTx, page.Items)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if l := len(page.Items); l > 0 && l == int(limit) {
		last := page.Items[l-1]
		page.NextPageToken = storage.EncodeCursor(storage.Cursor{Page: last.Page, Order: last.Order, Key: last.Key})
	}

	return &page, nil
}

// SectionByKey возвращает секцию с элементами. Нет записи — storage.ErrNotFound.
func (s *Storage) SectionByKey(ctx context.Context, key string) (*models.Section, error) {
	const op = "storage.postgres.SectionByKey"

	var sec models.Section
	err := pgx.BeginTxFunc(ctx, s.db, readOnly, func(pgTx pgx.Tx) error {
		var err error
		sec, err = scanSection(pgTx.QueryRow(ctx, `
		SELECT `+sectionColumns+` FROM sections WHERE key = $1`, strings.TrimSpace(key)))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return storage.ErrNotFound
			}
			return err
		}

		secs := []models.Section{sec}
		if err := attachItems(ctx, pgTx, secs); err != nil {
			return err
		}
		sec = secs[0]

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sec, nil
}

// CountSections возвращает число секций в кэше.
func (s *Storage) CountSections(ctx context.Context) (int, error) {
	const op = "storage.postgres.CountSections"

	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM sections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// RemoteKeyBySection возвращает курсоры секции.
func (s *Storage) RemoteKeyBySection(ctx context.Context, sectionKey string) (*models.RemoteKey, error) {
	const op = "storage.postgres.RemoteKeyBySection"

	rk, err := scanRemoteKey(s.db.QueryRow(ctx, `
	SELECT section_key, prev_key, next_key FROM remote_keys WHERE section_key = $1`, sectionKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rk, nil
}

// FirstRemoteKey — курсоры первой секции в порядке чтения.
func (s *Storage) FirstRemoteKey(ctx context.Context) (*models.RemoteKey, error) {
	const op = "storage.postgres.FirstRemoteKey"

	rk, err := scanRemoteKey(s.db.QueryRow(ctx, `
	SELECT rk.section_key, rk.prev_key, rk.next_key
	FROM remote_keys rk JOIN sections s ON s.key = rk.section_key
	ORDER BY s.page, s.ord, s.key
	LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rk, nil
}

// LastRemoteKey — курсоры последней секции в порядке чтения.
func (s *Storage) LastRemoteKey(ctx context.Context) (*models.RemoteKey, error) {
	const op = "storage.postgres.LastRemoteKey"

	rk, err := scanRemoteKey(s.db.QueryRow(ctx, `
	SELECT rk.section_key, rk.prev_key, rk.next_key
	FROM remote_keys rk JOIN sections s ON s.key = rk.section_key
	ORDER BY s.page DESC, s.ord DESC, s.key DESC
	LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rk, nil
}

func scanSection(row pgx.Row) (models.Section, error) {
	var (
		sec       models.Section
		logicalID string
		layout    string
		ctype     string
	)
	if err := row.Scan(&sec.Key, &logicalID, &sec.Name, &sec.Order, &layout, &ctype, &sec.Page); err != nil {
		return models.Section{}, err
	}

	id, err := uuid.Parse(logicalID)
	if err != nil {
		return models.Section{}, fmt.Errorf("logical_id %q: %w", logicalID, err)
	}
	sec.LogicalID = id
	sec.Layout = models.Layout(layout)
	sec.ContentType = models.ContentType(ctype)

	return sec, nil
}

func scanRemoteKey(row pgx.Row) (*models.RemoteKey, error) {
	var rk models.RemoteKey
	if err := row.Scan(&rk.SectionKey, &rk.PrevKey, &rk.NextKey); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}

	return &rk, nil
}

// attachItems дочитывает элементы для секций одним запросом.
func attachItems(ctx context.Context, pgTx pgx.Tx, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	idx := make(map[string]int, len(sections))
	keys := make([]string, 0, len(sections))
	for i, sec := range sections {
		idx[sec.Key] = i
		keys = append(keys, sec.Key)
	}

	rows, err := pgTx.Query(ctx, `
	SELECT key, section_key, item_id, kind, name, description, avatar_url, duration_seconds, details
	FROM items
	WHERE section_key = ANY($1)
	ORDER BY section_key, ord`, keys)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it         models.Item
			sectionKey string
			kind       string
			details    []byte
		)
		if err := rows.Scan(&it.Key, &sectionKey, &it.ID, &kind, &it.Name, &it.Description,
			&it.AvatarURL, &it.DurationSeconds, &details); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		it.Kind = models.ContentType(kind)
		if err := storage.DecodeItemDetails(details, &it); err != nil {
			return err
		}

		if i, ok := idx[sectionKey]; ok {
			sections[i].Items = append(sections[i].Items, it)
		}
	}

	return rows.Err()
}
