package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
)

// queryer — общее у *sql.DB и *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const sectionColumns = `key, logical_id, name, ord, layout, content_type, page`

// ListSections возвращает страницу секций с курсорной пагинацией.
// Сортировка фиксирована: page, ord, key по возрастанию.
// Секции и их элементы читаются в одной транзакции, поэтому
// параллельный REFRESH не виден наполовину.
func (s *Storage) ListSections(ctx context.Context, opts models.ListOptions) (*models.SectionPage, error) {
	const op = "storage.sqlite.ListSections"

	limit := opts.Limit
	if limit <= 0 {
		// Защита от нуля/отрицательного значения.
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

	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer sqlTx.Rollback()

	var rows *sql.Rows
	if cur == nil {
		rows, err = sqlTx.QueryContext(ctx, `
		SELECT `+sectionColumns+`
		FROM sections
		ORDER BY page, ord, key
		LIMIT ?`, limit)
	} else {
		rows, err = sqlTx.QueryContext(ctx, `
		SELECT `+sectionColumns+`
		FROM sections
		WHERE (page, ord, key) > (?, ?, ?)
		ORDER BY page, ord, key
		LIMIT ?`, cur.Page, cur.Order, cur.Key, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var page models.SectionPage
	for rows.Next() {
		sec, err := scanSection(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		page.Items = append(page.Items, sec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	rows.Close()

	if err := attachItems(ctx, sqlTx, page.Items); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Курсор следующей страницы — по последнему элементу, только если страница полная.
	if l := len(page.Items); l > 0 && l == int(limit) {
		last := page.Items[l-1]
		page.NextPageToken = storage.EncodeCursor(storage.Cursor{Page: last.Page, Order: last.Order, Key: last.Key})
	}

	return &page, nil
}

// SectionByKey возвращает секцию с элементами. Нет записи — storage.ErrNotFound.
func (s *Storage) SectionByKey(ctx context.Context, key string) (*models.Section, error) {
	const op = "storage.sqlite.SectionByKey"

	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%s: begin: %w", op, err)
	}
	defer sqlTx.Rollback()

	sec, err := scanSection(sqlTx.QueryRowContext(ctx, `
	SELECT `+sectionColumns+` FROM sections WHERE key = ?`, strings.TrimSpace(key)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	secs := []models.Section{sec}
	if err := attachItems(ctx, sqlTx, secs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &secs[0], nil
}

// CountSections возвращает число секций в кэше.
func (s *Storage) CountSections(ctx context.Context) (int, error) {
	const op = "storage.sqlite.CountSections"

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// RemoteKeyBySection возвращает курсоры секции.
func (s *Storage) RemoteKeyBySection(ctx context.Context, sectionKey string) (*models.RemoteKey, error) {
	const op = "storage.sqlite.RemoteKeyBySection"

	rk, err := scanRemoteKey(s.db.QueryRowContext(ctx, `
	SELECT section_key, prev_key, next_key FROM remote_keys WHERE section_key = ?`, sectionKey))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rk, nil
}

// FirstRemoteKey — курсоры первой секции в порядке чтения.
func (s *Storage) FirstRemoteKey(ctx context.Context) (*models.RemoteKey, error) {
	const op = "storage.sqlite.FirstRemoteKey"

	rk, err := scanRemoteKey(s.db.QueryRowContext(ctx, `
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
	const op = "storage.sqlite.LastRemoteKey"

	rk, err := scanRemoteKey(s.db.QueryRowContext(ctx, `
	SELECT rk.section_key, rk.prev_key, rk.next_key
	FROM remote_keys rk JOIN sections s ON s.key = rk.section_key
	ORDER BY s.page DESC, s.ord DESC, s.key DESC
	LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rk, nil
}

// scanner — общее у *sql.Row и *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSection(row scanner) (models.Section, error) {
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

func scanRemoteKey(row scanner) (*models.RemoteKey, error) {
	var (
		rk         models.RemoteKey
		prev, next sql.NullInt64
	)
	if err := row.Scan(&rk.SectionKey, &prev, &next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	rk.PrevKey = intPtr(prev)
	rk.NextKey = intPtr(next)

	return &rk, nil
}

// attachItems дочитывает элементы для секций одним запросом.
func attachItems(ctx context.Context, q queryer, sections []models.Section) error {
	if len(sections) == 0 {
		return nil
	}

	idx := make(map[string]int, len(sections))
	args := make([]any, 0, len(sections))
	for i, sec := range sections {
		idx[sec.Key] = i
		args = append(args, sec.Key)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sections)), ",")
	rows, err := q.QueryContext(ctx, `
	SELECT key, section_key, item_id, kind, name, description, avatar_url, duration_seconds, details
	FROM items
	WHERE section_key IN (`+placeholders+`)
	ORDER BY section_key, ord`, args...)
	if err != nil {
		return fmt.Errorf("items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it         models.Item
			sectionKey string
			kind       string
			details    string
		)
		if err := rows.Scan(&it.Key, &sectionKey, &it.ID, &kind, &it.Name, &it.Description,
			&it.AvatarURL, &it.DurationSeconds, &details); err != nil {
			return fmt.Errorf("scan item: %w", err)
		}
		it.Kind = models.ContentType(kind)
		if err := storage.DecodeItemDetails([]byte(details), &it); err != nil {
			return err
		}

		i, ok := idx[sectionKey]
		if !ok {
			continue
		}
		sections[i].Items = append(sections[i].Items, it)
	}

	return rows.Err()
}
