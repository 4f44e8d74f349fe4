package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
	"github.com/pribylovaa/go-audio-sections/pkg/log"
)

// Sections возвращает страницу кэша. Сеть не используется.
//
// Правила нормализации:
// - limit <= 0 -> DefaultLimit;
// - limit > MaxLimit -> MaxLimit;
// - пустой pageToken -> первая страница.
//
// Ошибки:
// - ErrInvalidCursor — битый/чужой page_token (маппинг storage.ErrInvalidCursor);
// - прочие ошибки стораджа — обёрнутые и прокинуты наверх.
func (p *Pager) Sections(ctx context.Context, opts models.ListOptions) (*models.SectionPage, error) {
	const op = "service.queries.Sections"

	lg := log.From(ctx)

	if opts.Limit <= 0 {
		opts.Limit = p.opts.DefaultLimit
	}

	if p.opts.MaxLimit > 0 && opts.Limit > p.opts.MaxLimit {
		opts.Limit = p.opts.MaxLimit
	}

	page, err := p.storage.ListSections(ctx, opts)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidCursor) {
			lg.Warn("list_sections_invalid_cursor", slog.String("op", op))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCursor)
		}

		lg.Error("list_sections_storage_error",
			slog.String("op", op),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Debug("list_sections_ok",
		slog.String("op", op),
		slog.Int("items", len(page.Items)),
		slog.Bool("has_next_page", page.NextPageToken != ""),
	)

	return page, nil
}

// SectionByKey возвращает секцию кэша по составному ключу.
//
// Ошибки:
// - ErrInvalidArgument — пустой ключ;
// - ErrNotFound — записи нет (маппинг storage.ErrNotFound).
func (p *Pager) SectionByKey(ctx context.Context, key string) (*models.Section, error) {
	const op = "service.queries.SectionByKey"

	lg := log.From(ctx)

	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%s: %w: empty key", op, ErrInvalidArgument)
	}

	sec, err := p.storage.SectionByKey(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("section_by_key_not_found",
				slog.String("op", op),
				slog.String("key", key),
			)
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("section_by_key_storage_error",
			slog.String("op", op),
			slog.String("key", key),
			slog.String("err", err.Error()),
		)

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sec, nil
}

// CachedCount возвращает число секций в кэше.
func (p *Pager) CachedCount(ctx context.Context) (int, error) {
	const op = "service.queries.CachedCount"

	n, err := p.storage.CountSections(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}
