package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/pkg/log"
)

// Search — однократный поиск без кэша.
type Search struct {
	api     SearchAPI
	mapper  SectionMapper
	metrics Metrics
}

// NewSearch создаёт поиск. m может быть nil.
func NewSearch(api SearchAPI, mapper SectionMapper, m Metrics) *Search {
	if m == nil {
		m = nopMetrics{}
	}

	return &Search{api: api, mapper: mapper, metrics: m}
}

// Search ищет секции по ключевому слову.
//
// Особенности:
//   - пустой (после TrimSpace) запрос -> пустой успешный результат без сети;
//   - null-секции и секции с ошибкой маппинга отбрасываются;
//   - ошибка запроса возвращается как *dataerr.Error.
func (s *Search) Search(ctx context.Context, query string) ([]models.Section, error) {
	const op = "service.search.Search"

	lg := log.From(ctx)

	keyword := strings.TrimSpace(query)
	if keyword == "" {
		s.metrics.ObserveSearch("empty", 0)
		return []models.Section{}, nil
	}

	started := time.Now()

	resp, err := s.api.Search(ctx, keyword)
	if err != nil {
		derr := dataerr.Wrap(fmt.Errorf("%s: %w", op, err))
		s.metrics.ObserveSearch(derr.Kind.Code(), time.Since(started))
		lg.Warn("search_failed",
			slog.String("op", op),
			slog.String("query", keyword),
			slog.String("kind", string(derr.Kind)),
			slog.String("err", err.Error()),
		)
		return nil, derr
	}

	out := make([]models.Section, 0)
	if resp != nil {
		for i, dto := range resp.Sections {
			if dto == nil {
				continue
			}

			sec, err := s.mapper.MapSection(ctx, dto)
			if err != nil {
				lg.Warn("map_section_failed",
					slog.String("op", op),
					slog.Int("index", i),
					slog.String("err", err.Error()),
				)
				continue
			}
			sec.LogicalID = models.LogicalSectionID(sec.Name, sec.Order)
			out = append(out, sec)
		}
	}

	s.metrics.ObserveSearch("ok", time.Since(started))
	lg.Debug("search_ok",
		slog.String("op", op),
		slog.String("query", keyword),
		slog.Int("sections", len(out)),
	)

	return out, nil
}
