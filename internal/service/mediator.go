package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
	"github.com/pribylovaa/go-audio-sections/pkg/log"
)

// State — то, что видит потребитель в момент загрузки.
// Пустые ключи допустимы: медиатор берёт крайние курсоры из кэша.
type State struct {
	// AnchorKey — ключ секции ближе всего к текущей позиции прокрутки.
	AnchorKey string
	// FirstKey — ключ первой загруженной секции.
	FirstKey string
	// LastKey — ключ последней загруженной секции.
	LastKey string
}

// LoadResult — итог успешной загрузки.
type LoadResult struct {
	EndOfPaginationReached bool
}

// MediatorOptions — настройки медиатора.
type MediatorOptions struct {
	// AnchorAware включает вариант с возобновлением REFRESH от якоря
	// и поддержкой PREPEND по курсору первой секции.
	AnchorAware bool
	// Metrics — приёмник метрик; nil — без метрик.
	Metrics Metrics
}

// Mediator синхронизирует локальный кэш с постраничным удалённым источником.
//
// Особенности:
//   - не держит собственных блокировок: одна загрузка на направление
//     обеспечивается вызывающей стороной (см. Pager);
//   - атомарность удаления и вставки обеспечивает storage.InTx;
//   - все ошибки возвращаются как *dataerr.Error.
type Mediator struct {
	remote  Remote
	mapper  SectionMapper
	storage storage.Storage
	opts    MediatorOptions
}

// NewMediator создаёт медиатор.
func NewMediator(r Remote, m SectionMapper, st storage.Storage, opts MediatorOptions) *Mediator {
	if opts.Metrics == nil {
		opts.Metrics = nopMetrics{}
	}

	return &Mediator{remote: r, mapper: m, storage: st, opts: opts}
}

// Load выполняет одну загрузку направления lt.
//
// Шаги: выбор страницы -> запрос -> маппинг (битые секции отбрасываются)
// -> ключи и курсоры -> в одной транзакции: очистка (REFRESH) или
// удаление страницы, затем вставка -> end = page >= totalPages.
func (m *Mediator) Load(ctx context.Context, lt models.LoadType, st State) (LoadResult, error) {
	const op = "service.mediator.Load"

	lg := log.From(ctx).With(slog.String("op", op), slog.String("direction", lt.String()))

	page, done, err := m.targetPage(ctx, lt, st)
	if err != nil {
		derr := dataerr.Wrap(fmt.Errorf("%s: target_page: %w", op, err))
		m.opts.Metrics.ObserveLoad(lt.String(), derr.Kind.Code(), 0)
		lg.Warn("mediator_load_failed", slog.String("kind", string(derr.Kind)), slog.String("err", err.Error()))
		return LoadResult{}, derr
	}
	if done != nil {
		result := "skip"
		if done.EndOfPaginationReached {
			result = "end"
		}
		m.opts.Metrics.ObserveLoad(lt.String(), result, 0)
		lg.Debug("mediator_load_skipped", slog.Bool("end", done.EndOfPaginationReached))
		return *done, nil
	}

	started := time.Now()

	resp, err := m.remote.FetchSections(ctx, page)
	if err == nil && resp == nil {
		err = errors.New("empty response")
	}
	if err != nil {
		derr := dataerr.Wrap(fmt.Errorf("%s: fetch page %d: %w", op, page, err))
		m.opts.Metrics.ObserveLoad(lt.String(), derr.Kind.Code(), time.Since(started))
		lg.Warn("mediator_load_failed",
			slog.Int("page", page),
			slog.String("kind", string(derr.Kind)),
			slog.String("err", err.Error()),
		)
		return LoadResult{}, derr
	}

	totalPages := resp.Pagination.TotalPages
	sections, keys := m.buildPage(ctx, resp.Sections, page, totalPages)

	err = m.storage.InTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if lt == models.LoadRefresh {
			if err := tx.ClearAll(ctx); err != nil {
				return err
			}
		} else {
			if err := tx.DeletePage(ctx, page); err != nil {
				return err
			}
		}

		if err := tx.SaveRemoteKeys(ctx, keys); err != nil {
			return err
		}

		return tx.SaveSections(ctx, sections)
	})
	if err != nil {
		derr := dataerr.Wrap(fmt.Errorf("%s: save page %d: %w", op, page, err))
		m.opts.Metrics.ObserveLoad(lt.String(), derr.Kind.Code(), time.Since(started))
		lg.Error("mediator_save_failed",
			slog.Int("page", page),
			slog.String("kind", string(derr.Kind)),
			slog.String("err", err.Error()),
		)
		return LoadResult{}, derr
	}

	if n, err := m.storage.CountSections(ctx); err == nil {
		m.opts.Metrics.SetCachedSections(n)
	}

	end := page >= totalPages
	m.opts.Metrics.ObserveLoad(lt.String(), "ok", time.Since(started))
	lg.Info("mediator_load_ok",
		slog.Int("page", page),
		slog.Int("total_pages", totalPages),
		slog.Int("sections", len(sections)),
		slog.Bool("end", end),
	)

	return LoadResult{EndOfPaginationReached: end}, nil
}

// targetPage выбирает страницу для направления lt.
// done != nil — загрузка завершается сразу с этим результатом, без сети.
func (m *Mediator) targetPage(ctx context.Context, lt models.LoadType, st State) (int, *LoadResult, error) {
	endReached := &LoadResult{EndOfPaginationReached: true}

	switch lt {
	case models.LoadRefresh:
		if !m.opts.AnchorAware || st.AnchorKey == "" {
			return 1, nil, nil
		}

		rk, err := m.storage.RemoteKeyBySection(ctx, st.AnchorKey)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return 1, nil, nil
			}
			return 0, nil, err
		}
		if rk.NextKey != nil {
			return *rk.NextKey - 1, nil, nil
		}

		return 1, nil, nil

	case models.LoadPrepend:
		if !m.opts.AnchorAware {
			return 0, endReached, nil
		}

		rk, err := m.edgeKey(ctx, st.FirstKey, m.storage.FirstRemoteKey)
		if err != nil {
			return 0, nil, err
		}
		if rk == nil {
			// Курсоров ещё нет (REFRESH не завершён): конец не объявляется.
			return 0, &LoadResult{}, nil
		}
		if rk.PrevKey == nil {
			return 0, endReached, nil
		}

		return *rk.PrevKey, nil, nil

	case models.LoadAppend:
		rk, err := m.edgeKey(ctx, st.LastKey, m.storage.LastRemoteKey)
		if err != nil {
			return 0, nil, err
		}
		if rk == nil || rk.NextKey == nil {
			return 0, endReached, nil
		}

		return *rk.NextKey, nil, nil
	}

	return 0, nil, fmt.Errorf("%w: load type %d", ErrInvalidArgument, int(lt))
}

// edgeKey возвращает курсоры секции key, а при пустом key — крайние из кэша.
// Отсутствие записи — (nil, nil).
func (m *Mediator) edgeKey(ctx context.Context, key string, fallback func(context.Context) (*models.RemoteKey, error)) (*models.RemoteKey, error) {
	var (
		rk  *models.RemoteKey
		err error
	)
	if key != "" {
		rk, err = m.storage.RemoteKeyBySection(ctx, key)
	} else {
		rk, err = fallback(ctx)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}

	return rk, err
}

// buildPage маппит DTO страницы, присваивает составные ключи и строит курсоры.
// null-секции и секции с ошибкой маппинга пропускаются.
func (m *Mediator) buildPage(ctx context.Context, dtos []*remote.SectionDTO, page, totalPages int) ([]models.Section, []models.RemoteKey) {
	const op = "service.mediator.buildPage"

	sections := make([]models.Section, 0, len(dtos))
	keys := make([]models.RemoteKey, 0, len(dtos))

	for i, dto := range dtos {
		if dto == nil {
			continue
		}

		sec, err := m.mapper.MapSection(ctx, dto)
		if err != nil {
			log.From(ctx).Warn("map_section_failed",
				slog.String("op", op),
				slog.Int("page", page),
				slog.Int("index", i),
				slog.String("err", err.Error()),
			)
			continue
		}

		sec = assignKeys(sec, page)
		sections = append(sections, sec)
		keys = append(keys, models.NewRemoteKey(sec.Key, page, totalPages))
	}

	return sections, keys
}

// assignKeys дедуплицирует элементы и проставляет ключи секции и элементов.
func assignKeys(sec models.Section, page int) models.Section {
	sec.Page = page
	sec.Key = models.SectionKey(sec.Name, sec.Order, page)
	sec.LogicalID = models.LogicalSectionID(sec.Name, sec.Order)

	items := models.DedupItems(sec.Items)
	out := make([]models.Item, len(items))
	for i, it := range items {
		it.Key = models.ItemKey(it.ID, sec.Name, page)
		out[i] = it
	}
	sec.Items = out

	return sec
}
