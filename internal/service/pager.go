package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
	"github.com/pribylovaa/go-audio-sections/pkg/log"
)

// ErrPagerClosed — пейджер остановлен, новые загрузки не принимаются.
var ErrPagerClosed = errors.New("pager closed")

// Loader — одна загрузка направления. Реализуется *Mediator.
type Loader interface {
	Load(ctx context.Context, lt models.LoadType, st State) (LoadResult, error)
}

// LoadStatus — состояние направления загрузки.
type LoadStatus string

const (
	StatusIdle    LoadStatus = "idle"
	StatusLoading LoadStatus = "loading"
	StatusError   LoadStatus = "error"
)

// LoadState — состояние одного направления.
type LoadState struct {
	Status LoadStatus `json:"status"`
	// Kind заполнен только при StatusError.
	Kind                   dataerr.Kind `json:"kind,omitempty"`
	EndOfPaginationReached bool         `json:"end_of_pagination_reached"`
}

// LoadStates — состояния всех трёх направлений.
type LoadStates struct {
	Refresh LoadState `json:"refresh"`
	Prepend LoadState `json:"prepend"`
	Append  LoadState `json:"append"`
}

// PagerOptions — настройки пейджера.
type PagerOptions struct {
	// DefaultLimit/MaxLimit нормализуют лимит чтения кэша.
	DefaultLimit int32
	MaxLimit     int32
}

// Pager управляет загрузками медиатора и отдаёт чтение кэша.
//
// Особенности:
//   - одна загрузка на направление: повторные вызовы во время загрузки
//     получают её результат (singleflight);
//   - вызовы медиатора сериализуются: в каждый момент выполняется одна загрузка;
//   - REFRESH отменяет выполняющиеся APPEND/PREPEND;
//   - автоматических повторов нет: Retry вызывается явно.
type Pager struct {
	loader  Loader
	storage storage.SectionsStorage
	opts    PagerOptions

	group  singleflight.Group
	loadMu sync.Mutex

	baseCtx context.Context
	stop    context.CancelFunc

	mu      sync.Mutex
	states  map[models.LoadType]LoadState
	cancels map[models.LoadType]context.CancelFunc
	anchor  string
	subs    map[int]chan struct{}
	nextSub int
}

// NewPager создаёт пейджер. Все направления стартуют в idle.
func NewPager(loader Loader, st storage.SectionsStorage, opts PagerOptions) *Pager {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	p := &Pager{
		loader:  loader,
		storage: st,
		opts:    opts,
		baseCtx: ctx,
		stop:    cancel,
		states:  make(map[models.LoadType]LoadState, 3),
		cancels: make(map[models.LoadType]context.CancelFunc, 3),
		subs:    make(map[int]chan struct{}),
	}
	for _, lt := range []models.LoadType{models.LoadRefresh, models.LoadPrepend, models.LoadAppend} {
		p.states[lt] = LoadState{Status: StatusIdle}
	}

	return p
}

// Close отменяет все выполняющиеся загрузки и закрывает подписки.
func (p *Pager) Close() {
	p.stop()

	p.mu.Lock()
	defer p.mu.Unlock()

	for id, ch := range p.subs {
		close(ch)
		delete(p.subs, id)
	}
}

// Refresh — полная пересинхронизация кэша.
func (p *Pager) Refresh(ctx context.Context) (LoadResult, error) {
	return p.Load(ctx, models.LoadRefresh)
}

// Append — подгрузка следующей страницы.
func (p *Pager) Append(ctx context.Context) (LoadResult, error) {
	return p.Load(ctx, models.LoadAppend)
}

// Prepend — подгрузка предыдущей страницы.
func (p *Pager) Prepend(ctx context.Context) (LoadResult, error) {
	return p.Load(ctx, models.LoadPrepend)
}

// SetAnchor запоминает ключ секции у текущей позиции прокрутки.
// Используется вариантом медиатора с якорем при REFRESH.
func (p *Pager) SetAnchor(key string) {
	p.mu.Lock()
	p.anchor = key
	p.mu.Unlock()
}

// States возвращает снимок состояний загрузки.
func (p *Pager) States() LoadStates {
	p.mu.Lock()
	defer p.mu.Unlock()

	return LoadStates{
		Refresh: p.states[models.LoadRefresh],
		Prepend: p.states[models.LoadPrepend],
		Append:  p.states[models.LoadAppend],
	}
}

// Subscribe возвращает канал уведомлений об изменении кэша или состояний.
// Уведомления схлопываются: канал с буфером 1 не блокирует загрузки.
// Возвращаемая функция отписывает и закрывает канал.
func (p *Pager) Subscribe() (<-chan struct{}, func()) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch := make(chan struct{}, 1)
	if p.baseCtx.Err() != nil {
		close(ch)
		return ch, func() {}
	}

	id := p.nextSub
	p.nextSub++
	p.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if c, ok := p.subs[id]; ok {
				close(c)
				delete(p.subs, id)
			}
		})
	}
}

// Load выполняет загрузку направления lt.
// Ошибка загрузки возвращается как *dataerr.Error и отражается в States.
func (p *Pager) Load(ctx context.Context, lt models.LoadType) (LoadResult, error) {
	const op = "service.pager.Load"

	if p.baseCtx.Err() != nil {
		return LoadResult{}, fmt.Errorf("%s: %w", op, ErrPagerClosed)
	}

	ch := p.group.DoChan(lt.String(), func() (any, error) {
		return p.run(ctx, lt)
	})

	select {
	case <-ctx.Done():
		return LoadResult{}, fmt.Errorf("%s: %w", op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return LoadResult{}, res.Err
		}
		return res.Val.(LoadResult), nil
	}
}

// run — тело загрузки внутри singleflight.
// Контекст загрузки наследует логгер вызывающего, но отменяется
// только пейджером: уход одного из ожидающих не прерывает общую загрузку.
func (p *Pager) run(callerCtx context.Context, lt models.LoadType) (LoadResult, error) {
	const op = "service.pager.run"

	loadCtx, cancel := context.WithCancel(log.Into(p.baseCtx, log.From(callerCtx)))
	defer cancel()

	p.mu.Lock()
	if lt == models.LoadRefresh {
		for dir, c := range p.cancels {
			if dir != models.LoadRefresh {
				c()
			}
		}
	}
	p.cancels[lt] = cancel
	prev := p.states[lt]
	p.states[lt] = LoadState{Status: StatusLoading, EndOfPaginationReached: prev.EndOfPaginationReached}
	p.mu.Unlock()
	p.notify()

	p.loadMu.Lock()
	var (
		res LoadResult
		err error
	)
	if cerr := loadCtx.Err(); cerr != nil {
		err = cerr
	} else {
		res, err = p.loader.Load(loadCtx, lt, p.mediatorState())
	}
	p.loadMu.Unlock()

	p.mu.Lock()
	delete(p.cancels, lt)
	switch {
	case err == nil:
		p.states[lt] = LoadState{Status: StatusIdle, EndOfPaginationReached: res.EndOfPaginationReached}
		if lt == models.LoadRefresh {
			// Кэш заменён целиком: границы пагинации известны заново.
			// Направление, ждущее своей очереди за REFRESH, остаётся в loading.
			for _, dir := range []models.LoadType{models.LoadAppend, models.LoadPrepend} {
				status := StatusIdle
				if _, running := p.cancels[dir]; running {
					status = StatusLoading
				}
				p.states[dir] = LoadState{Status: status}
			}
		}
	case loadCtx.Err() != nil:
		// Отменено REFRESH или закрытием пейджера: это не ошибка направления.
		p.states[lt] = LoadState{Status: StatusIdle, EndOfPaginationReached: prev.EndOfPaginationReached}
	default:
		derr := dataerr.Wrap(err)
		p.states[lt] = LoadState{Status: StatusError, Kind: derr.Kind, EndOfPaginationReached: prev.EndOfPaginationReached}
		err = derr
	}
	p.mu.Unlock()
	p.notify()

	if err != nil {
		if loadCtx.Err() != nil {
			log.From(loadCtx).Info("pager_load_cancelled", slog.String("op", op), slog.String("direction", lt.String()))
			return LoadResult{}, fmt.Errorf("%s: %s: %w", op, lt, context.Canceled)
		}
		return LoadResult{}, err
	}

	return res, nil
}

func (p *Pager) mediatorState() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return State{AnchorKey: p.anchor}
}

// Retry повторяет направления в состоянии ошибки: сначала REFRESH.
// Если REFRESH снова завершился ошибкой, остальные направления не трогаются.
func (p *Pager) Retry(ctx context.Context) error {
	const op = "service.pager.Retry"

	states := p.States()

	if states.Refresh.Status == StatusError {
		if _, err := p.Refresh(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}

	var firstErr error
	if states.Prepend.Status == StatusError {
		if _, err := p.Prepend(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if states.Append.Status == StatusError {
		if _, err := p.Append(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return fmt.Errorf("%s: %w", op, firstErr)
	}

	return nil
}

// notify будит подписчиков без блокировки.
func (p *Pager) notify() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, ch := range p.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
