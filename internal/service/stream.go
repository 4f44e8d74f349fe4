package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/pkg/log"
)

// DefaultDebounce — пауза ввода, после которой запрос уходит в сеть.
const DefaultDebounce = 200 * time.Millisecond

// Searcher — один поисковый запрос. Реализуется *Search.
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.Section, error)
}

// Result — исход одного поискового запроса.
// Ровно одно из Sections/Err значимо: Err != nil — ошибка.
type Result struct {
	Query    string
	Sections []models.Section
	Err      *dataerr.Error
}

// StreamOptions — настройки потока поиска.
type StreamOptions struct {
	// Debounce <= 0 -> DefaultDebounce.
	Debounce time.Duration
}

// Stream превращает поток ввода и поток повторов в поток результатов.
type Stream struct {
	searcher Searcher
	debounce time.Duration
}

// NewStream создаёт поток поиска.
func NewStream(s Searcher, opts StreamOptions) *Stream {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	return &Stream{searcher: s, debounce: opts.Debounce}
}

// Normalize обрезает пробелы по краям, схлопывает серии пробелов и приводит к нижнему регистру.
func Normalize(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}

type completion struct {
	gen      uint64
	query    string
	sections []models.Section
	err      error
}

// Run запускает конвейер и возвращает канал результатов.
//
// Этапы: нормализация -> debounce -> отсечение повтора предыдущего значения
// -> объединение с повторами -> переключение на последний запрос (предыдущий
// вызов отменяется) -> пустой запрос даёт пустой успех без сети.
//
// Повтор до первого запроса ничего не делает; после него перезапускает
// текущий запрос. Недоставленный результат заменяется результатом нового
// запроса. Канал закрывается при отмене ctx либо после закрытия queries,
// когда последний запрос завершён и доставлен.
func (s *Stream) Run(ctx context.Context, queries <-chan string, retries <-chan struct{}) <-chan Result {
	out := make(chan Result)
	go s.loop(ctx, queries, retries, out)

	return out
}

func (s *Stream) loop(ctx context.Context, queries <-chan string, retries <-chan struct{}, out chan<- Result) {
	const op = "service.stream.loop"

	lg := log.From(ctx)
	defer close(out)

	timer := time.NewTimer(s.debounce)
	timer.Stop()
	defer timer.Stop()

	var (
		pending    string
		armed      bool
		last       string
		hasLast    bool
		gen        uint64
		inflight   bool
		cancelCall context.CancelFunc = func() {}
		undeliv    Result
		hasUndeliv bool
	)
	defer func() { cancelCall() }()

	done := make(chan completion)
	stop := make(chan struct{})
	defer close(stop)

	dispatch := func(q string) {
		cancelCall()
		gen++
		hasUndeliv = false

		if q == "" {
			inflight = false
			undeliv, hasUndeliv = Result{Query: q, Sections: []models.Section{}}, true
			return
		}

		callCtx, cancel := context.WithCancel(ctx)
		cancelCall = cancel
		inflight = true

		lg.Debug("search_dispatch", slog.String("op", op), slog.String("query", q), slog.Uint64("gen", gen))

		go func(g uint64) {
			secs, err := s.searcher.Search(callCtx, q)
			select {
			case done <- completion{gen: g, query: q, sections: secs, err: err}:
			case <-stop:
			}
		}(gen)
	}

	settle := func() {
		armed = false
		if hasLast && pending == last {
			return
		}
		last, hasLast = pending, true
		dispatch(pending)
	}

	for {
		if queries == nil && !armed && !inflight && !hasUndeliv {
			return
		}

		var outCh chan<- Result
		if hasUndeliv {
			outCh = out
		}

		select {
		case <-ctx.Done():
			return

		case q, ok := <-queries:
			if !ok {
				queries = nil
				if armed {
					timer.Stop()
					settle()
				}
				continue
			}
			pending = Normalize(q)
			armed = true
			timer.Reset(s.debounce)

		case <-timer.C:
			if armed {
				settle()
			}

		case _, ok := <-retries:
			if !ok {
				retries = nil
				continue
			}
			if hasLast {
				lg.Debug("search_retry", slog.String("op", op), slog.String("query", last))
				dispatch(last)
			}

		case c := <-done:
			if c.gen != gen {
				continue
			}
			inflight = false
			cancelCall()
			cancelCall = func() {}

			res := Result{Query: c.query, Sections: c.sections}
			if c.err != nil {
				res = Result{Query: c.query, Err: dataerr.Wrap(c.err)}
			}
			if res.Sections == nil && res.Err == nil {
				res.Sections = []models.Section{}
			}
			undeliv, hasUndeliv = res, true

		case outCh <- undeliv:
			hasUndeliv = false
		}
	}
}
