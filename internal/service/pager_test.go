package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/mapper"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
	"github.com/pribylovaa/go-audio-sections/internal/storage/sqlite"
	"github.com/stretchr/testify/require"
)

// Тесты пейджера:
//  - на реальном SQLite и фейковом remote: 3 страницы по 5 секций,
//    ошибка сети не меняет кэш, чтения во время REFRESH не видят
//    промежуточного состояния, APPEND после последней страницы без сети;
//  - на фейковом Loader: singleflight, отмена APPEND при REFRESH, Retry, подписки.

// fakeRemote — удалённый источник с totalPages страницами по perPage секций.
type fakeRemote struct {
	mu         sync.Mutex
	calls      []int
	totalPages int
	perPage    int
	items      int
	err        error
}

func (f *fakeRemote) FetchSections(_ context.Context, page int) (*remote.HomeResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, page)
	if f.err != nil {
		return nil, f.err
	}

	resp := &remote.HomeResponse{Pagination: remote.Pagination{TotalPages: f.totalPages}}
	for i := 0; i < f.perPage; i++ {
		content := make([]map[string]json.RawMessage, 0, f.items)
		for j := 0; j < f.items; j++ {
			content = append(content, map[string]json.RawMessage{
				"episode_id": json.RawMessage(fmt.Sprintf(`"e%d"`, j)),
				"name":       json.RawMessage(`"ep"`),
			})
		}
		resp.Sections = append(resp.Sections, &remote.SectionDTO{
			Name:        fmt.Sprintf("S%d", i),
			Type:        "queue",
			ContentType: "episode",
			Order:       json.RawMessage(fmt.Sprint(i)),
			Content:     content,
		})
	}

	return resp, nil
}

func (f *fakeRemote) set(fn func(f *fakeRemote)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newSQLitePager(t *testing.T, rm Remote) (*Pager, *sqlite.Storage) {
	t.Helper()

	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	med := NewMediator(rm, mapper.New(), st, MediatorOptions{})
	p := NewPager(med, st, PagerOptions{DefaultLimit: 10, MaxLimit: 100})
	t.Cleanup(p.Close)

	return p, st
}

// TestPager_AppendUntilLastPage — три страницы по 5 секций, четвёртый APPEND без сети.
func TestPager_AppendUntilLastPage(t *testing.T) {
	t.Parallel()

	rm := &fakeRemote{totalPages: 3, perPage: 5, items: 2}
	p, _ := newSQLitePager(t, rm)
	ctx := context.Background()

	res, err := p.Refresh(ctx)
	require.NoError(t, err)
	require.False(t, res.EndOfPaginationReached)

	res, err = p.Append(ctx)
	require.NoError(t, err)
	require.False(t, res.EndOfPaginationReached)

	res, err = p.Append(ctx)
	require.NoError(t, err)
	require.True(t, res.EndOfPaginationReached)

	res, err = p.Append(ctx)
	require.NoError(t, err)
	require.True(t, res.EndOfPaginationReached)
	require.Equal(t, []int{1, 2, 3}, rm.calls)

	page, err := p.Sections(ctx, models.ListOptions{Limit: 100})
	require.NoError(t, err)
	require.Len(t, page.Items, 15)
	for i, sec := range page.Items {
		require.Equal(t, i/5+1, sec.Page, "section %d", i)
		require.Equal(t, i%5, sec.Order, "section %d", i)
		require.Len(t, sec.Items, 2)
	}

	states := p.States()
	require.Equal(t, StatusIdle, states.Append.Status)
	require.True(t, states.Append.EndOfPaginationReached)
}

// TestPager_NetworkErrorKeepsCache — ошибка "Unable to resolve host": NETWORK_UNAVAILABLE, кэш не тронут.
func TestPager_NetworkErrorKeepsCache(t *testing.T) {
	t.Parallel()

	rm := &fakeRemote{totalPages: 2, perPage: 3, items: 1}
	p, st := newSQLitePager(t, rm)
	ctx := context.Background()

	_, err := p.Refresh(ctx)
	require.NoError(t, err)
	before, err := p.Sections(ctx, models.ListOptions{Limit: 100})
	require.NoError(t, err)

	rm.set(func(f *fakeRemote) { f.err = errors.New(`Unable to resolve host "api.example": No address associated with hostname`) })

	_, err = p.Refresh(ctx)
	require.Error(t, err)
	var derr *dataerr.Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, dataerr.NetworkUnavailable, derr.Kind)

	states := p.States()
	require.Equal(t, StatusError, states.Refresh.Status)
	require.Equal(t, dataerr.NetworkUnavailable, states.Refresh.Kind)

	after, err := p.Sections(ctx, models.ListOptions{Limit: 100})
	require.NoError(t, err)
	require.Equal(t, before, after)

	last, err := st.LastRemoteKey(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, *last.NextKey)
}

// TestPager_RefreshAtomicity — конкурентные чтения видят либо старый, либо новый кэш целиком.
func TestPager_RefreshAtomicity(t *testing.T) {
	t.Parallel()

	rm := &fakeRemote{totalPages: 1, perPage: 5, items: 2}
	p, _ := newSQLitePager(t, rm)
	ctx := context.Background()

	_, err := p.Refresh(ctx)
	require.NoError(t, err)

	stop := make(chan struct{})
	var reads atomic.Int64
	var wg sync.WaitGroup
	errs := make(chan error, 4)

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}

				page, err := p.Sections(ctx, models.ListOptions{Limit: 100})
				if err != nil {
					errs <- err
					return
				}
				if len(page.Items) != 5 {
					errs <- fmt.Errorf("torn read: %d sections", len(page.Items))
					return
				}
				n := len(page.Items[0].Items)
				for _, sec := range page.Items {
					if len(sec.Items) != n || (n != 2 && n != 3) {
						errs <- fmt.Errorf("torn read: section %s has %d items, first has %d", sec.Key, len(sec.Items), n)
						return
					}
				}
				reads.Add(1)
			}
		}()
	}

	for i := 0; i < 20; i++ {
		items := 2 + i%2
		rm.set(func(f *fakeRemote) { f.items = items })
		_, err := p.Refresh(ctx)
		require.NoError(t, err)
	}

	close(stop)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Positive(t, reads.Load())
}

// TestPager_Sections_Queries — нормализация лимита, битый курсор, поиск по ключу.
func TestPager_Sections_Queries(t *testing.T) {
	t.Parallel()

	rm := &fakeRemote{totalPages: 1, perPage: 3, items: 1}
	p, _ := newSQLitePager(t, rm)
	ctx := context.Background()

	_, err := p.Refresh(ctx)
	require.NoError(t, err)

	page, err := p.Sections(ctx, models.ListOptions{Limit: 0})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.Empty(t, page.NextPageToken)

	_, err = p.Sections(ctx, models.ListOptions{Limit: 2, PageToken: "garbage"})
	require.ErrorIs(t, err, ErrInvalidCursor)

	sec, err := p.SectionByKey(ctx, "S1_1_1")
	require.NoError(t, err)
	require.Equal(t, "S1", sec.Name)

	_, err = p.SectionByKey(ctx, "nope_0_1")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = p.SectionByKey(ctx, "  ")
	require.ErrorIs(t, err, ErrInvalidArgument)

	n, err := p.CachedCount(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

// fakeLoader — управляемый Loader для проверки координации пейджера.
type fakeLoader struct {
	mu      sync.Mutex
	calls   map[models.LoadType]int
	block   map[models.LoadType]chan struct{}
	started chan models.LoadType
	fail    map[models.LoadType]error
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{
		calls:   make(map[models.LoadType]int),
		block:   make(map[models.LoadType]chan struct{}),
		started: make(chan models.LoadType, 16),
		fail:    make(map[models.LoadType]error),
	}
}

func (f *fakeLoader) Load(ctx context.Context, lt models.LoadType, _ State) (LoadResult, error) {
	f.mu.Lock()
	f.calls[lt]++
	block := f.block[lt]
	err := f.fail[lt]
	f.mu.Unlock()

	f.started <- lt

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return LoadResult{}, dataerr.Wrap(ctx.Err())
		}
	}
	if err != nil {
		return LoadResult{}, err
	}

	return LoadResult{EndOfPaginationReached: lt != models.LoadRefresh}, nil
}

func (f *fakeLoader) count(lt models.LoadType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[lt]
}

func waitStarted(t *testing.T, f *fakeLoader, want models.LoadType) {
	t.Helper()
	select {
	case lt := <-f.started:
		require.Equal(t, want, lt)
	case <-time.After(2 * time.Second):
		t.Fatalf("load %s did not start", want)
	}
}

// TestPager_SingleFlightPerDirection — два APPEND во время загрузки -> один вызов.
func TestPager_SingleFlightPerDirection(t *testing.T) {
	t.Parallel()

	fl := newFakeLoader()
	release := make(chan struct{})
	fl.block[models.LoadAppend] = release

	p := NewPager(fl, nil, PagerOptions{})
	t.Cleanup(p.Close)

	var wg sync.WaitGroup
	results := make([]LoadResult, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = p.Append(context.Background())
	}()
	waitStarted(t, fl, models.LoadAppend)
	require.Equal(t, StatusLoading, p.States().Append.Status)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = p.Append(context.Background())
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.Equal(t, results[0], results[1])
	require.Equal(t, 1, fl.count(models.LoadAppend))
	require.True(t, p.States().Append.EndOfPaginationReached)
}

// TestPager_RefreshCancelsAppend — REFRESH отменяет выполняющийся APPEND.
func TestPager_RefreshCancelsAppend(t *testing.T) {
	t.Parallel()

	fl := newFakeLoader()
	fl.block[models.LoadAppend] = make(chan struct{})

	p := NewPager(fl, nil, PagerOptions{})
	t.Cleanup(p.Close)

	appendErr := make(chan error, 1)
	go func() {
		_, err := p.Append(context.Background())
		appendErr <- err
	}()
	waitStarted(t, fl, models.LoadAppend)

	_, err := p.Refresh(context.Background())
	require.NoError(t, err)

	select {
	case err := <-appendErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("append was not cancelled")
	}

	states := p.States()
	require.Equal(t, StatusIdle, states.Append.Status)
	require.Equal(t, StatusIdle, states.Refresh.Status)
}

// TestPager_AppendQueuedBehindRefreshStaysLoading — APPEND, ждущий завершения
// REFRESH, после успешного REFRESH по-прежнему отражается как loading.
func TestPager_AppendQueuedBehindRefreshStaysLoading(t *testing.T) {
	t.Parallel()

	fl := newFakeLoader()
	releaseRefresh := make(chan struct{})
	releaseAppend := make(chan struct{})
	fl.block[models.LoadRefresh] = releaseRefresh
	fl.block[models.LoadAppend] = releaseAppend

	p := NewPager(fl, nil, PagerOptions{})
	t.Cleanup(p.Close)

	refreshErr := make(chan error, 1)
	go func() {
		_, err := p.Refresh(context.Background())
		refreshErr <- err
	}()
	waitStarted(t, fl, models.LoadRefresh)

	appendErr := make(chan error, 1)
	go func() {
		_, err := p.Append(context.Background())
		appendErr <- err
	}()
	require.Eventually(t, func() bool {
		return p.States().Append.Status == StatusLoading
	}, 2*time.Second, 5*time.Millisecond)

	close(releaseRefresh)
	require.NoError(t, <-refreshErr)
	waitStarted(t, fl, models.LoadAppend)

	states := p.States()
	require.Equal(t, StatusIdle, states.Refresh.Status)
	require.Equal(t, StatusLoading, states.Append.Status)
	require.False(t, states.Append.EndOfPaginationReached)
	require.Equal(t, StatusIdle, states.Prepend.Status)

	close(releaseAppend)
	require.NoError(t, <-appendErr)

	states = p.States()
	require.Equal(t, StatusIdle, states.Append.Status)
	require.True(t, states.Append.EndOfPaginationReached)
}

// TestPager_Retry — Retry повторяет REFRESH в ошибке, затем состояния чистые.
func TestPager_Retry(t *testing.T) {
	t.Parallel()

	fl := newFakeLoader()
	fl.fail[models.LoadRefresh] = dataerr.Wrap(errors.New("i/o timeout"))

	p := NewPager(fl, nil, PagerOptions{})
	t.Cleanup(p.Close)

	_, err := p.Refresh(context.Background())
	require.Error(t, err)
	require.Equal(t, StatusError, p.States().Refresh.Status)
	require.Equal(t, dataerr.RequestTimeout, p.States().Refresh.Kind)

	// Retry без изменений -> та же ошибка.
	require.Error(t, p.Retry(context.Background()))

	fl.mu.Lock()
	delete(fl.fail, models.LoadRefresh)
	fl.mu.Unlock()

	require.NoError(t, p.Retry(context.Background()))
	require.Equal(t, StatusIdle, p.States().Refresh.Status)
	require.Equal(t, 3, fl.count(models.LoadRefresh))

	// Нечего повторять -> вызовов нет.
	require.NoError(t, p.Retry(context.Background()))
	require.Equal(t, 3, fl.count(models.LoadRefresh))
	require.Zero(t, fl.count(models.LoadAppend))
}

// TestPager_Subscribe — уведомления приходят, отписка закрывает канал.
func TestPager_Subscribe(t *testing.T) {
	t.Parallel()

	fl := newFakeLoader()
	p := NewPager(fl, nil, PagerOptions{})
	t.Cleanup(p.Close)

	ch, unsubscribe := p.Subscribe()

	_, err := p.Refresh(context.Background())
	require.NoError(t, err)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no change notification")
	}

	unsubscribe()
	unsubscribe()

	for range ch {
	}
}

// TestPager_Closed — после Close загрузки отклоняются.
func TestPager_Closed(t *testing.T) {
	t.Parallel()

	p := NewPager(newFakeLoader(), nil, PagerOptions{})
	p.Close()

	_, err := p.Append(context.Background())
	require.ErrorIs(t, err, ErrPagerClosed)

	ch, _ := p.Subscribe()
	_, ok := <-ch
	require.False(t, ok)
}
