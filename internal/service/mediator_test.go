package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pribylovaa/go-audio-sections/internal/dataerr"
	"github.com/pribylovaa/go-audio-sections/internal/mapper"
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
	"github.com/pribylovaa/go-audio-sections/internal/storage"
	"github.com/pribylovaa/go-audio-sections/mocks"
	"github.com/stretchr/testify/require"
)

// Unit-тесты медиатора (mediator.go) на моках стораджа и remote:
//  - REFRESH: очистка, ключи, курсоры, отбрасывание битых/null секций, дедуп;
//  - APPEND: конец без сети при отсутствии курсора и при next == nil;
//  - APPEND: замена страницы (DeletePage) и end при page >= totalPages;
//  - PREPEND: простой вариант и вариант с якорем;
//  - REFRESH с якорем: страница nextKey-1;
//  - ошибки сети/сохранения -> *dataerr.Error, запись не выполняется.

func intp(v int) *int { return &v }

// dto — секция подкастов с элементами ids.
func dto(name string, order int, ids ...string) *remote.SectionDTO {
	content := make([]map[string]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		content = append(content, map[string]json.RawMessage{
			"podcast_id": json.RawMessage(`"` + id + `"`),
			"name":       json.RawMessage(`"` + name + "-" + id + `"`),
		})
	}

	return &remote.SectionDTO{
		Name:        name,
		Type:        "square",
		ContentType: "podcast",
		Order:       json.RawMessage(itoa(order)),
		Content:     content,
	}
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func response(totalPages int, sections ...*remote.SectionDTO) *remote.HomeResponse {
	return &remote.HomeResponse{Sections: sections, Pagination: remote.Pagination{TotalPages: totalPages}}
}

type mediatorDeps struct {
	st *mocks.MockStorage
	tx *mocks.MockTx
	rm *mocks.MockRemote
}

func newMediatorForTest(t *testing.T, anchorAware bool) (*Mediator, mediatorDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)
	d := mediatorDeps{
		st: mocks.NewMockStorage(ctrl),
		tx: mocks.NewMockTx(ctrl),
		rm: mocks.NewMockRemote(ctrl),
	}

	m := NewMediator(d.rm, mapper.New(), d.st, MediatorOptions{AnchorAware: anchorAware})

	return m, d
}

// expectTx — InTx вызывает fn с мок-транзакцией.
func (d mediatorDeps) expectTx() *gomock.Call {
	return d.st.EXPECT().InTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, storage.Tx) error) error {
			return fn(ctx, d.tx)
		})
}

// TestLoad_Refresh_ClearsAndSaves — REFRESH: страница 1, очистка, ключи, курсоры, дедуп.
func TestLoad_Refresh_ClearsAndSaves(t *testing.T) {
	t.Parallel()

	m, d := newMediatorForTest(t, false)

	d.rm.EXPECT().FetchSections(gomock.Any(), 1).
		Return(response(3, dto("Top", 1, "p1", "p2", "p1"), nil, &remote.SectionDTO{Name: " "}, dto("New", 2, "p3")), nil)

	gomock.InOrder(
		d.expectTx(),
		d.tx.EXPECT().ClearAll(gomock.Any()).Return(nil),
		d.tx.EXPECT().SaveRemoteKeys(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, keys []models.RemoteKey) error {
				require.Len(t, keys, 2)
				require.Equal(t, "Top_1_1", keys[0].SectionKey)
				require.Nil(t, keys[0].PrevKey)
				require.Equal(t, 2, *keys[0].NextKey)
				return nil
			}),
		d.tx.EXPECT().SaveSections(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, secs []models.Section) error {
				require.Len(t, secs, 2)
				top := secs[0]
				require.Equal(t, "Top_1_1", top.Key)
				require.Equal(t, 1, top.Page)
				require.Equal(t, models.LogicalSectionID("Top", 1), top.LogicalID)
				require.Len(t, top.Items, 2)
				require.Equal(t, "p1_Top_1", top.Items[0].Key)
				require.Equal(t, "Top-p1", top.Items[0].Name)
				require.Equal(t, "p2_Top_1", top.Items[1].Key)
				require.Equal(t, "New_2_1", secs[1].Key)
				return nil
			}),
		d.st.EXPECT().CountSections(gomock.Any()).Return(2, nil),
	)

	res, err := m.Load(context.Background(), models.LoadRefresh, State{})
	require.NoError(t, err)
	require.False(t, res.EndOfPaginationReached)
}

// TestLoad_Append_NoKey_EndWithoutNetwork — нет курсоров -> конец, сеть не трогаем.
func TestLoad_Append_NoKey_EndWithoutNetwork(t *testing.T) {
	t.Parallel()

	m, d := newMediatorForTest(t, false)
	d.st.EXPECT().LastRemoteKey(gomock.Any()).Return(nil, storage.ErrNotFound)

	res, err := m.Load(context.Background(), models.LoadAppend, State{})
	require.NoError(t, err)
	require.True(t, res.EndOfPaginationReached)
}

// TestLoad_Append_NextNil_EndWithoutNetwork — next == nil у последней секции -> конец.
func TestLoad_Append_NextNil_EndWithoutNetwork(t *testing.T) {
	t.Parallel()

	m, d := newMediatorForTest(t, false)
	d.st.EXPECT().RemoteKeyBySection(gomock.Any(), "Top_1_3").
		Return(&models.RemoteKey{SectionKey: "Top_1_3", PrevKey: intp(2)}, nil)

	res, err := m.Load(context.Background(), models.LoadAppend, State{LastKey: "Top_1_3"})
	require.NoError(t, err)
	require.True(t, res.EndOfPaginationReached)
}

// TestLoad_Append_ReplacesPage — APPEND: страница из next, DeletePage, end на последней.
func TestLoad_Append_ReplacesPage(t *testing.T) {
	t.Parallel()

	m, d := newMediatorForTest(t, false)

	d.st.EXPECT().LastRemoteKey(gomock.Any()).
		Return(&models.RemoteKey{SectionKey: "Top_1_2", PrevKey: intp(1), NextKey: intp(3)}, nil)
	d.rm.EXPECT().FetchSections(gomock.Any(), 3).Return(response(3, dto("Last", 0, "x")), nil)

	gomock.InOrder(
		d.expectTx(),
		d.tx.EXPECT().DeletePage(gomock.Any(), 3).Return(nil),
		d.tx.EXPECT().SaveRemoteKeys(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, keys []models.RemoteKey) error {
				require.Equal(t, 2, *keys[0].PrevKey)
				require.Nil(t, keys[0].NextKey)
				return nil
			}),
		d.tx.EXPECT().SaveSections(gomock.Any(), gomock.Any()).Return(nil),
		d.st.EXPECT().CountSections(gomock.Any()).Return(11, nil),
	)

	res, err := m.Load(context.Background(), models.LoadAppend, State{})
	require.NoError(t, err)
	require.True(t, res.EndOfPaginationReached)
}

// TestLoad_Prepend_Simple — простой вариант: конец без обращений.
func TestLoad_Prepend_Simple(t *testing.T) {
	t.Parallel()

	m, _ := newMediatorForTest(t, false)

	res, err := m.Load(context.Background(), models.LoadPrepend, State{FirstKey: "Top_1_2"})
	require.NoError(t, err)
	require.True(t, res.EndOfPaginationReached)
}

// TestLoad_Prepend_AnchorAware — конец только когда курсор есть и prev == nil.
func TestLoad_Prepend_AnchorAware(t *testing.T) {
	t.Parallel()

	t.Run("no key yet", func(t *testing.T) {
		m, d := newMediatorForTest(t, true)
		d.st.EXPECT().FirstRemoteKey(gomock.Any()).Return(nil, storage.ErrNotFound)

		res, err := m.Load(context.Background(), models.LoadPrepend, State{})
		require.NoError(t, err)
		require.False(t, res.EndOfPaginationReached)
	})

	t.Run("first page", func(t *testing.T) {
		m, d := newMediatorForTest(t, true)
		d.st.EXPECT().FirstRemoteKey(gomock.Any()).
			Return(&models.RemoteKey{SectionKey: "Top_1_1", NextKey: intp(2)}, nil)

		res, err := m.Load(context.Background(), models.LoadPrepend, State{})
		require.NoError(t, err)
		require.True(t, res.EndOfPaginationReached)
	})

	t.Run("previous page", func(t *testing.T) {
		m, d := newMediatorForTest(t, true)
		d.st.EXPECT().FirstRemoteKey(gomock.Any()).
			Return(&models.RemoteKey{SectionKey: "Top_1_2", PrevKey: intp(1), NextKey: intp(3)}, nil)
		d.rm.EXPECT().FetchSections(gomock.Any(), 1).Return(response(3, dto("Top", 1, "a")), nil)
		d.expectTx()
		d.tx.EXPECT().DeletePage(gomock.Any(), 1).Return(nil)
		d.tx.EXPECT().SaveRemoteKeys(gomock.Any(), gomock.Any()).Return(nil)
		d.tx.EXPECT().SaveSections(gomock.Any(), gomock.Any()).Return(nil)
		d.st.EXPECT().CountSections(gomock.Any()).Return(2, nil)

		res, err := m.Load(context.Background(), models.LoadPrepend, State{})
		require.NoError(t, err)
		require.False(t, res.EndOfPaginationReached)
	})
}

// TestLoad_Refresh_AnchorAware — REFRESH от якоря: страница nextKey-1, нет якоря -> 1.
func TestLoad_Refresh_AnchorAware(t *testing.T) {
	t.Parallel()

	m, d := newMediatorForTest(t, true)

	d.st.EXPECT().RemoteKeyBySection(gomock.Any(), "Mid_0_2").
		Return(&models.RemoteKey{SectionKey: "Mid_0_2", PrevKey: intp(1), NextKey: intp(3)}, nil)
	d.rm.EXPECT().FetchSections(gomock.Any(), 2).Return(response(3, dto("Mid", 0, "m")), nil)
	d.expectTx()
	d.tx.EXPECT().ClearAll(gomock.Any()).Return(nil)
	d.tx.EXPECT().SaveRemoteKeys(gomock.Any(), gomock.Any()).Return(nil)
	d.tx.EXPECT().SaveSections(gomock.Any(), gomock.Any()).Return(nil)
	d.st.EXPECT().CountSections(gomock.Any()).Return(1, nil)

	res, err := m.Load(context.Background(), models.LoadRefresh, State{AnchorKey: "Mid_0_2"})
	require.NoError(t, err)
	require.False(t, res.EndOfPaginationReached)
}

// TestLoad_FetchError_Classified — ошибка сети классифицируется, запись не выполняется.
func TestLoad_FetchError_Classified(t *testing.T) {
	t.Parallel()

	m, d := newMediatorForTest(t, false)
	d.rm.EXPECT().FetchSections(gomock.Any(), 1).
		Return(nil, errors.New(`Unable to resolve host "api.example"`))

	_, err := m.Load(context.Background(), models.LoadRefresh, State{})
	require.Error(t, err)

	var derr *dataerr.Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, dataerr.NetworkUnavailable, derr.Kind)
}

// TestLoad_SaveError_RollsBackAndClassifies — ошибка транзакции -> *dataerr.Error.
func TestLoad_SaveError_RollsBackAndClassifies(t *testing.T) {
	t.Parallel()

	m, d := newMediatorForTest(t, false)
	boom := errors.New("disk full")

	d.rm.EXPECT().FetchSections(gomock.Any(), 1).Return(response(1, dto("Top", 1, "a")), nil)
	d.expectTx()
	d.tx.EXPECT().ClearAll(gomock.Any()).Return(nil)
	d.tx.EXPECT().SaveRemoteKeys(gomock.Any(), gomock.Any()).Return(boom)

	_, err := m.Load(context.Background(), models.LoadRefresh, State{})
	require.ErrorIs(t, err, boom)

	var derr *dataerr.Error
	require.True(t, errors.As(err, &derr))
	require.Equal(t, dataerr.UnexpectedError, derr.Kind)
}
