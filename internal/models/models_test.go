package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewRemoteKey — prev/next по номеру страницы и общему числу страниц.
func TestNewRemoteKey(t *testing.T) {
	t.Parallel()

	first := NewRemoteKey("a_1_1", 1, 3)
	require.Nil(t, first.PrevKey)
	require.NotNil(t, first.NextKey)
	require.Equal(t, 2, *first.NextKey)

	mid := NewRemoteKey("a_1_2", 2, 3)
	require.Equal(t, 1, *mid.PrevKey)
	require.Equal(t, 3, *mid.NextKey)

	last := NewRemoteKey("a_1_3", 3, 3)
	require.Equal(t, 2, *last.PrevKey)
	require.Nil(t, last.NextKey)
}

// TestKeys — формат составных ключей.
func TestKeys(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Top Podcasts_1_2", SectionKey("Top Podcasts", 1, 2))
	require.Equal(t, "p42_Top Podcasts_2", ItemKey("p42", "Top Podcasts", 2))
}

// TestLogicalSectionID_IndependentOfPage — один ID для одной (name, order).
func TestLogicalSectionID_IndependentOfPage(t *testing.T) {
	t.Parallel()

	require.Equal(t, LogicalSectionID("Top", 1), LogicalSectionID("Top", 1))
	require.NotEqual(t, LogicalSectionID("Top", 1), LogicalSectionID("Top", 2))
}

// TestDedupItems_KeepsFirstOccurrence — дубликаты по ID отбрасываются, первое вхождение сохраняется.
func TestDedupItems_KeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	in := []Item{
		{ID: "1", Name: "first"},
		{ID: "2", Name: "second"},
		{ID: "1", Name: "dup"},
		{ID: "3", Name: "third"},
		{ID: "2", Name: "dup2"},
	}

	out := DedupItems(in)
	require.Len(t, out, 3)
	require.Equal(t, "first", out[0].Name)
	require.Equal(t, "second", out[1].Name)
	require.Equal(t, "third", out[2].Name)
}

// TestParseLayoutAndContentType — нормализация «сырых» значений API.
func TestParseLayoutAndContentType(t *testing.T) {
	t.Parallel()

	require.Equal(t, LayoutSquare, ParseLayout(" Square "))
	require.Equal(t, LayoutTwoLinesGrid, ParseLayout("2_lines_grid"))
	require.Equal(t, LayoutBigSquare, ParseLayout("big square"))
	require.Equal(t, LayoutBigSquare, ParseLayout("BIG_SQUARE"))
	require.Equal(t, LayoutQueue, ParseLayout("queue"))
	require.Equal(t, LayoutUnknown, ParseLayout("carousel"))

	require.Equal(t, ContentPodcast, ParseContentType("podcast"))
	require.Equal(t, ContentEpisode, ParseContentType("Episode"))
	require.Equal(t, ContentAudioBook, ParseContentType("audio_book"))
	require.Equal(t, ContentAudioArticle, ParseContentType(" audio_article"))
	require.Equal(t, ContentUnknown, ParseContentType("video"))
}

// TestLoadType_String — имена направлений.
func TestLoadType_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "refresh", LoadRefresh.String())
	require.Equal(t, "prepend", LoadPrepend.String())
	require.Equal(t, "append", LoadAppend.String())
}
