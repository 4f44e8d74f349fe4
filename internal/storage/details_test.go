package storage

import (
	"testing"

	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/stretchr/testify/require"
)

// TestItemDetails_ByKind — детали кладутся и читаются по тегу варианта.
func TestItemDetails_ByKind(t *testing.T) {
	t.Parallel()

	score := 4.5
	prio := 2
	in := models.Item{
		Kind:    models.ContentPodcast,
		Podcast: &models.PodcastDetails{EpisodeCount: 12, Language: "ar", Priority: &prio, PopularityScore: 7, Score: &score},
	}

	raw, err := EncodeItemDetails(in)
	require.NoError(t, err)

	out := models.Item{Kind: models.ContentPodcast}
	require.NoError(t, DecodeItemDetails(raw, &out))
	require.Equal(t, in.Podcast, out.Podcast)
	require.Nil(t, out.Episode)
}

// TestItemDetails_EmptyAndUnknown — пустые детали и UNKNOWN дают "{}" и ничего не заполняют.
func TestItemDetails_EmptyAndUnknown(t *testing.T) {
	t.Parallel()

	raw, err := EncodeItemDetails(models.Item{Kind: models.ContentEpisode})
	require.NoError(t, err)
	require.Equal(t, "{}", string(raw))

	raw, err = EncodeItemDetails(models.Item{Kind: models.ContentUnknown})
	require.NoError(t, err)
	require.Equal(t, "{}", string(raw))

	out := models.Item{Kind: models.ContentUnknown}
	require.NoError(t, DecodeItemDetails([]byte("{}"), &out))
	require.Nil(t, out.Podcast)
}
