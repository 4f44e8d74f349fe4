package storage

import (
	"encoding/json"
	"fmt"

	"github.com/pribylovaa/go-audio-sections/internal/models"
)

// EncodeItemDetails сериализует поля варианта элемента в JSON для колонки details.
// Для UNKNOWN и пустых деталей возвращает "{}".
func EncodeItemDetails(it models.Item) ([]byte, error) {
	var v any
	switch it.Kind {
	case models.ContentPodcast:
		v = it.Podcast
	case models.ContentEpisode:
		v = it.Episode
	case models.ContentAudioBook:
		v = it.AudioBook
	case models.ContentAudioArticle:
		v = it.AudioArticle
	}

	if v == nil {
		return []byte("{}"), nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode item details: %w", err)
	}
	if string(b) == "null" {
		return []byte("{}"), nil
	}

	return b, nil
}

// DecodeItemDetails восстанавливает поля варианта по тегу it.Kind.
func DecodeItemDetails(raw []byte, it *models.Item) error {
	if len(raw) == 0 {
		return nil
	}

	var target any
	switch it.Kind {
	case models.ContentPodcast:
		it.Podcast = &models.PodcastDetails{}
		target = it.Podcast
	case models.ContentEpisode:
		it.Episode = &models.EpisodeDetails{}
		target = it.Episode
	case models.ContentAudioBook:
		it.AudioBook = &models.AudioBookDetails{}
		target = it.AudioBook
	case models.ContentAudioArticle:
		it.AudioArticle = &models.AudioArticleDetails{}
		target = it.AudioArticle
	default:
		return nil
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode item details: %w", err)
	}

	return nil
}
