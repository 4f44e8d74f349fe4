package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-audio-sections/internal/models"
)

var errMissingID = errors.New("missing id")

type baseDTO struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	AvatarURL   string     `json:"avatar_url"`
	Duration    flexNumber `json:"duration"`
	Score       flexNumber `json:"score"`
}

type podcastDTO struct {
	baseDTO
	PodcastID       string     `json:"podcast_id"`
	EpisodeCount    flexNumber `json:"episode_count"`
	Language        string     `json:"language"`
	Priority        flexNumber `json:"priority"`
	PopularityScore flexNumber `json:"popularityScore"`
}

type episodeDTO struct {
	baseDTO
	EpisodeID   string `json:"episode_id"`
	EpisodeType string `json:"episode_type"`
	PodcastID   string `json:"podcast_id"`
	PodcastName string `json:"podcast_name"`
	AudioURL    string `json:"audio_url"`
	ReleaseDate string `json:"release_date"`
}

type audioBookDTO struct {
	baseDTO
	AudioBookID string `json:"audiobook_id"`
	AuthorName  string `json:"author_name"`
	Language    string `json:"language"`
	ReleaseDate string `json:"release_date"`
}

type audioArticleDTO struct {
	baseDTO
	ArticleID   string `json:"article_id"`
	AuthorName  string `json:"author_name"`
	ReleaseDate string `json:"release_date"`
}

// mapItem разбирает элемент по типу секции.
// Для UNKNOWN возвращает ошибку: элементы без типа не сохраняются.
func mapItem(ctype models.ContentType, raw map[string]json.RawMessage) (models.Item, error) {
	if raw == nil {
		return models.Item{}, errors.New("null item")
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return models.Item{}, err
	}

	switch ctype {
	case models.ContentPodcast:
		var dto podcastDTO
		if err := json.Unmarshal(b, &dto); err != nil {
			return models.Item{}, err
		}
		it, err := baseItem(ctype, dto.PodcastID, dto.baseDTO)
		if err != nil {
			return models.Item{}, err
		}
		it.Podcast = &models.PodcastDetails{
			EpisodeCount:    dto.EpisodeCount.intOr(0),
			Language:        strings.TrimSpace(dto.Language),
			Priority:        dto.Priority.intPtr(),
			PopularityScore: dto.PopularityScore.intOr(0),
			Score:           dto.Score.floatPtr(),
		}
		return it, nil

	case models.ContentEpisode:
		var dto episodeDTO
		if err := json.Unmarshal(b, &dto); err != nil {
			return models.Item{}, err
		}
		it, err := baseItem(ctype, dto.EpisodeID, dto.baseDTO)
		if err != nil {
			return models.Item{}, err
		}
		it.Episode = &models.EpisodeDetails{
			PodcastID:   dto.PodcastID,
			PodcastName: dto.PodcastName,
			AudioURL:    dto.AudioURL,
			ReleaseDate: dto.ReleaseDate,
			EpisodeType: dto.EpisodeType,
			Score:       dto.Score.floatPtr(),
		}
		return it, nil

	case models.ContentAudioBook:
		var dto audioBookDTO
		if err := json.Unmarshal(b, &dto); err != nil {
			return models.Item{}, err
		}
		it, err := baseItem(ctype, dto.AudioBookID, dto.baseDTO)
		if err != nil {
			return models.Item{}, err
		}
		it.AudioBook = &models.AudioBookDetails{
			AuthorName:  dto.AuthorName,
			Language:    strings.TrimSpace(dto.Language),
			ReleaseDate: dto.ReleaseDate,
			Score:       dto.Score.floatPtr(),
		}
		return it, nil

	case models.ContentAudioArticle:
		var dto audioArticleDTO
		if err := json.Unmarshal(b, &dto); err != nil {
			return models.Item{}, err
		}
		it, err := baseItem(ctype, dto.ArticleID, dto.baseDTO)
		if err != nil {
			return models.Item{}, err
		}
		it.AudioArticle = &models.AudioArticleDetails{
			AuthorName:  dto.AuthorName,
			ReleaseDate: dto.ReleaseDate,
			Score:       dto.Score.floatPtr(),
		}
		return it, nil
	}

	return models.Item{}, fmt.Errorf("unsupported content type %s", ctype)
}

func baseItem(ctype models.ContentType, id string, b baseDTO) (models.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.Item{}, errMissingID
	}

	return models.Item{
		Kind:            ctype,
		ID:              id,
		Name:            strings.TrimSpace(b.Name),
		Description:     toPlainText(b.Description),
		AvatarURL:       strings.TrimSpace(b.AvatarURL),
		DurationSeconds: b.Duration.intOr(0),
	}, nil
}
