package handlers

import (
	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/service"
)

// Section — секция в ответе API.
type Section struct {
	Key         string `json:"key,omitempty"`
	LogicalID   string `json:"logical_id"`
	Name        string `json:"name"`
	Order       int    `json:"order"`
	Layout      string `json:"layout"`
	ContentType string `json:"content_type"`
	Page        int    `json:"page,omitempty"`
	Items       []Item `json:"items"`
}

// Item — элемент секции в ответе API. Заполнено не более одного блока деталей.
type Item struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	AvatarURL       string `json:"avatar_url,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`

	Podcast      *models.PodcastDetails      `json:"podcast,omitempty"`
	Episode      *models.EpisodeDetails      `json:"episode,omitempty"`
	AudioBook    *models.AudioBookDetails    `json:"audio_book,omitempty"`
	AudioArticle *models.AudioArticleDetails `json:"audio_article,omitempty"`
}

// SectionsListResponse — страница кэша и состояния загрузок.
type SectionsListResponse struct {
	Items         []Section          `json:"items"`
	NextPageToken string             `json:"next_page_token"`
	States        service.LoadStates `json:"states"`
}

// SectionGetResponse — одна секция кэша.
type SectionGetResponse struct {
	Item Section `json:"item"`
}

// StateResponse — состояния загрузок и размер кэша.
type StateResponse struct {
	States         service.LoadStates `json:"states"`
	CachedSections int                `json:"cached_sections"`
}

// LoadResponse — итог загрузки одного направления.
type LoadResponse struct {
	Direction              string             `json:"direction"`
	EndOfPaginationReached bool               `json:"end_of_pagination_reached"`
	States                 service.LoadStates `json:"states"`
}

// SearchResponse — результат поиска.
type SearchResponse struct {
	Query string    `json:"query"`
	Items []Section `json:"items"`
}

func sectionFromModel(s models.Section) Section {
	out := Section{
		Key:         s.Key,
		LogicalID:   s.LogicalID.String(),
		Name:        s.Name,
		Order:       s.Order,
		Layout:      string(s.Layout),
		ContentType: string(s.ContentType),
		Page:        s.Page,
		Items:       make([]Item, 0, len(s.Items)),
	}

	for _, it := range s.Items {
		out.Items = append(out.Items, Item{
			ID:              it.ID,
			Type:            string(it.Kind),
			Name:            it.Name,
			Description:     it.Description,
			AvatarURL:       it.AvatarURL,
			DurationSeconds: it.DurationSeconds,
			Podcast:         it.Podcast,
			Episode:         it.Episode,
			AudioBook:       it.AudioBook,
			AudioArticle:    it.AudioArticle,
		})
	}

	return out
}

func sectionsFromModels(in []models.Section) []Section {
	out := make([]Section, 0, len(in))
	for _, s := range in {
		out = append(out, sectionFromModel(s))
	}

	return out
}
