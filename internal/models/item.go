package models

// Item — элемент контента. Тегированное объединение: Kind определяет,
// какое из полей деталей заполнено (ровно одно, либо ни одного для UNKNOWN).
type Item struct {
	// Key — ключ строки в кэше: itemId_sectionName_page.
	Key string
	// Kind — тег варианта.
	Kind ContentType
	// ID — идентификатор из API (podcast_id, episode_id, audiobook_id, article_id).
	ID string
	// Name — название.
	Name string
	// Description — описание без HTML.
	Description string
	// AvatarURL — ссылка на обложку.
	AvatarURL string
	// DurationSeconds — длительность в секундах, 0 — неизвестна.
	DurationSeconds int

	Podcast      *PodcastDetails
	Episode      *EpisodeDetails
	AudioBook    *AudioBookDetails
	AudioArticle *AudioArticleDetails
}

// PodcastDetails — поля, специфичные для подкаста.
type PodcastDetails struct {
	EpisodeCount    int      `json:"episode_count"`
	Language        string   `json:"language,omitempty"`
	Priority        *int     `json:"priority,omitempty"`
	PopularityScore int      `json:"popularity_score"`
	Score           *float64 `json:"score,omitempty"`
}

// EpisodeDetails — поля, специфичные для эпизода.
type EpisodeDetails struct {
	PodcastID   string   `json:"podcast_id"`
	PodcastName string   `json:"podcast_name"`
	AudioURL    string   `json:"audio_url"`
	ReleaseDate string   `json:"release_date"`
	EpisodeType string   `json:"episode_type"`
	Score       *float64 `json:"score,omitempty"`
}

// AudioBookDetails — поля, специфичные для аудиокниги.
type AudioBookDetails struct {
	AuthorName  string   `json:"author_name"`
	Language    string   `json:"language,omitempty"`
	ReleaseDate string   `json:"release_date"`
	Score       *float64 `json:"score,omitempty"`
}

// AudioArticleDetails — поля, специфичные для аудиостатьи.
type AudioArticleDetails struct {
	AuthorName  string   `json:"author_name"`
	ReleaseDate string   `json:"release_date"`
	Score       *float64 `json:"score,omitempty"`
}

// DedupItems убирает повторы по ID, сохраняя первое вхождение и порядок.
func DedupItems(items []Item) []Item {
	if len(items) == 0 {
		return items
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ID]; ok {
			continue
		}
		seen[it.ID] = struct{}{}
		out = append(out, it)
	}

	return out
}
