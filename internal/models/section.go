// models содержит доменные сущности сервиса аудио-секций.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import (
	"strings"

	"github.com/google/uuid"
)

// Layout — подсказка для отображения секции.
type Layout string

const (
	LayoutSquare       Layout = "SQUARE"
	LayoutTwoLinesGrid Layout = "TWO_LINES_GRID"
	LayoutBigSquare    Layout = "BIG_SQUARE"
	LayoutQueue        Layout = "QUEUE"
	LayoutUnknown      Layout = "UNKNOWN"
)

// ContentType — тип контента внутри секции. Он же тег варианта Item.
type ContentType string

const (
	ContentPodcast      ContentType = "PODCAST"
	ContentEpisode      ContentType = "EPISODE"
	ContentAudioBook    ContentType = "AUDIO_BOOK"
	ContentAudioArticle ContentType = "AUDIO_ARTICLE"
	ContentUnknown      ContentType = "UNKNOWN"
)

// ParseLayout нормализует «сырое» значение type из ответа API.
func ParseLayout(raw string) Layout {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "square":
		return LayoutSquare
	case "2_lines_grid":
		return LayoutTwoLinesGrid
	case "big_square", "big square":
		return LayoutBigSquare
	case "queue":
		return LayoutQueue
	default:
		return LayoutUnknown
	}
}

// ParseContentType нормализует «сырое» значение content_type из ответа API.
func ParseContentType(raw string) ContentType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "podcast":
		return ContentPodcast
	case "episode":
		return ContentEpisode
	case "audio_book":
		return ContentAudioBook
	case "audio_article":
		return ContentAudioArticle
	default:
		return ContentUnknown
	}
}

// Section — именованная упорядоченная группа элементов контента.
//
// Особенности:
//   - Name не уникален;
//   - Order — ранг внутри страницы;
//   - Key/Page заполняются медиатором при записи в кэш;
//   - Items уже дедуплицированы по ID.
type Section struct {
	// Key — составной ключ name_order_page (идентичность строки в кэше).
	Key string
	// LogicalID — стабильный идентификатор логической секции (name, order),
	// не зависящий от номера страницы.
	LogicalID uuid.UUID
	// Name — отображаемое название.
	Name string
	// Order — позиция секции внутри своей страницы.
	Order int
	// Layout — подсказка для отображения.
	Layout Layout
	// ContentType — тип элементов секции.
	ContentType ContentType
	// Page — номер удалённой страницы, с которой пришла секция.
	Page int
	// Items — элементы секции в порядке ответа API.
	Items []Item
}
