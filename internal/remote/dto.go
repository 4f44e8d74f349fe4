package remote

import "encoding/json"

// HomeResponse — ответ /home_sections и /search.
// Элементы Sections могут быть null: потребитель обязан их отбрасывать.
type HomeResponse struct {
	Sections   []*SectionDTO `json:"sections"`
	Pagination Pagination    `json:"pagination"`
}

// Pagination — метаданные страницы.
type Pagination struct {
	// NextPage — путь следующей страницы (например, "/home_sections?page=2"), null на последней.
	NextPage *string `json:"next_page"`
	// TotalPages — всего страниц.
	TotalPages int `json:"total_pages"`
}

// SectionDTO — «сырая» секция.
//
// Поля намеренно слабо типизированы: order приходит числом или строкой,
// состав content зависит от content_type и разбирается маппером.
type SectionDTO struct {
	Name        string                       `json:"name"`
	Type        string                       `json:"type"`
	ContentType string                       `json:"content_type"`
	Order       json.RawMessage              `json:"order"`
	Content     []map[string]json.RawMessage `json:"content"`
}
