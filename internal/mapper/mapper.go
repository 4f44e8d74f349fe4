// mapper переводит DTO удалённого источника в доменные секции.
package mapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
	"github.com/pribylovaa/go-audio-sections/pkg/log"
)

// Error — секцию невозможно преобразовать.
type Error struct {
	Section string
	Reason  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("map section %q: %s", e.Section, e.Reason)
}

// ParseFault помечает ошибку как ошибку разбора.
func (e *Error) ParseFault() {}

// Mapper — преобразователь SectionDTO -> models.Section.
// Состояния не хранит, безопасен для конкурентного использования.
type Mapper struct{}

// New создаёт Mapper.
func New() *Mapper {
	return &Mapper{}
}

// MapSection преобразует секцию.
//
// Особенности:
//   - type/content_type нормализуются, неизвестные значения -> UNKNOWN;
//   - при UNKNOWN content_type тип выводится по ключам идентификаторов элементов;
//   - order принимается числом или числовой строкой, иначе 0;
//   - элемент, который не удалось разобрать, отбрасывается с записью в лог;
//   - элементы дедуплицируются по ID (первое вхождение).
//
// Key/Page/LogicalID не заполняются: это делает медиатор.
func (m *Mapper) MapSection(ctx context.Context, dto *remote.SectionDTO) (models.Section, error) {
	const op = "mapper.MapSection"

	if dto == nil {
		return models.Section{}, &Error{Reason: "null section"}
	}

	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return models.Section{}, &Error{Section: dto.Name, Reason: "empty name"}
	}

	layout := models.ParseLayout(dto.Type)
	ctype := models.ParseContentType(dto.ContentType)
	if ctype == models.ContentUnknown {
		ctype = inferContentType(dto.Content)
	}

	items := make([]models.Item, 0, len(dto.Content))
	for i, raw := range dto.Content {
		it, err := mapItem(ctype, raw)
		if err != nil {
			log.From(ctx).Warn("map_item_failed",
				slog.String("op", op),
				slog.String("section", name),
				slog.Int("index", i),
				slog.String("err", err.Error()),
			)
			continue
		}
		items = append(items, it)
	}

	sec := models.Section{
		Name:        name,
		Order:       parseOrder(dto.Order),
		Layout:      layout,
		ContentType: ctype,
		Items:       models.DedupItems(items),
	}

	log.From(ctx).Debug("map_section_ok",
		slog.String("op", op),
		slog.String("section", name),
		slog.String("content_type", string(ctype)),
		slog.Int("items", len(sec.Items)),
	)

	return sec, nil
}

// idKeys — ключ идентификатора элемента для каждого известного типа.
var idKeys = []struct {
	key   string
	ctype models.ContentType
}{
	{"podcast_id", models.ContentPodcast},
	{"episode_id", models.ContentEpisode},
	{"audiobook_id", models.ContentAudioBook},
	{"article_id", models.ContentAudioArticle},
}

// inferContentType выбирает первый тип, ключ которого есть у всех элементов.
// Пустой content остаётся UNKNOWN.
func inferContentType(content []map[string]json.RawMessage) models.ContentType {
	if len(content) == 0 {
		return models.ContentUnknown
	}

	for _, k := range idKeys {
		all := true
		for _, item := range content {
			if _, ok := item[k.key]; !ok {
				all = false
				break
			}
		}
		if all {
			return k.ctype
		}
	}

	return models.ContentUnknown
}

// parseOrder принимает целое число или строку с целым числом, иначе 0.
func parseOrder(raw json.RawMessage) int {
	var n flexNumber
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}

	return n.intOr(0)
}
