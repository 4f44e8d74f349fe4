package models

import (
	"fmt"

	"github.com/google/uuid"
)

// LoadType — направление загрузки медиатора.
type LoadType int

const (
	// LoadRefresh — полная пересинхронизация кэша.
	LoadRefresh LoadType = iota
	// LoadPrepend — подгрузка «выше» текущей позиции.
	LoadPrepend
	// LoadAppend — подгрузка «ниже» (бесконечная прокрутка).
	LoadAppend
)

// String возвращает имя направления для логов, метрик и HTTP.
func (t LoadType) String() string {
	switch t {
	case LoadRefresh:
		return "refresh"
	case LoadPrepend:
		return "prepend"
	case LoadAppend:
		return "append"
	default:
		return fmt.Sprintf("load_type(%d)", int(t))
	}
}

// RemoteKey — курсоры соседних удалённых страниц для секции.
// nil в PrevKey/NextKey — соседней страницы нет.
type RemoteKey struct {
	SectionKey string
	PrevKey    *int
	NextKey    *int
}

// NewRemoteKey строит запись курсоров для секции со страницы page:
// prev = page-1 (нет для первой), next = page+1 (нет при page >= totalPages).
func NewRemoteKey(sectionKey string, page, totalPages int) RemoteKey {
	rk := RemoteKey{SectionKey: sectionKey}
	if page > 1 {
		prev := page - 1
		rk.PrevKey = &prev
	}
	if page < totalPages {
		next := page + 1
		rk.NextKey = &next
	}

	return rk
}

// SectionKey — составной ключ секции в кэше: name_order_page.
func SectionKey(name string, order, page int) string {
	return fmt.Sprintf("%s_%d_%d", name, order, page)
}

// ItemKey — составной ключ элемента в кэше: itemId_sectionName_page.
func ItemKey(itemID, sectionName string, page int) string {
	return fmt.Sprintf("%s_%s_%d", itemID, sectionName, page)
}

// sectionNamespace — пространство имён UUIDv5 для логических секций.
var sectionNamespace = uuid.MustParse("5b0c7a52-3c55-4c3e-9f0b-1d0a6e7c2f10")

// LogicalSectionID — детерминированный идентификатор логической секции.
// Одна и та же (name, order) на разных страницах получает один и тот же ID.
func LogicalSectionID(name string, order int) uuid.UUID {
	return uuid.NewSHA1(sectionNamespace, []byte(fmt.Sprintf("%s|%d", name, order)))
}

// ListOptions — параметры чтения кэша.
//
// Особенности:
//   - при Limit == 0 применяется серверный default (config.LimitsConfig.Default);
//   - PageToken == "" -> первая страница.
type ListOptions struct {
	Limit     int32
	PageToken string
}

// SectionPage — страница секций из кэша со ссылкой на продолжение.
type SectionPage struct {
	Items         []Section
	NextPageToken string
}
