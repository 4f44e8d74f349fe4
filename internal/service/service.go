// service содержит бизнес-логику сервиса секций: медиатор страниц,
// пейджер с состояниями загрузки и поток поиска.
package service

//go:generate mockgen -destination=../../mocks/remote_mock.go -package=mocks github.com/pribylovaa/go-audio-sections/internal/service Remote,SearchAPI

import (
	"context"
	"errors"
	"time"

	"github.com/pribylovaa/go-audio-sections/internal/models"
	"github.com/pribylovaa/go-audio-sections/internal/remote"
)

var (
	// ErrNotFound — сущность отсутствует.
	// Транспорт: 404.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCursor — битый/чужой page_token.
	// Транспорт: 400.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidArgument — некорректные входные аргументы.
	// Транспорт: 400.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Remote — источник страниц ленты секций.
type Remote interface {
	FetchSections(ctx context.Context, page int) (*remote.HomeResponse, error)
}

// SearchAPI — удалённый поиск.
type SearchAPI interface {
	Search(ctx context.Context, keyword string) (*remote.HomeResponse, error)
}

// SectionMapper — преобразование DTO в доменную секцию.
type SectionMapper interface {
	MapSection(ctx context.Context, dto *remote.SectionDTO) (models.Section, error)
}

// Metrics — приёмник метрик. Реализуется internal/metrics.
type Metrics interface {
	ObserveLoad(direction, result string, d time.Duration)
	ObserveSearch(result string, d time.Duration)
	SetCachedSections(n int)
}

type nopMetrics struct{}

func (nopMetrics) ObserveLoad(string, string, time.Duration) {}
func (nopMetrics) ObserveSearch(string, time.Duration)       {}
func (nopMetrics) SetCachedSections(int)                     {}
