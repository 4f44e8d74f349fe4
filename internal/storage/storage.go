// storage определяет контракты локального кэша секций.
package storage

//go:generate mockgen -destination=../../mocks/storage_mock.go -package=mocks github.com/pribylovaa/go-audio-sections/internal/storage Storage,Tx

import (
	"context"
	"errors"

	"github.com/pribylovaa/go-audio-sections/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCursor — битый/чужой page_token (курсор пагинации).
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrConflict — нарушение уникальности, которое не покрыто upsert.
	ErrConflict = errors.New("conflict")
)

// SectionsStorage — чтение кэша секций. Только этот путь видит UI.
type SectionsStorage interface {
	// ListSections возвращает страницу секций в порядке (page, order, key) по возрастанию
	// вместе с их элементами. При некорректном page_token — ErrInvalidCursor.
	ListSections(ctx context.Context, opts models.ListOptions) (*models.SectionPage, error)
	// SectionByKey возвращает секцию по составному ключу. Нет записи — ErrNotFound.
	SectionByKey(ctx context.Context, key string) (*models.Section, error)
	// CountSections возвращает число секций в кэше.
	CountSections(ctx context.Context) (int, error)
}

// RemoteKeysStorage — чтение курсоров удалённых страниц.
type RemoteKeysStorage interface {
	// RemoteKeyBySection возвращает курсоры секции. Нет записи — ErrNotFound.
	RemoteKeyBySection(ctx context.Context, sectionKey string) (*models.RemoteKey, error)
	// FirstRemoteKey — курсоры первой секции в порядке чтения. Пустой кэш — ErrNotFound.
	FirstRemoteKey(ctx context.Context) (*models.RemoteKey, error)
	// LastRemoteKey — курсоры последней секции в порядке чтения. Пустой кэш — ErrNotFound.
	LastRemoteKey(ctx context.Context) (*models.RemoteKey, error)
}

// Tx — операции записи, выполняемые внутри одной транзакции.
type Tx interface {
	// ClearAll удаляет секции, элементы и курсоры.
	ClearAll(ctx context.Context) error
	// DeletePage удаляет секции страницы page вместе с их элементами и курсорами.
	DeletePage(ctx context.Context, page int) error
	// SaveSections сохраняет секции и их элементы (replace-on-conflict по ключам).
	SaveSections(ctx context.Context, sections []models.Section) error
	// SaveRemoteKeys сохраняет курсоры (replace-on-conflict по ключу секции).
	SaveRemoteKeys(ctx context.Context, keys []models.RemoteKey) error
}

// Storage задаёт полный контракт локального кэша.
//
// Все многошаговые записи идут через InTx: читатели видят либо состояние
// до транзакции, либо после, но не промежуточное.
type Storage interface {
	SectionsStorage
	RemoteKeysStorage
	// InTx выполняет fn в транзакции. Ошибка fn откатывает все изменения.
	InTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close()
}
