// Package identity сопоставляет внешние идентификаторы мессенджера
// небольшим последовательным внутренним идентификаторам хранилища.
package identity

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/log"
)

// Store — часть хранилища, нужная мапперу.
type Store interface {
	InternalID(ctx context.Context, externalID int64) (int64, bool, error)
	CreateInternalID(ctx context.Context, externalID int64) (int64, error)
	BackfillInternalIDs(ctx context.Context) error
}

// Mapper кэширует разрешённые идентификаторы на время жизни процесса.
// Параллельные первые обращения к одному внешнему id схлопываются в один
// поход в хранилище.
type Mapper struct {
	store  Store
	logger *log.Logger

	group singleflight.Group

	mu    sync.RWMutex
	cache map[int64]int64
}

func NewMapper(store Store, logger *log.Logger) *Mapper {
	return &Mapper{
		store:  store,
		logger: logger.WithComponent("identity"),
		cache:  make(map[int64]int64),
	}
}

// Resolve возвращает внутренний идентификатор, создавая его при первом
// обращении. Ошибка возможна только при отказе хранилища.
func (m *Mapper) Resolve(ctx context.Context, externalID int64) (int64, error) {
	m.mu.RLock()
	id, ok := m.cache[externalID]
	m.mu.RUnlock()
	if ok {
		return id, nil
	}

	v, err, _ := m.group.Do(strconv.FormatInt(externalID, 10), func() (any, error) {
		id, found, err := m.store.InternalID(ctx, externalID)
		if err != nil {
			return nil, fmt.Errorf("lookup mapping: %w", err)
		}
		if !found {
			id, err = m.store.CreateInternalID(ctx, externalID)
			if err != nil {
				return nil, fmt.Errorf("create mapping: %w", err)
			}
			m.logger.Debug("created internal id", "external_id", externalID, "internal_id", id)
		}
		m.mu.Lock()
		m.cache[externalID] = id
		m.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Backfill переводит унаследованные записи с внешних идентификаторов на
// внутренние. Запускается один раз при старте; повторный запуск ничего
// не меняет.
func (m *Mapper) Backfill(ctx context.Context) error {
	if err := m.store.BackfillInternalIDs(ctx); err != nil {
		return fmt.Errorf("backfill internal ids: %w", err)
	}
	return nil
}
