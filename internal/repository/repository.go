package repository

import (
	"context"
	"time"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
)

// Repository — контракт хранилища для всех долговечных коллекций:
// расходы, доходы, категории, настройки пользователей и соответствие
// внешних идентификаторов внутренним.
type Repository interface {
	// Транзакции. Все операции ограничены одним внутренним user id.
	CreateTransaction(ctx context.Context, kind model.Kind, t *model.Transaction) (int64, error)
	DeleteTransaction(ctx context.Context, kind model.Kind, userID, id int64) (bool, error)
	DeleteAllTransactions(ctx context.Context, userID int64) error
	TransactionsSince(ctx context.Context, kind model.Kind, userID int64, since time.Time) ([]model.Transaction, error)
	AllTransactions(ctx context.Context, kind model.Kind, userID int64, loc *time.Location) ([]model.Transaction, error)

	// Категории.
	Categories(ctx context.Context) ([]model.Category, error)
	SeedCategories(ctx context.Context, categories []model.Category) error

	// Настройки пользователя. Timezone возвращает пустую строку, если
	// зона не настроена.
	Timezone(ctx context.Context, userID int64) (string, error)
	SetTimezone(ctx context.Context, userID int64, zone string) error

	// Соответствие идентификаторов.
	InternalID(ctx context.Context, externalID int64) (int64, bool, error)
	CreateInternalID(ctx context.Context, externalID int64) (int64, error)
	BackfillInternalIDs(ctx context.Context) error
}
