// Package service реализует операции журнала и агрегацию статистики
// поверх хранилища.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/category"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/log"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/repository"
)

// Ledger выполняет атомарные операции записи и удаления, привязанные к
// одному внутреннему идентификатору пользователя.
type Ledger struct {
	repo        repository.Repository
	categories  *category.Registry
	defaultZone *time.Location
	logger      *log.Logger

	now func() time.Time
}

func NewLedger(repo repository.Repository, categories *category.Registry, defaultZone *time.Location, logger *log.Logger) *Ledger {
	return &Ledger{
		repo:        repo,
		categories:  categories,
		defaultZone: defaultZone,
		logger:      logger.WithComponent("ledger"),
		now:         time.Now,
	}
}

// Record добавляет одну запись. Сумма обязана быть положительной,
// категория — допустимой для вида записи.
func (l *Ledger) Record(ctx context.Context, userID int64, kind model.Kind, categoryName string, amount decimal.Decimal, description string) (int64, error) {
	if !amount.IsPositive() {
		return 0, ErrInvalidAmount
	}
	if !l.categories.IsValid(categoryName, kind) {
		return 0, fmt.Errorf("%w: %s (%s)", ErrUnknownCategory, categoryName, kind)
	}

	loc, err := l.Location(ctx, userID)
	if err != nil {
		return 0, err
	}
	t := &model.Transaction{
		UserID:      userID,
		Amount:      amount,
		Category:    categoryName,
		Description: description,
		Date:        l.now().In(loc),
	}
	id, err := l.repo.CreateTransaction(ctx, kind, t)
	if err != nil {
		return 0, fmt.Errorf("record %s: %w", kind, err)
	}
	l.logger.Info("transaction recorded",
		"user_id", userID, "kind", kind, "id", id, "category", categoryName)
	return id, nil
}

// DeleteByID удаляет не более одной записи, сначала среди расходов, затем
// среди доходов. Чужие записи недостижимы: выборка всегда ограничена
// userID. Отсутствующий id — ErrNotFound, не отказ.
func (l *Ledger) DeleteByID(ctx context.Context, userID, id int64) (model.Kind, error) {
	for _, kind := range []model.Kind{model.KindExpense, model.KindIncome} {
		found, err := l.repo.DeleteTransaction(ctx, kind, userID, id)
		if err != nil {
			return "", fmt.Errorf("delete %s %d: %w", kind, id, err)
		}
		if found {
			l.logger.Info("transaction deleted", "user_id", userID, "kind", kind, "id", id)
			return kind, nil
		}
	}
	return "", ErrNotFound
}

// ResetAll необратимо удаляет все записи пользователя.
func (l *Ledger) ResetAll(ctx context.Context, userID int64) error {
	if err := l.repo.DeleteAllTransactions(ctx, userID); err != nil {
		return fmt.Errorf("reset all: %w", err)
	}
	l.logger.Info("ledger reset", "user_id", userID)
	return nil
}

// Location возвращает настроенную зону пользователя, зону по умолчанию
// при её отсутствии и UTC, если в хранилище оказалось невалидное имя.
func (l *Ledger) Location(ctx context.Context, userID int64) (*time.Location, error) {
	zone, err := l.repo.Timezone(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get timezone: %w", err)
	}
	if zone == "" {
		return l.defaultZone, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		l.logger.Warn("invalid stored timezone, falling back to UTC",
			"user_id", userID, "timezone", zone)
		return time.UTC, nil
	}
	return loc, nil
}

// SetTimezone валидирует и сохраняет имя зоны IANA. В хранилище попадают
// только проверенные имена.
func (l *Ledger) SetTimezone(ctx context.Context, userID int64, zone string) error {
	if _, err := time.LoadLocation(zone); err != nil || zone == "" {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, zone)
	}
	if err := l.repo.SetTimezone(ctx, userID, zone); err != nil {
		return fmt.Errorf("set timezone: %w", err)
	}
	return nil
}

// ExportRecord — пара (вид, запись) для выгрузки.
type ExportRecord struct {
	Kind        model.Kind
	Transaction model.Transaction
}

// ExportAll возвращает все записи пользователя: сначала расходы, затем
// доходы, внутри вида — по возрастанию id. Пустой журнал — пустой срез.
func (l *Ledger) ExportAll(ctx context.Context, userID int64) ([]ExportRecord, error) {
	loc, err := l.Location(ctx, userID)
	if err != nil {
		return nil, err
	}

	var out []ExportRecord
	for _, kind := range []model.Kind{model.KindExpense, model.KindIncome} {
		txs, err := l.repo.AllTransactions(ctx, kind, userID, loc)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", kind, err)
		}
		for _, t := range txs {
			out = append(out, ExportRecord{Kind: kind, Transaction: t})
		}
	}
	return out, nil
}
