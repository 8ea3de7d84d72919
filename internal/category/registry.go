// Package category хранит общепроцессный список допустимых категорий.
// Реестр читается из хранилища один раз при старте и после этого
// неизменяем.
package category

import (
	"context"
	"fmt"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
)

// Store — часть хранилища, нужная реестру.
type Store interface {
	Categories(ctx context.Context) ([]model.Category, error)
	SeedCategories(ctx context.Context, categories []model.Category) error
}

// Defaults — начальный набор категорий для пустого хранилища.
var Defaults = []model.Category{
	{Name: "Еда", Kind: model.KindExpense},
	{Name: "Транспорт", Kind: model.KindExpense},
	{Name: "Развлечения", Kind: model.KindExpense},
	{Name: "Коммуналка", Kind: model.KindExpense},
	{Name: "Прочее", Kind: model.KindExpense},
	{Name: "Зарплата", Kind: model.KindIncome},
	{Name: "Инвестиции", Kind: model.KindIncome},
	{Name: "Подарки", Kind: model.KindIncome},
}

type Registry struct {
	byKind map[model.Kind][]string
	valid  map[model.Kind]map[string]bool
}

// Load читает категории из хранилища, при пустом хранилище сначала сеет
// Defaults. Порядок имён — порядок вставки.
func Load(ctx context.Context, store Store) (*Registry, error) {
	cats, err := store.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if len(cats) == 0 {
		if err := store.SeedCategories(ctx, Defaults); err != nil {
			return nil, fmt.Errorf("seed categories: %w", err)
		}
		cats, err = store.Categories(ctx)
		if err != nil {
			return nil, fmt.Errorf("reload categories: %w", err)
		}
	}

	r := &Registry{
		byKind: make(map[model.Kind][]string),
		valid:  make(map[model.Kind]map[string]bool),
	}
	for _, c := range cats {
		r.byKind[c.Kind] = append(r.byKind[c.Kind], c.Name)
		if r.valid[c.Kind] == nil {
			r.valid[c.Kind] = make(map[string]bool)
		}
		r.valid[c.Kind][c.Name] = true
	}
	return r, nil
}

// Names возвращает имена категорий вида в порядке вставки.
func (r *Registry) Names(kind model.Kind) []string {
	return r.byKind[kind]
}

// IsValid сообщает, допустима ли категория для данного вида.
func (r *Registry) IsValid(name string, kind model.Kind) bool {
	return r.valid[kind][name]
}
