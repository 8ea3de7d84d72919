package model

// Kind различает расходные и доходные записи.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Category — имя категории в пределах своего вида. Категории неизменяемы
// после начального посева.
type Category struct {
	Name string
	Kind Kind
}

// UserSettings — настройки пользователя, одна строка на пользователя.
type UserSettings struct {
	UserID   int64
	Timezone string
}
