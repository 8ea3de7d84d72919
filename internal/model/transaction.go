package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout — формат хранения дат в базе. Даты записываются строкой без
// информации о зоне, в часовом поясе пользователя на момент операции.
const DateLayout = "2006-01-02 15:04:05"

// Transaction — одна запись расхода или дохода. Расходы и доходы имеют
// одинаковую форму и живут в разных таблицах; идентификаторы монотонны
// в пределах своей таблицы.
type Transaction struct {
	ID          int64
	UserID      int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        time.Time
}
