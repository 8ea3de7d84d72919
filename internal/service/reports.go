package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/repository"
)

// Reporter считает статистику по четырём окнам относительно "сейчас" в
// зоне пользователя: день, неделя, месяц, год.
type Reporter struct {
	repo   repository.Repository
	ledger *Ledger
	// dayStartHour — час начала "дня"; если текущий час меньше, окно дня
	// откатывается на календарные сутки назад.
	dayStartHour int

	now func() time.Time
}

func NewReporter(repo repository.Repository, ledger *Ledger, dayStartHour int) *Reporter {
	return &Reporter{
		repo:         repo,
		ledger:       ledger,
		dayStartHour: dayStartHour,
		now:          time.Now,
	}
}

// CategoryTotal — сумма по одной категории внутри окна.
type CategoryTotal struct {
	Name string
	Sum  decimal.Decimal
}

// SubPeriod — итоги одного календарного дня или месяца в детальном режиме.
type SubPeriod struct {
	Label    string
	Expenses decimal.Decimal
	Incomes  decimal.Decimal
}

func (s SubPeriod) Balance() decimal.Decimal {
	return s.Incomes.Sub(s.Expenses)
}

// Window — итоги одного именованного окна. Категории без активности
// опущены.
type Window struct {
	Title         string
	Start         time.Time
	Expenses      []CategoryTotal
	Incomes       []CategoryTotal
	TotalExpenses decimal.Decimal
	TotalIncomes  decimal.Decimal

	// Детальный режим: разбивка недели по дням и года по месяцам,
	// только активные подпериоды, по возрастанию.
	Days   []SubPeriod
	Months []SubPeriod
}

func (w Window) Balance() decimal.Decimal {
	return w.TotalIncomes.Sub(w.TotalExpenses)
}

// Empty сообщает, что в окне не было ни расходов, ни доходов.
func (w Window) Empty() bool {
	return len(w.Expenses) == 0 && len(w.Incomes) == 0
}

// Report — итоги всех четырёх окон одного запроса.
type Report struct {
	Windows  []Window
	Detailed bool
}

// Empty — явный признак "нет данных" по всем окнам сразу, а не по
// последнему посчитанному.
func (r *Report) Empty() bool {
	for _, w := range r.Windows {
		if !w.Empty() {
			return false
		}
	}
	return true
}

// Summarize строит отчёт для пользователя. Данные выбираются одним
// запросом на вид с самой ранней границы и агрегируются в памяти по
// каждому окну.
func (r *Reporter) Summarize(ctx context.Context, userID int64, detailed bool) (*Report, error) {
	loc, err := r.ledger.Location(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := r.now().In(loc)

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), r.dayStartHour, 0, 0, 0, loc)
	if now.Hour() < r.dayStartHour {
		dayStart = dayStart.AddDate(0, 0, -1)
	}
	monday := now.AddDate(0, 0, -int((now.Weekday()+6)%7))
	weekStart := time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, r.dayStartHour, 0, 0, 0, loc)
	yearStart := time.Date(now.Year(), time.January, 1, r.dayStartHour, 0, 0, 0, loc)

	// Начало недели в первые дни января может лежать в прошлом году.
	earliest := yearStart
	for _, s := range []time.Time{dayStart, weekStart, monthStart} {
		if s.Before(earliest) {
			earliest = s
		}
	}

	expenses, err := r.repo.TransactionsSince(ctx, model.KindExpense, userID, earliest)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	incomes, err := r.repo.TransactionsSince(ctx, model.KindIncome, userID, earliest)
	if err != nil {
		return nil, fmt.Errorf("load incomes: %w", err)
	}

	report := &Report{Detailed: detailed}
	windows := []struct {
		title string
		start time.Time
	}{
		{"день", dayStart},
		{"неделю", weekStart},
		{"месяц", monthStart},
		{"год", yearStart},
	}
	for _, wd := range windows {
		w := buildWindow(wd.title, wd.start, expenses, incomes)
		if detailed {
			switch wd.title {
			case "неделю":
				w.Days = groupSubPeriods(w.Start, expenses, incomes, "2006-01-02")
			case "год":
				w.Months = groupSubPeriods(w.Start, expenses, incomes, "2006-01")
			}
		}
		report.Windows = append(report.Windows, w)
	}
	return report, nil
}

func buildWindow(title string, start time.Time, expenses, incomes []model.Transaction) Window {
	w := Window{Title: title, Start: start}
	w.Expenses, w.TotalExpenses = sumByCategory(start, expenses)
	w.Incomes, w.TotalIncomes = sumByCategory(start, incomes)
	return w
}

func sumByCategory(start time.Time, txs []model.Transaction) ([]CategoryTotal, decimal.Decimal) {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, t := range txs {
		if t.Date.Before(start) {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
		total = total.Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(sums))
	for name, sum := range sums {
		out = append(out, CategoryTotal{Name: name, Sum: sum})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, total
}

func groupSubPeriods(start time.Time, expenses, incomes []model.Transaction, layout string) []SubPeriod {
	byLabel := make(map[string]*SubPeriod)
	get := func(label string) *SubPeriod {
		p, ok := byLabel[label]
		if !ok {
			p = &SubPeriod{Label: label}
			byLabel[label] = p
		}
		return p
	}
	for _, t := range expenses {
		if t.Date.Before(start) {
			continue
		}
		p := get(t.Date.Format(layout))
		p.Expenses = p.Expenses.Add(t.Amount)
	}
	for _, t := range incomes {
		if t.Date.Before(start) {
			continue
		}
		p := get(t.Date.Format(layout))
		p.Incomes = p.Incomes.Add(t.Amount)
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]SubPeriod, 0, len(labels))
	for _, label := range labels {
		out = append(out, *byLabel[label])
	}
	return out
}
