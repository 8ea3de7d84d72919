package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
)

// fixedClock позволяет двигать "сейчас" между записями.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

func newTestReporter(t *testing.T, now time.Time, dayStartHour int) (*Ledger, *Reporter, *fixedClock) {
	t.Helper()
	ledger, repo := newTestLedger(t)
	clock := &fixedClock{t: now}
	ledger.now = clock.Now
	reporter := NewReporter(repo, ledger, dayStartHour)
	reporter.now = clock.Now
	return ledger, reporter, clock
}

func findWindow(t *testing.T, report *Report, title string) Window {
	t.Helper()
	for _, w := range report.Windows {
		if w.Title == title {
			return w
		}
	}
	t.Fatalf("window %q not found", title)
	return Window{}
}

func wantTotal(t *testing.T, w Window, expenses string) {
	t.Helper()
	if w.TotalExpenses.String() != expenses {
		t.Fatalf("window %q: expected expense total %s, got %s", w.Title, expenses, w.TotalExpenses)
	}
}

func TestSummarizeWindows(t *testing.T) {
	// Среда 12 марта, 15:00. День начинается в 04:00.
	now := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)
	ledger, reporter, clock := newTestReporter(t, now, 4)
	ctx := context.Background()

	record := func(at time.Time, kind model.Kind, cat, amount string) {
		t.Helper()
		clock.t = at
		d, _ := decimal.NewFromString(amount)
		if _, err := ledger.Record(ctx, 1, kind, cat, d, "x"); err != nil {
			t.Fatalf("record at %s: %v", at, err)
		}
	}

	record(now, model.KindExpense, "Еда", "200")                                                       // все окна
	record(time.Date(2025, time.March, 12, 2, 0, 0, 0, time.UTC), model.KindExpense, "Еда", "1")       // до 04:00 — не день
	record(time.Date(2025, time.March, 10, 1, 0, 0, 0, time.UTC), model.KindExpense, "Транспорт", "2") // понедельник — неделя
	record(time.Date(2025, time.March, 2, 12, 0, 0, 0, time.UTC), model.KindExpense, "Еда", "4")       // месяц
	record(time.Date(2025, time.January, 5, 12, 0, 0, 0, time.UTC), model.KindExpense, "Прочее", "8")  // только год
	record(now, model.KindIncome, "Зарплата", "1000")

	clock.t = now
	report, err := reporter.Summarize(ctx, 1, false)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if report.Empty() {
		t.Fatal("report must not be empty")
	}

	wantTotal(t, findWindow(t, report, "день"), "200")
	wantTotal(t, findWindow(t, report, "неделю"), "203")
	wantTotal(t, findWindow(t, report, "месяц"), "207")
	year := findWindow(t, report, "год")
	wantTotal(t, year, "215")
	if year.TotalIncomes.String() != "1000" {
		t.Fatalf("expected year incomes 1000, got %s", year.TotalIncomes)
	}
	if year.Balance().String() != "785" {
		t.Fatalf("expected year balance 785, got %s", year.Balance())
	}

	day := findWindow(t, report, "день")
	if len(day.Expenses) != 1 || day.Expenses[0].Name != "Еда" {
		t.Fatalf("day window must contain only Еда, got %+v", day.Expenses)
	}
}

func TestSummarizeDayStartRollback(t *testing.T) {
	// 02:00 при начале дня в 04:00: окно дня тянется со вчерашних 04:00.
	now := time.Date(2025, time.March, 12, 2, 0, 0, 0, time.UTC)
	ledger, reporter, clock := newTestReporter(t, now, 4)
	ctx := context.Background()

	clock.t = time.Date(2025, time.March, 11, 5, 0, 0, 0, time.UTC)
	d, _ := decimal.NewFromString("50")
	if _, err := ledger.Record(ctx, 1, model.KindExpense, "Еда", d, "x"); err != nil {
		t.Fatalf("record: %v", err)
	}

	clock.t = now
	report, err := reporter.Summarize(ctx, 1, false)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	wantTotal(t, findWindow(t, report, "день"), "50")
}

func TestSummarizeDetailed(t *testing.T) {
	now := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)
	ledger, reporter, clock := newTestReporter(t, now, 4)
	ctx := context.Background()

	record := func(at time.Time, amount string) {
		t.Helper()
		clock.t = at
		d, _ := decimal.NewFromString(amount)
		if _, err := ledger.Record(ctx, 1, model.KindExpense, "Еда", d, "x"); err != nil {
			t.Fatalf("record: %v", err)
		}
	}
	record(time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC), "10")
	record(time.Date(2025, time.March, 12, 12, 0, 0, 0, time.UTC), "20")
	record(time.Date(2025, time.January, 5, 12, 0, 0, 0, time.UTC), "30")

	clock.t = now
	report, err := reporter.Summarize(ctx, 1, true)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	week := findWindow(t, report, "неделю")
	if len(week.Days) != 2 {
		t.Fatalf("expected 2 active days, got %d: %+v", len(week.Days), week.Days)
	}
	if week.Days[0].Label != "2025-03-10" || week.Days[1].Label != "2025-03-12" {
		t.Fatalf("days must be ascending, got %+v", week.Days)
	}
	if week.Days[1].Expenses.String() != "20" {
		t.Fatalf("expected 20 on 2025-03-12, got %s", week.Days[1].Expenses)
	}

	year := findWindow(t, report, "год")
	if len(year.Months) != 2 {
		t.Fatalf("expected 2 active months, got %d", len(year.Months))
	}
	if year.Months[0].Label != "2025-01" || year.Months[1].Label != "2025-03" {
		t.Fatalf("months must be ascending, got %+v", year.Months)
	}

	// Недетальный отчёт не несёт разбивки.
	plain, err := reporter.Summarize(ctx, 1, false)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if w := findWindow(t, plain, "неделю"); len(w.Days) != 0 {
		t.Fatalf("plain report must not carry days, got %+v", w.Days)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	now := time.Date(2025, time.March, 12, 15, 0, 0, 0, time.UTC)
	_, reporter, _ := newTestReporter(t, now, 4)

	report, err := reporter.Summarize(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !report.Empty() {
		t.Fatal("report of fresh ledger must be empty")
	}
	if len(report.Windows) != 4 {
		t.Fatalf("expected 4 windows, got %d", len(report.Windows))
	}
}
