package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/service"
)

func TestCSV(t *testing.T) {
	amount, _ := decimal.NewFromString("199.99")
	salary, _ := decimal.NewFromString("1000.505")
	date := time.Date(2025, time.March, 12, 15, 4, 5, 0, time.UTC)

	records := []service.ExportRecord{
		{
			Kind: model.KindExpense,
			Transaction: model.Transaction{
				ID: 1, UserID: 7, Amount: amount,
				Category: "Еда", Description: "Обед", Date: date,
			},
		},
		{
			Kind: model.KindIncome,
			Transaction: model.Transaction{
				ID: 1, UserID: 7, Amount: salary,
				Category: "Зарплата", Description: "март", Date: date,
			},
		},
	}

	data, err := CSV(records)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}

	if !bytes.HasPrefix(data, []byte("\xef\xbb\xbf")) {
		t.Fatal("output must start with UTF-8 BOM")
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.Comma = ';'
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(rows))
	}

	wantHeader := "id;ИД_пользователя;Сумма;Категория;Описание;Дата;Тип"
	if got := strings.Join(rows[0], ";"); got != wantHeader {
		t.Fatalf("header mismatch:\n got %s\nwant %s", got, wantHeader)
	}

	expense := rows[1]
	if expense[2] != "199.99" || expense[3] != "Еда" || expense[6] != "расход" {
		t.Fatalf("unexpected expense row: %v", expense)
	}
	if expense[5] != "2025-03-12 15:04:05" {
		t.Fatalf("unexpected date format: %s", expense[5])
	}

	income := rows[2]
	// Сумма выгружается без усечения до двух знаков.
	if income[2] != "1000.505" || income[6] != "доход" {
		t.Fatalf("unexpected income row: %v", income)
	}
}

func TestCSVEmpty(t *testing.T) {
	data, err := CSV(nil)
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	content := strings.TrimPrefix(string(data), "\xef\xbb\xbf")
	if strings.Count(content, "\n") != 1 {
		t.Fatalf("empty export must contain only the header, got %q", content)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(42); got != "транзакции_42.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
