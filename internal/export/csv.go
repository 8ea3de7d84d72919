// Package export формирует выгрузку журнала в CSV: разделитель ';',
// UTF-8 с BOM, локализованные заголовки, оба вида записей в одном файле
// с колонкой-дискриминатором.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/service"
)

var header = []string{"id", "ИД_пользователя", "Сумма", "Категория", "Описание", "Дата", "Тип"}

func kindLabel(kind model.Kind) string {
	if kind == model.KindIncome {
		return "доход"
	}
	return "расход"
}

// Filename — имя артефакта выгрузки для пользователя.
func Filename(userID int64) string {
	return fmt.Sprintf("транзакции_%d.csv", userID)
}

// CSV сериализует записи. Суммы выгружаются с полной хранимой точностью.
func CSV(records []service.ExportRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		t := r.Transaction
		row := []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.UserID, 10),
			t.Amount.String(),
			t.Category,
			t.Description,
			t.Date.Format(model.DateLayout),
			kindLabel(r.Kind),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
