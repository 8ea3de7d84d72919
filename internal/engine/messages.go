package engine

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/model"
	"github.com/zenamons-s/ZenamonsBot-Telegram/internal/service"
)

const backLabel = "Назад"

const (
	msgWelcome        = "Добро пожаловать! Нажмите 'Меню' для начала работы."
	msgChooseAction   = "Выберите действие:"
	msgInternalError  = "Произошла ошибка. Попробуйте ещё раз."
	msgNoStats        = "Нет данных для отображения статистики."
	msgNoExport       = "Нет данных для экспорта."
	msgExportCaption  = "Ваши расходы и доходы в CSV"
	msgChooseCategory = "Пожалуйста, выберите категорию из предложенных."
	msgChooseDelete   = "Пожалуйста, выберите действие из предложенных."
	msgAmountFormat   = "Неверный формат. Используйте: <сумма> <описание>"
	msgAmountNumber   = "Ошибка: сумма должна быть числом, например 500 или 99.90."
	msgAmountPositive = "Сумма должна быть положительной!"
	msgDeletePrompt   = "Введите /delete <id> для удаления записи."
	msgDeleteFormat   = "Неверный формат. Используйте: /delete <id>"
	msgDeleteNotInt   = "ID должен быть числом."
	msgResetDone      = "Вся ваша статистика обнулена."
	msgTimezoneAsk    = "Введите часовой пояс (например, Europe/Moscow):"
	msgTimezoneBad    = "Неверный часовой пояс. Попробуйте снова (например, Europe/Moscow)."
)

const (
	deleteByIDLabel = "Удалить по ID"
	resetAllLabel   = "Обнулить статистику"
)

func menuOptions() []string {
	return []string{
		"-", "+",
		"Статистика", "Категории",
		"Экспорт", "Удалить",
		"Часовой пояс", "Инструкция",
	}
}

func backOptions() []string {
	return []string{backLabel}
}

func deleteOptions() []string {
	return []string{deleteByIDLabel, resetAllLabel, backLabel}
}

func withBack(options []string) []string {
	out := make([]string, 0, len(options)+1)
	out = append(out, options...)
	return append(out, backLabel)
}

func kindTitle(kind model.Kind) string {
	if kind == model.KindIncome {
		return "Доход"
	}
	return "Расход"
}

func kindGenitive(kind model.Kind) string {
	if kind == model.KindIncome {
		return "дохода"
	}
	return "расхода"
}

// money — отображаемая сумма: усечение до двух знаков, без округления
// хранимого значения.
func money(d decimal.Decimal) string {
	return d.Truncate(2).StringFixed(2)
}

// amountExample подбирает пример ввода под выбранную категорию.
func amountExample(category string) string {
	switch category {
	case "Зарплата":
		return "5000 апрель"
	case "Инвестиции":
		return "500 акция"
	default:
		return "500 Кофе"
	}
}

func formatConfirmation(kind model.Kind, amount decimal.Decimal, category, description string) string {
	return fmt.Sprintf("%s добавлен:\nСумма: %s\nКатегория: %s\nОписание: %s",
		kindTitle(kind), money(amount), category, description)
}

func formatCategories(expenses, incomes []string) string {
	if len(expenses) == 0 && len(incomes) == 0 {
		return "Категории не найдены."
	}
	var b strings.Builder
	b.WriteString("Доступные категории:\nРасходы:\n")
	for _, name := range expenses {
		fmt.Fprintf(&b, "%s (расход)\n", name)
	}
	b.WriteString("Доходы:\n")
	for _, name := range incomes {
		fmt.Fprintf(&b, "%s (доход)\n", name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatReport(r *service.Report) string {
	var b strings.Builder
	b.WriteString("Статистика расходов и доходов:\n")
	for _, w := range r.Windows {
		fmt.Fprintf(&b, "\nЗа последний %s:\n", w.Title)
		if len(w.Expenses) > 0 {
			b.WriteString("Расходы:\n")
			for _, c := range w.Expenses {
				fmt.Fprintf(&b, "%s: %s\n", c.Name, money(c.Sum))
			}
		}
		if len(w.Incomes) > 0 {
			b.WriteString("Доходы:\n")
			for _, c := range w.Incomes {
				fmt.Fprintf(&b, "%s: %s\n", c.Name, money(c.Sum))
			}
		}
		fmt.Fprintf(&b, "Итого расходы: %s\n", money(w.TotalExpenses))
		fmt.Fprintf(&b, "Итого доходы: %s\n", money(w.TotalIncomes))
		fmt.Fprintf(&b, "Баланс: %s\n", money(w.Balance()))

		if len(w.Days) > 0 {
			b.WriteString("\nПодробно по дням:\n")
			for _, d := range w.Days {
				fmt.Fprintf(&b, "%s: Расходы %s, Доходы %s, Баланс %s\n",
					d.Label, money(d.Expenses), money(d.Incomes), money(d.Balance()))
			}
		}
		if len(w.Months) > 0 {
			b.WriteString("\nПодробно по месяцам:\n")
			for _, m := range w.Months {
				fmt.Fprintf(&b, "%s: Расходы %s, Доходы %s, Баланс %s\n",
					m.Label, money(m.Expenses), money(m.Incomes), money(m.Balance()))
			}
		}
	}
	return b.String()
}
