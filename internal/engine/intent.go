package engine

import "strings"

// Intent — замкнутое множество распознанных намерений для состояния Idle.
// Классификация текста отделена от логики переходов: автомат работает с
// типизированным интентом, а не с сырыми строками меню.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentStart
	IntentMenu
	IntentAddExpense
	IntentAddIncome
	IntentStats
	IntentStatsDetailed
	IntentCategories
	IntentExport
	IntentDelete
	IntentTimezone
	IntentHelp
	IntentBack
)

// Classify распознаёт ввод пользователя: команды, подписи кнопок меню и
// короткие триггеры. Ввод, начинающийся с '-' или '+', открывает поток
// добавления расхода или дохода.
func Classify(text string) Intent {
	t := strings.TrimSpace(text)

	switch t {
	case "Назад":
		return IntentBack
	case "Меню":
		return IntentMenu
	case "s", "Статистика":
		return IntentStats
	case "Подробная статистика":
		return IntentStatsDetailed
	case "Категории":
		return IntentCategories
	case "Экспорт":
		return IntentExport
	case "Удалить":
		return IntentDelete
	case "Часовой пояс":
		return IntentTimezone
	case "Инструкция":
		return IntentHelp
	}

	if strings.HasPrefix(t, "/") {
		fields := strings.Fields(t)
		switch fields[0] {
		case "/start":
			return IntentStart
		case "/stats":
			if len(fields) > 1 && fields[1] == "full" {
				return IntentStatsDetailed
			}
			return IntentStats
		case "/categories":
			return IntentCategories
		case "/export":
			return IntentExport
		case "/delete":
			return IntentDelete
		case "/settimezone":
			return IntentTimezone
		case "/instruction":
			return IntentHelp
		}
		return IntentUnknown
	}

	if strings.HasPrefix(t, "-") {
		return IntentAddExpense
	}
	if strings.HasPrefix(t, "+") {
		return IntentAddIncome
	}
	return IntentUnknown
}
