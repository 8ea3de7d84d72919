package engine

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"/start", IntentStart},
		{"Меню", IntentMenu},
		{"Назад", IntentBack},
		{"-", IntentAddExpense},
		{"-кофе", IntentAddExpense},
		{"+", IntentAddIncome},
		{"+зарплата", IntentAddIncome},
		{"s", IntentStats},
		{"Статистика", IntentStats},
		{"/stats", IntentStats},
		{"/stats full", IntentStatsDetailed},
		{"Подробная статистика", IntentStatsDetailed},
		{"Категории", IntentCategories},
		{"/categories", IntentCategories},
		{"Экспорт", IntentExport},
		{"/export", IntentExport},
		{"Удалить", IntentDelete},
		{"/delete", IntentDelete},
		{"/delete 42", IntentDelete},
		{"Часовой пояс", IntentTimezone},
		{"/settimezone", IntentTimezone},
		{"Инструкция", IntentHelp},
		{"/instruction", IntentHelp},
		{"  Статистика  ", IntentStats},
		{"/unknown", IntentUnknown},
		{"просто текст", IntentUnknown},
		{"", IntentUnknown},
		{"S", IntentUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.text); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
