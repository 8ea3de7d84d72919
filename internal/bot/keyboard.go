package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// optionsKeyboard раскладывает варианты ввода движка по кнопкам: парами в
// ряд, "Назад" — отдельным последним рядом.
func optionsKeyboard(options []string) tgbotapi.ReplyKeyboardMarkup {
	var (
		rows [][]tgbotapi.KeyboardButton
		back bool
		pair []tgbotapi.KeyboardButton
	)
	for _, opt := range options {
		if opt == "Назад" {
			back = true
			continue
		}
		pair = append(pair, tgbotapi.NewKeyboardButton(opt))
		if len(pair) == 2 {
			rows = append(rows, pair)
			pair = nil
		}
	}
	if len(pair) > 0 {
		rows = append(rows, pair)
	}
	if back {
		rows = append(rows, []tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButton("Назад")})
	}

	keyboard := tgbotapi.NewReplyKeyboard(rows...)
	keyboard.ResizeKeyboard = true
	return keyboard
}
