package bot

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"moviesearch-bot/internal/dialog"
)

// Main menu and history submenu labels.
const (
	LabelSearchByName   = "Поиск по названию"
	LabelSearchByRating = "Поиск по рейтингу"
	LabelSearchByBudget = "Поиск по бюджету"
	LabelHistory        = "История поиска"
	LabelHelp           = "Помощь"
	LabelLastFive       = "Последние 5 запросов"
	LabelBackToMenu     = "Назад в меню"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelSearchByName),
			tgbotapi.NewKeyboardButton(LabelSearchByRating),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelSearchByBudget),
			tgbotapi.NewKeyboardButton(LabelHistory),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelHelp),
		),
	)
}

func budgetKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(dialog.LabelHighBudget),
			tgbotapi.NewKeyboardButton(dialog.LabelLowBudget),
		),
	)
}

// genreKeyboard lays the twelve fixed genres out three per row, with the
// skip button on its own row.
func genreKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(dialog.Genres)/3+1)
	for i := 0; i < len(dialog.Genres); i += 3 {
		row := make([]tgbotapi.KeyboardButton, 0, 3)
		for j := i; j < i+3 && j < len(dialog.Genres); j++ {
			row = append(row, tgbotapi.NewKeyboardButton(dialog.Genres[j]))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(
		tgbotapi.NewKeyboardButton(dialog.LabelSkipGenre),
	))
	return tgbotapi.NewReplyKeyboard(rows...)
}

func countKeyboard() tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, 2)
	for i := 1; i <= 10; i += 5 {
		row := make([]tgbotapi.KeyboardButton, 0, 5)
		for j := i; j < i+5; j++ {
			row = append(row, tgbotapi.NewKeyboardButton(strconv.Itoa(j)))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func historyMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(LabelLastFive),
			tgbotapi.NewKeyboardButton(LabelBackToMenu),
		),
	)
}

func watchKeyboard(resultID int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"Отметить как просмотренный", WatchedCallback(resultID)),
		),
	)
}

func showSearchKeyboard(searchID int) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				"Показать результаты", ShowSearchCallback(searchID)),
		),
	)
}
