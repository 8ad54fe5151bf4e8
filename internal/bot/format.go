package bot

import (
	"fmt"
	"html"
	"strings"

	"moviesearch-bot/internal/models"
)

const descriptionLimit = 300

// FormatMovieCard renders one movie as the HTML card sent to the chat.
// Every field may be missing upstream, so each line has a fallback.
func FormatMovieCard(v models.MovieView) string {
	name := "Название не указано"
	if v.Name != "" {
		name = html.EscapeString(v.Name)
	}
	year := "Год не указан"
	if v.Year != 0 {
		year = fmt.Sprintf("%d", v.Year)
	}
	rating := "Нет рейтинга"
	if v.Rating != 0 {
		rating = fmt.Sprintf("%.1f", v.Rating)
	}
	genres := "Жанр не указан"
	if v.Genres != "" {
		genres = html.EscapeString(v.Genres)
	}
	ageRating := "Не указан"
	if v.AgeRating != "" {
		ageRating = html.EscapeString(v.AgeRating)
	}
	description := "Описание отсутствует"
	if v.Description != "" {
		description = html.EscapeString(truncate(v.Description, descriptionLimit))
	}

	return fmt.Sprintf(
		"<b>%s</b> (%s)\nРейтинг KP: <b>%s</b>\nЖанр: <b>%s</b>\nВозрастной рейтинг: <b>%s</b>\n\n<i>%s</i>",
		name, year, rating, genres, ageRating, description,
	)
}

// FormatHistoryEntry renders one search as a one-line summary for the
// history listing.
func FormatHistoryEntry(e models.HistoryEntry) string {
	var b strings.Builder
	b.WriteString(e.CreatedAt.Format("02.01.2006 15:04"))
	b.WriteString(" — ")

	switch e.Kind {
	case models.SearchByName:
		fmt.Fprintf(&b, "поиск по названию «%s»", html.EscapeString(e.Query))
	case models.SearchByRating:
		fmt.Fprintf(&b, "поиск по рейтингу %g-%g", e.MinRating, e.MaxRating)
	case models.SearchByBudget:
		tier := "высокий бюджет"
		if e.BudgetType == models.BudgetLow {
			tier = "низкий бюджет"
		}
		b.WriteString("поиск: " + tier)
	default:
		b.WriteString("поиск")
	}

	if e.Genre != "" {
		fmt.Fprintf(&b, ", жанр: %s", html.EscapeString(e.Genre))
	}
	fmt.Fprintf(&b, " — найдено: %d", e.StoredResults)
	return b.String()
}

// truncate cuts a string to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
