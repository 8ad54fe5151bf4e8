package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"moviesearch-bot/internal/models"
)

func TestFormatMovieCard(t *testing.T) {
	text := FormatMovieCard(models.MovieView{
		Name:        "Начало",
		Description: "Вор, крадущий секреты из снов.",
		Rating:      8.7,
		Year:        2010,
		Genres:      "фантастика, боевик",
		AgeRating:   "12+",
	})

	require.Contains(t, text, "<b>Начало</b> (2010)")
	require.Contains(t, text, "Рейтинг KP: <b>8.7</b>")
	require.Contains(t, text, "Жанр: <b>фантастика, боевик</b>")
	require.Contains(t, text, "Возрастной рейтинг: <b>12+</b>")
	require.Contains(t, text, "<i>Вор, крадущий секреты из снов.</i>")
}

func TestFormatMovieCardFallbacks(t *testing.T) {
	text := FormatMovieCard(models.MovieView{})

	require.Contains(t, text, "Название не указано")
	require.Contains(t, text, "Год не указан")
	require.Contains(t, text, "Нет рейтинга")
	require.Contains(t, text, "Жанр не указан")
	require.Contains(t, text, "Не указан")
	require.Contains(t, text, "Описание отсутствует")
}

func TestFormatMovieCardTruncatesDescription(t *testing.T) {
	// Cyrillic text, so a byte-based cut would split a character.
	long := strings.Repeat("ы", 400)
	text := FormatMovieCard(models.MovieView{Name: "x", Description: long})

	require.Contains(t, text, strings.Repeat("ы", 300))
	require.NotContains(t, text, strings.Repeat("ы", 301))
}

func TestFormatMovieCardEscapesHTML(t *testing.T) {
	text := FormatMovieCard(models.MovieView{Name: "<script>alert(1)</script>"})
	require.NotContains(t, text, "<script>")
	require.Contains(t, text, "&lt;script&gt;")
}

func TestFormatHistoryEntryPerKind(t *testing.T) {
	at := time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC)

	name := FormatHistoryEntry(models.HistoryEntry{
		SearchHistory: models.SearchHistory{
			Kind: models.SearchByName, Query: "Начало", CreatedAt: at,
		},
		StoredResults: 2,
	})
	require.Contains(t, name, "09.03.2024 18:30")
	require.Contains(t, name, "поиск по названию «Начало»")
	require.Contains(t, name, "найдено: 2")

	rating := FormatHistoryEntry(models.HistoryEntry{
		SearchHistory: models.SearchHistory{
			Kind: models.SearchByRating, MinRating: 7, MaxRating: 10,
			Genre: "драма", CreatedAt: at,
		},
	})
	require.Contains(t, rating, "поиск по рейтингу 7-10")
	require.Contains(t, rating, "жанр: драма")

	budget := FormatHistoryEntry(models.HistoryEntry{
		SearchHistory: models.SearchHistory{
			Kind: models.SearchByBudget, BudgetType: models.BudgetLow, CreatedAt: at,
		},
	})
	require.Contains(t, budget, "низкий бюджет")
}
