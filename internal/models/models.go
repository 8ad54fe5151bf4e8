package models

import (
	"strings"
	"time"
)

// SearchKind identifies which wizard flow produced a search.
type SearchKind string

const (
	SearchByName   SearchKind = "name"
	SearchByRating SearchKind = "rating"
	SearchByBudget SearchKind = "budget"
)

// BudgetTier is the two-valued budget classification driving sort direction.
type BudgetTier string

const (
	BudgetHigh BudgetTier = "high"
	BudgetLow  BudgetTier = "low"
)

// User represents a Telegram user stored in our database.
type User struct {
	ID         int       `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"`
	CreatedAt  time.Time `json:"created_at"`
}

// Movie represents cached movie metadata keyed by the Kinopoisk movie ID.
// All catalog fields are optional upstream, so zero values mean "not provided".
type Movie struct {
	ID          int     `json:"id"`
	KpID        int64   `json:"kp_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	RatingKP    float64 `json:"rating_kp"`
	Year        int     `json:"year"`
	Genres      string  `json:"genres"`
	AgeRating   string  `json:"age_rating"`
	PosterURL   string  `json:"poster_url"`
}

// SearchHistory is one completed wizard run. Which criteria fields are
// populated depends on Kind; the orchestrator guarantees exactly one group.
type SearchHistory struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	Kind         SearchKind `json:"search_type"`
	Query        string     `json:"query"`
	MinRating    float64    `json:"min_rating"`
	MaxRating    float64    `json:"max_rating"`
	BudgetType   BudgetTier `json:"budget_type"`
	Genre        string     `json:"genre"`
	ResultsCount int        `json:"results_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

// HistoryEntry is a SearchHistory annotated with the number of result rows
// actually stored, for history listing.
type HistoryEntry struct {
	SearchHistory
	StoredResults int `json:"stored_results"`
}

// SearchResult links one SearchHistory to one Movie with a watched flag.
type SearchResult struct {
	ID        int  `json:"id"`
	SearchID  int  `json:"search_id"`
	MovieID   int  `json:"movie_id"`
	IsWatched bool `json:"is_watched"`
}

// ResultCard is a SearchResult joined with its Movie, ready for display.
type ResultCard struct {
	ResultID  int
	IsWatched bool
	Movie     Movie
}

// SearchCriteria is the completed output of the dialog wizard.
type SearchCriteria struct {
	Kind        SearchKind
	Query       string
	MinRating   float64
	MaxRating   float64
	BudgetTier  BudgetTier
	Genre       string
	ResultCount int
}

// MovieView is the normalized shape consumed by the card formatter,
// regardless of whether the movie came from the catalog or the database.
type MovieView struct {
	Name        string
	Description string
	Rating      float64
	Year        int
	Genres      string
	AgeRating   string
	PosterURL   string
}

// ViewFromMovie converts a stored movie into its display shape.
func ViewFromMovie(m Movie) MovieView {
	return MovieView{
		Name:        m.Name,
		Description: m.Description,
		Rating:      m.RatingKP,
		Year:        m.Year,
		Genres:      m.Genres,
		AgeRating:   m.AgeRating,
		PosterURL:   m.PosterURL,
	}
}

// JoinGenres flattens a list of genre names into the comma-joined form
// stored on Movie.
func JoinGenres(names []string) string {
	return strings.Join(names, ", ")
}
