package repository

import (
	"database/sql"
	"fmt"
	"log/slog"

	"moviesearch-bot/internal/models"
)

// SearchRepository handles database operations for search history and
// search results.
type SearchRepository struct {
	db *sql.DB
}

// NewSearchRepository creates a new SearchRepository.
func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// CreateSearch inserts one completed search. Only the criteria group that
// matches the kind is written; the other groups stay NULL.
func (r *SearchRepository) CreateSearch(h models.SearchHistory) (int, error) {
	var query, minRating, maxRating, budgetType interface{}
	switch h.Kind {
	case models.SearchByName:
		query = h.Query
	case models.SearchByRating:
		minRating = h.MinRating
		maxRating = h.MaxRating
	case models.SearchByBudget:
		budgetType = string(h.BudgetType)
	}

	var id int
	err := r.db.QueryRow(`
		INSERT INTO search_history (user_id, search_type, query, min_rating,
			max_rating, budget_type, genre, results_count)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8)
		RETURNING id
	`, h.UserID, string(h.Kind), query, minRating, maxRating, budgetType,
		h.Genre, h.ResultsCount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create search history: %w", err)
	}
	return id, nil
}

// GetSearch returns one search history row by ID.
func (r *SearchRepository) GetSearch(searchID int) (*models.SearchHistory, error) {
	var h models.SearchHistory
	err := r.db.QueryRow(`
		SELECT id, user_id, search_type, COALESCE(query, ''),
			COALESCE(min_rating, 0), COALESCE(max_rating, 0),
			COALESCE(budget_type, ''), COALESCE(genre, ''),
			results_count, created_at
		FROM search_history WHERE id = $1
	`, searchID).Scan(
		&h.ID, &h.UserID, &h.Kind, &h.Query, &h.MinRating, &h.MaxRating,
		&h.BudgetType, &h.Genre, &h.ResultsCount, &h.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get search: %w", err)
	}
	return &h, nil
}

// ListRecent returns up to n searches for the user, newest first, each
// annotated with the number of result rows actually stored.
func (r *SearchRepository) ListRecent(userID, n int) ([]models.HistoryEntry, error) {
	rows, err := r.db.Query(`
		SELECT h.id, h.user_id, h.search_type, COALESCE(h.query, ''),
			COALESCE(h.min_rating, 0), COALESCE(h.max_rating, 0),
			COALESCE(h.budget_type, ''), COALESCE(h.genre, ''),
			h.results_count, h.created_at, COUNT(r.id)
		FROM search_history h
		LEFT JOIN search_results r ON r.search_id = h.id
		WHERE h.user_id = $1
		GROUP BY h.id
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT $2
	`, userID, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(
			&e.ID, &e.UserID, &e.Kind, &e.Query, &e.MinRating, &e.MaxRating,
			&e.BudgetType, &e.Genre, &e.ResultsCount, &e.CreatedAt,
			&e.StoredResults,
		); err != nil {
			slog.Error("failed to scan history row", "error", err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// AddResult links a movie to a search, unwatched.
func (r *SearchRepository) AddResult(searchID, movieID int) (int, error) {
	var id int
	err := r.db.QueryRow(`
		INSERT INTO search_results (search_id, movie_id, is_watched)
		VALUES ($1, $2, FALSE)
		RETURNING id
	`, searchID, movieID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create search result: %w", err)
	}
	return id, nil
}

// GetResults returns all result rows for a search joined with their movies,
// in insertion order.
func (r *SearchRepository) GetResults(searchID int) ([]models.ResultCard, error) {
	rows, err := r.db.Query(`
		SELECT r.id, r.is_watched, m.id, m.kp_id, COALESCE(m.name, ''),
			COALESCE(m.description, ''), COALESCE(m.rating_kp, 0),
			COALESCE(m.year, 0), COALESCE(m.genres, ''),
			COALESCE(m.age_rating, ''), COALESCE(m.poster_url, '')
		FROM search_results r
		INNER JOIN movies m ON m.id = r.movie_id
		WHERE r.search_id = $1
		ORDER BY r.id
	`, searchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query search results: %w", err)
	}
	defer rows.Close()

	cards := make([]models.ResultCard, 0)
	for rows.Next() {
		var c models.ResultCard
		if err := rows.Scan(
			&c.ResultID, &c.IsWatched, &c.Movie.ID, &c.Movie.KpID,
			&c.Movie.Name, &c.Movie.Description, &c.Movie.RatingKP,
			&c.Movie.Year, &c.Movie.Genres, &c.Movie.AgeRating,
			&c.Movie.PosterURL,
		); err != nil {
			slog.Error("failed to scan result row", "error", err)
			continue
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// ToggleWatched flips the watched flag and returns the new value.
func (r *SearchRepository) ToggleWatched(resultID int) (bool, error) {
	var watched bool
	err := r.db.QueryRow(`
		UPDATE search_results SET is_watched = NOT is_watched
		WHERE id = $1
		RETURNING is_watched
	`, resultID).Scan(&watched)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("failed to toggle watched: %w", err)
	}
	return watched, nil
}
