package service

import (
	"context"
	"errors"
	"log/slog"

	"moviesearch-bot/internal/kinopoisk"
	"moviesearch-bot/internal/limiter"
	"moviesearch-bot/internal/models"
)

// ErrRateLimited is returned when the user has run too many searches in the
// current window. No catalog call is made and nothing is persisted.
var ErrRateLimited = errors.New("search rate limit exceeded")

// CatalogClient is the movie catalog capability consumed by the orchestrator.
type CatalogClient interface {
	SearchByName(query string, limit int, genre string) ([]kinopoisk.MovieDoc, error)
	SearchByRating(minRating, maxRating float64, limit int, genre string) ([]kinopoisk.MovieDoc, error)
	SearchByBudget(tier models.BudgetTier, limit int, genre string) ([]kinopoisk.MovieDoc, error)
}

// UserStore is the subset of the user repository the services need.
type UserStore interface {
	GetOrCreate(telegramID int64, username string) (*models.User, error)
}

// MovieStore caches movie metadata, first write wins.
type MovieStore interface {
	GetOrCreate(m models.Movie) (*models.Movie, error)
}

// SearchStore persists search history and result rows.
type SearchStore interface {
	CreateSearch(h models.SearchHistory) (int, error)
	GetSearch(searchID int) (*models.SearchHistory, error)
	ListRecent(userID, n int) ([]models.HistoryEntry, error)
	AddResult(searchID, movieID int) (int, error)
	GetResults(searchID int) ([]models.ResultCard, error)
	ToggleWatched(resultID int) (bool, error)
}

// SearchOutcome is one displayable search hit. ResultID is 0 when the
// corresponding row could not be persisted; the toggle control is omitted
// for such hits.
type SearchOutcome struct {
	View     models.MovieView
	ResultID int
}

// SearchService runs a completed wizard's criteria against the catalog and
// persists the outcome.
type SearchService struct {
	users   UserStore
	movies  MovieStore
	history SearchStore
	catalog CatalogClient
	limiter *limiter.SearchLimiter
}

// NewSearchService creates a new SearchService.
func NewSearchService(users UserStore, movies MovieStore, history SearchStore,
	catalog CatalogClient, lim *limiter.SearchLimiter) *SearchService {
	return &SearchService{
		users:   users,
		movies:  movies,
		history: history,
		catalog: catalog,
		limiter: lim,
	}
}

// Run executes one search. A catalog failure degrades to an empty list with
// nothing persisted; a successful call, even with zero matches, records one
// SearchHistory row (results_count = the requested count) plus one unwatched
// SearchResult per returned movie. The returned views come straight from the
// catalog response, not from the stored rows.
func (s *SearchService) Run(ctx context.Context, telegramID int64, username string,
	c models.SearchCriteria) ([]SearchOutcome, error) {

	user, err := s.users.GetOrCreate(telegramID, username)
	if err != nil {
		return nil, err
	}

	if !s.limiter.Allow(ctx, telegramID) {
		slog.Warn("search rate limit hit", "telegram_id", telegramID)
		return nil, ErrRateLimited
	}

	var docs []kinopoisk.MovieDoc
	switch c.Kind {
	case models.SearchByName:
		docs, err = s.catalog.SearchByName(c.Query, c.ResultCount, c.Genre)
	case models.SearchByRating:
		docs, err = s.catalog.SearchByRating(c.MinRating, c.MaxRating, c.ResultCount, c.Genre)
	case models.SearchByBudget:
		docs, err = s.catalog.SearchByBudget(c.BudgetTier, c.ResultCount, c.Genre)
	}
	if err != nil {
		// The user just sees "no results"; operators see the cause.
		slog.Error("catalog search failed", "kind", c.Kind, "error", err)
		return []SearchOutcome{}, nil
	}

	searchID, err := s.history.CreateSearch(models.SearchHistory{
		UserID:       user.ID,
		Kind:         c.Kind,
		Query:        c.Query,
		MinRating:    c.MinRating,
		MaxRating:    c.MaxRating,
		BudgetType:   c.BudgetTier,
		Genre:        c.Genre,
		ResultsCount: c.ResultCount,
	})
	if err != nil {
		return nil, err
	}

	outcomes := make([]SearchOutcome, 0, len(docs))
	for _, doc := range docs {
		movie := doc.ToMovie()
		outcome := SearchOutcome{View: models.ViewFromMovie(movie)}

		stored, err := s.movies.GetOrCreate(movie)
		if err != nil {
			slog.Error("failed to cache movie", "kp_id", movie.KpID, "error", err)
			outcomes = append(outcomes, outcome)
			continue
		}
		resultID, err := s.history.AddResult(searchID, stored.ID)
		if err != nil {
			slog.Error("failed to store search result", "search_id", searchID, "error", err)
		} else {
			outcome.ResultID = resultID
		}
		outcomes = append(outcomes, outcome)
	}

	slog.Info("search completed", "telegram_id", telegramID, "kind", c.Kind,
		"requested", c.ResultCount, "returned", len(docs))
	return outcomes, nil
}
