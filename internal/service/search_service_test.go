package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"moviesearch-bot/internal/kinopoisk"
	"moviesearch-bot/internal/limiter"
	"moviesearch-bot/internal/models"
)

func newTestService(catalog *fakeCatalog) (*SearchService, *fakeUsers, *fakeMovies, *fakeSearches) {
	users := newFakeUsers()
	movies := newFakeMovies()
	searches := newFakeSearches()
	svc := NewSearchService(users, movies, searches, catalog, limiter.New(nil, 0, 0))
	return svc, users, movies, searches
}

func twoDocs() []kinopoisk.MovieDoc {
	return []kinopoisk.MovieDoc{
		{ID: 301, Name: "Начало", Rating: kinopoisk.Rating{KP: 8.7}, Year: 2010,
			Genres: []kinopoisk.GenreDoc{{Name: "фантастика"}}},
		{ID: 302, Name: "Интерстеллар", Rating: kinopoisk.Rating{KP: 8.6}, Year: 2014},
	}
}

// The end-to-end name flow: criteria reach the catalog verbatim, one history
// row records the *requested* count, and each returned movie gets one
// unwatched result row.
func TestRunByNamePersistsHistoryAndResults(t *testing.T) {
	catalog := &fakeCatalog{docs: twoDocs()}
	svc, _, movies, searches := newTestService(catalog)

	outcomes, err := svc.Run(context.Background(), 1001, "alice", models.SearchCriteria{
		Kind:        models.SearchByName,
		Query:       "Inception",
		ResultCount: 3,
	})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)

	require.Equal(t, "name", catalog.lastMethod)
	require.Equal(t, "Inception", catalog.lastQuery)
	require.Equal(t, 3, catalog.lastLimit)

	require.Len(t, searches.searches, 1)
	h := searches.searches[1]
	require.Equal(t, models.SearchByName, h.Kind)
	require.Equal(t, "Inception", h.Query)
	require.Equal(t, 3, h.ResultsCount) // requested, not actual

	require.Len(t, searches.results, 2)
	for _, r := range searches.results {
		require.False(t, r.IsWatched)
	}
	require.Len(t, movies.byKpID, 2)

	for _, o := range outcomes {
		require.NotZero(t, o.ResultID)
	}
}

func TestRunByRatingPassesRange(t *testing.T) {
	catalog := &fakeCatalog{docs: nil}
	svc, _, _, _ := newTestService(catalog)

	_, err := svc.Run(context.Background(), 1001, "alice", models.SearchCriteria{
		Kind:        models.SearchByRating,
		MinRating:   7,
		MaxRating:   10,
		Genre:       "драма",
		ResultCount: 5,
	})
	require.NoError(t, err)
	require.Equal(t, "rating", catalog.lastMethod)
	require.Equal(t, 7.0, catalog.lastMin)
	require.Equal(t, 10.0, catalog.lastMax)
	require.Equal(t, "драма", catalog.lastGenre)
}

func TestRunByBudgetPassesTier(t *testing.T) {
	catalog := &fakeCatalog{docs: nil}
	svc, _, _, _ := newTestService(catalog)

	_, err := svc.Run(context.Background(), 1001, "alice", models.SearchCriteria{
		Kind:        models.SearchByBudget,
		BudgetTier:  models.BudgetLow,
		ResultCount: 5,
	})
	require.NoError(t, err)
	require.Equal(t, "budget", catalog.lastMethod)
	require.Equal(t, models.BudgetLow, catalog.lastTier)
}

// A catalog failure degrades to an empty list and persists nothing.
func TestRunCatalogFailurePersistsNothing(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("connection refused")}
	svc, _, movies, searches := newTestService(catalog)

	outcomes, err := svc.Run(context.Background(), 1001, "alice", models.SearchCriteria{
		Kind:        models.SearchByName,
		Query:       "Inception",
		ResultCount: 5,
	})
	require.NoError(t, err)
	require.Empty(t, outcomes)
	require.Empty(t, searches.searches)
	require.Empty(t, searches.results)
	require.Empty(t, movies.byKpID)
}

// A successful response with zero matches still records the search.
func TestRunEmptySuccessRecordsHistoryOnly(t *testing.T) {
	catalog := &fakeCatalog{docs: []kinopoisk.MovieDoc{}}
	svc, _, _, searches := newTestService(catalog)

	outcomes, err := svc.Run(context.Background(), 1001, "alice", models.SearchCriteria{
		Kind:        models.SearchByName,
		Query:       "нет такого фильма",
		ResultCount: 7,
	})
	require.NoError(t, err)
	require.Empty(t, outcomes)
	require.Len(t, searches.searches, 1)
	require.Equal(t, 7, searches.searches[1].ResultsCount)
	require.Empty(t, searches.results)
}

// Two runs from one Telegram user never create a second user row.
func TestRunUserGetOrCreateIdempotent(t *testing.T) {
	catalog := &fakeCatalog{docs: nil}
	svc, users, _, searches := newTestService(catalog)

	criteria := models.SearchCriteria{Kind: models.SearchByName, Query: "x", ResultCount: 1}
	_, err := svc.Run(context.Background(), 1001, "alice", criteria)
	require.NoError(t, err)
	_, err = svc.Run(context.Background(), 1001, "alice", criteria)
	require.NoError(t, err)

	require.Len(t, users.byTelegramID, 1)
	require.Equal(t, searches.searches[1].UserID, searches.searches[2].UserID)
}

// A movie seen by two searches is cached once, with the first sighting's
// fields; the second sighting does not refresh it.
func TestRunMovieCacheFirstWriteWins(t *testing.T) {
	catalog := &fakeCatalog{docs: []kinopoisk.MovieDoc{
		{ID: 301, Name: "Начало", Description: "первое описание"},
	}}
	svc, _, movies, searches := newTestService(catalog)

	criteria := models.SearchCriteria{Kind: models.SearchByName, Query: "Начало", ResultCount: 1}
	_, err := svc.Run(context.Background(), 1001, "alice", criteria)
	require.NoError(t, err)

	catalog.docs = []kinopoisk.MovieDoc{
		{ID: 301, Name: "Начало", Description: "другое описание"},
	}
	_, err = svc.Run(context.Background(), 1001, "alice", criteria)
	require.NoError(t, err)

	require.Len(t, movies.byKpID, 1)
	require.Equal(t, "первое описание", movies.byKpID[301].Description)

	// Both searches still link to the single cached row.
	require.Len(t, searches.results, 2)
}
