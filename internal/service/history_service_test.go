package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"moviesearch-bot/internal/models"
	"moviesearch-bot/internal/repository"
)

func newTestHistory(t *testing.T) (*HistoryService, *fakeSearches) {
	t.Helper()
	users := newFakeUsers()
	searches := newFakeSearches()
	return NewHistoryService(users, searches), searches
}

func TestListRecentNewestFirstWithCounts(t *testing.T) {
	svc, searches := newTestHistory(t)

	first, _ := searches.CreateSearch(models.SearchHistory{UserID: 1, Kind: models.SearchByName, Query: "a"})
	second, _ := searches.CreateSearch(models.SearchHistory{UserID: 1, Kind: models.SearchByName, Query: "b"})
	searches.AddResult(first, 10)
	searches.AddResult(first, 11)
	searches.AddResult(second, 12)

	entries, err := svc.ListRecent(1001, "alice", 5)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "b", entries[0].Query)
	require.Equal(t, 1, entries[0].StoredResults)
	require.Equal(t, "a", entries[1].Query)
	require.Equal(t, 2, entries[1].StoredResults)
}

func TestRevealResultsUnknownSearch(t *testing.T) {
	svc, _ := newTestHistory(t)
	_, err := svc.RevealResults(9999)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRevealResultsInsertionOrder(t *testing.T) {
	svc, searches := newTestHistory(t)

	id, _ := searches.CreateSearch(models.SearchHistory{UserID: 1, Kind: models.SearchByName})
	r1, _ := searches.AddResult(id, 10)
	r2, _ := searches.AddResult(id, 11)

	cards, err := svc.RevealResults(id)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	require.Equal(t, r1, cards[0].ResultID)
	require.Equal(t, r2, cards[1].ResultID)
}

// Toggling once flips the flag; toggling twice restores the original value.
func TestToggleWatchedIsItsOwnInverse(t *testing.T) {
	svc, searches := newTestHistory(t)
	id, _ := searches.CreateSearch(models.SearchHistory{UserID: 1, Kind: models.SearchByName})
	resultID, _ := searches.AddResult(id, 10)

	watched, err := svc.ToggleWatched(resultID)
	require.NoError(t, err)
	require.True(t, watched)

	watched, err = svc.ToggleWatched(resultID)
	require.NoError(t, err)
	require.False(t, watched)
}

func TestToggleWatchedUnknownResult(t *testing.T) {
	svc, _ := newTestHistory(t)
	_, err := svc.ToggleWatched(424242)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
