package service

import (
	"moviesearch-bot/internal/models"
)

// HistoryService reads persisted search history and flips watched flags.
type HistoryService struct {
	users   UserStore
	history SearchStore
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(users UserStore, history SearchStore) *HistoryService {
	return &HistoryService{users: users, history: history}
}

// ListRecent returns up to n of the user's searches, newest first.
func (s *HistoryService) ListRecent(telegramID int64, username string, n int) ([]models.HistoryEntry, error) {
	user, err := s.users.GetOrCreate(telegramID, username)
	if err != nil {
		return nil, err
	}
	return s.history.ListRecent(user.ID, n)
}

// RevealResults loads all result rows for a search, in insertion order.
// A search ID that no longer exists yields repository.ErrNotFound.
func (s *HistoryService) RevealResults(searchID int) ([]models.ResultCard, error) {
	if _, err := s.history.GetSearch(searchID); err != nil {
		return nil, err
	}
	return s.history.GetResults(searchID)
}

// ToggleWatched flips one result's watched flag and returns the new value.
func (s *HistoryService) ToggleWatched(resultID int) (bool, error) {
	return s.history.ToggleWatched(resultID)
}
