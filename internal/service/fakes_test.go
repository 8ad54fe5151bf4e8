package service

import (
	"moviesearch-bot/internal/kinopoisk"
	"moviesearch-bot/internal/models"
	"moviesearch-bot/internal/repository"
)

// fakeUsers implements UserStore with get-or-create semantics in memory.
type fakeUsers struct {
	byTelegramID map[int64]*models.User
	nextID       int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byTelegramID: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUsers) GetOrCreate(telegramID int64, username string) (*models.User, error) {
	if u, ok := f.byTelegramID[telegramID]; ok {
		return u, nil
	}
	u := &models.User{ID: f.nextID, TelegramID: telegramID, Username: username}
	f.nextID++
	f.byTelegramID[telegramID] = u
	return u, nil
}

// fakeMovies implements MovieStore with first-write-wins upserts.
type fakeMovies struct {
	byKpID map[int64]*models.Movie
	nextID int
}

func newFakeMovies() *fakeMovies {
	return &fakeMovies{byKpID: make(map[int64]*models.Movie), nextID: 1}
}

func (f *fakeMovies) GetOrCreate(m models.Movie) (*models.Movie, error) {
	if stored, ok := f.byKpID[m.KpID]; ok {
		return stored, nil
	}
	m.ID = f.nextID
	f.nextID++
	f.byKpID[m.KpID] = &m
	return &m, nil
}

// fakeSearches implements SearchStore in memory.
type fakeSearches struct {
	searches     map[int]models.SearchHistory
	results      map[int]*models.SearchResult
	nextSearchID int
	nextResultID int
}

func newFakeSearches() *fakeSearches {
	return &fakeSearches{
		searches:     make(map[int]models.SearchHistory),
		results:      make(map[int]*models.SearchResult),
		nextSearchID: 1,
		nextResultID: 1,
	}
}

func (f *fakeSearches) CreateSearch(h models.SearchHistory) (int, error) {
	h.ID = f.nextSearchID
	f.nextSearchID++
	f.searches[h.ID] = h
	return h.ID, nil
}

func (f *fakeSearches) GetSearch(searchID int) (*models.SearchHistory, error) {
	h, ok := f.searches[searchID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (f *fakeSearches) ListRecent(userID, n int) ([]models.HistoryEntry, error) {
	entries := make([]models.HistoryEntry, 0)
	for id := f.nextSearchID - 1; id >= 1 && len(entries) < n; id-- {
		h, ok := f.searches[id]
		if !ok || h.UserID != userID {
			continue
		}
		e := models.HistoryEntry{SearchHistory: h}
		for _, r := range f.results {
			if r.SearchID == h.ID {
				e.StoredResults++
			}
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (f *fakeSearches) AddResult(searchID, movieID int) (int, error) {
	id := f.nextResultID
	f.nextResultID++
	f.results[id] = &models.SearchResult{ID: id, SearchID: searchID, MovieID: movieID}
	return id, nil
}

func (f *fakeSearches) GetResults(searchID int) ([]models.ResultCard, error) {
	cards := make([]models.ResultCard, 0)
	for id := 1; id < f.nextResultID; id++ {
		r, ok := f.results[id]
		if !ok || r.SearchID != searchID {
			continue
		}
		cards = append(cards, models.ResultCard{ResultID: r.ID, IsWatched: r.IsWatched})
	}
	return cards, nil
}

func (f *fakeSearches) ToggleWatched(resultID int) (bool, error) {
	r, ok := f.results[resultID]
	if !ok {
		return false, repository.ErrNotFound
	}
	r.IsWatched = !r.IsWatched
	return r.IsWatched, nil
}

// fakeCatalog implements CatalogClient and records the last call.
type fakeCatalog struct {
	docs []kinopoisk.MovieDoc
	err  error

	lastMethod string
	lastQuery  string
	lastLimit  int
	lastGenre  string
	lastMin    float64
	lastMax    float64
	lastTier   models.BudgetTier
}

func (f *fakeCatalog) SearchByName(query string, limit int, genre string) ([]kinopoisk.MovieDoc, error) {
	f.lastMethod, f.lastQuery, f.lastLimit, f.lastGenre = "name", query, limit, genre
	return f.docs, f.err
}

func (f *fakeCatalog) SearchByRating(minRating, maxRating float64, limit int, genre string) ([]kinopoisk.MovieDoc, error) {
	f.lastMethod, f.lastMin, f.lastMax, f.lastLimit, f.lastGenre = "rating", minRating, maxRating, limit, genre
	return f.docs, f.err
}

func (f *fakeCatalog) SearchByBudget(tier models.BudgetTier, limit int, genre string) ([]kinopoisk.MovieDoc, error) {
	f.lastMethod, f.lastTier, f.lastLimit, f.lastGenre = "budget", tier, limit, genre
	return f.docs, f.err
}
