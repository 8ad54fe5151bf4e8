package dialog

import (
	"sync"

	"moviesearch-bot/internal/models"
)

// Manager is the keyed store of in-progress wizards, one slot per Telegram
// user. Slots live in process memory with no expiry: an abandoned wizard
// stays until the user starts a new one or the process restarts.
type Manager struct {
	mu     sync.Mutex
	states map[int64]State
}

// NewManager creates an empty wizard store.
func NewManager() *Manager {
	return &Manager{states: make(map[int64]State)}
}

// Begin starts a new wizard for the user, silently discarding any wizard
// already in progress, and returns the first prompt.
func (m *Manager) Begin(userID int64, kind models.SearchKind) Prompt {
	s, prompt := Begin(kind)
	m.mu.Lock()
	m.states[userID] = s
	m.mu.Unlock()
	return prompt
}

// Active reports whether the user has a wizard in progress.
func (m *Manager) Active(userID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[userID]
	return ok && s.Step != StepIdle
}

// Advance feeds one input to the user's wizard and commits the resulting
// state. A completed wizard clears the slot and returns the criteria.
func (m *Manager) Advance(userID int64, input string) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[userID]
	if !ok || s.Step == StepIdle {
		return Outcome{State: State{Step: StepIdle}}
	}

	out := Advance(s, input)
	if out.Criteria != nil {
		delete(m.states, userID)
	} else {
		m.states[userID] = out.State
	}
	return out
}

// Clear drops the user's wizard, if any.
func (m *Manager) Clear(userID int64) {
	m.mu.Lock()
	delete(m.states, userID)
	m.mu.Unlock()
}
