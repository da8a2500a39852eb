package conversation

import (
	"sync"

	"game-checker-bot/internal/steam"
)

type Status string

const (
	StatusIdle           Status = "idle"
	StatusAwaitingName   Status = "awaiting_name"
	StatusAwaitingChoice Status = "awaiting_choice"
)

// State is one user's position in the search dialogue.
type State struct {
	Status     Status
	ChatID     int64
	Query      string
	MessageID  int // the menu message while awaiting a choice
	Candidates []steam.SearchCandidate
}

// Manager holds dialogue state per user. Idle users have no entry.
type Manager struct {
	mu     sync.RWMutex
	states map[int64]*State
}

func NewManager() *Manager {
	return &Manager{states: make(map[int64]*State)}
}

// Get returns a copy of the user's state; idle when there is none.
func (m *Manager) Get(userID int64) State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.states[userID]; ok {
		return *s
	}
	return State{Status: StatusIdle}
}

// Begin moves the user to awaiting_name, dropping any pending menu.
func (m *Manager) Begin(userID, chatID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = &State{Status: StatusAwaitingName, ChatID: chatID}
}

// AwaitChoice records the disambiguation menu shown to the user.
func (m *Manager) AwaitChoice(userID, chatID int64, query string, messageID int, candidates []steam.SearchCandidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = &State{
		Status:     StatusAwaitingChoice,
		ChatID:     chatID,
		Query:      query,
		MessageID:  messageID,
		Candidates: candidates,
	}
}

// Reset returns the user to idle.
func (m *Manager) Reset(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
}

// Searching reports whether free text from the user should be treated as a game name.
func (s State) Searching() bool {
	return s.Status == StatusAwaitingName || s.Status == StatusAwaitingChoice
}

// Candidate returns the menu entry with the given id, if the user was offered it.
func (s State) Candidate(id int) (steam.SearchCandidate, bool) {
	for _, c := range s.Candidates {
		if c.ID == id {
			return c, true
		}
	}
	return steam.SearchCandidate{}, false
}
