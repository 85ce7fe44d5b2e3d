package advisor

import (
	"sync"

	"github.com/SameetPathan/cowfarm/pkg/clients/anthropic"
)

// maxHistoryMessages bounds how much conversation context is replayed to
// the model on each turn.
const maxHistoryMessages = 10

// SessionManager tracks per-owner chat histories in memory.
type SessionManager struct {
	sessions map[string][]anthropic.Message
	mu       sync.RWMutex
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string][]anthropic.Message),
	}
}

// History returns a copy of the owner's recent conversation turns.
func (sm *SessionManager) History(owner string) []anthropic.Message {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return append([]anthropic.Message{}, sm.sessions[owner]...)
}

// Append records one user/assistant exchange and trims the history to the
// most recent turns.
func (sm *SessionManager) Append(owner string, userMsg, assistantMsg string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	history := append(sm.sessions[owner],
		anthropic.Message{Role: "user", Content: userMsg},
		anthropic.Message{Role: "assistant", Content: assistantMsg})

	if len(history) > maxHistoryMessages {
		history = history[len(history)-maxHistoryMessages:]
	}
	sm.sessions[owner] = history
}

// Clear removes an owner's session.
func (sm *SessionManager) Clear(owner string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, owner)
}
