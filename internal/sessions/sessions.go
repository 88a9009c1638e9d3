// Package sessions keeps short, bounded conversation history per chat
// session. History is an ordered list of completed exchanges; once the
// capacity is reached the oldest exchange is evicted.
package sessions

import (
	"fmt"
	"sync"

	"github.com/lewisedginton/course_materials_chatbot/pkg/logger"
	"github.com/lewisedginton/course_materials_chatbot/pkg/prefixed_uuid"
)

// DefaultMaxHistory is the number of completed exchanges retained per
// session when the caller does not configure a capacity.
const DefaultMaxHistory = 2

// Exchange is one completed question/answer pair.
type Exchange struct {
	Query  string
	Answer string
}

// Manager stores per-session conversation history.
type Manager interface {
	// NewSession mints a fresh session identifier.
	NewSession() string
	// History returns the retained exchanges for a session, oldest first.
	// Unknown sessions return an empty history.
	History(sessionID string) []Exchange
	// Append records a completed exchange, evicting the oldest when the
	// session is at capacity.
	Append(sessionID string, exchange Exchange)
	// Clear drops all history for a session.
	Clear(sessionID string)
}

// Config configures a session manager.
type Config struct {
	// MaxHistory is the number of exchanges retained per session.
	MaxHistory int
	Logger     logger.Logger
}

type manager struct {
	maxHistory int
	log        logger.Logger

	mu       sync.Mutex
	sessions map[string][]Exchange
}

// NewManager creates a session manager.
func NewManager(cfg Config) (Manager, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}

	return &manager{
		maxHistory: cfg.MaxHistory,
		log:        cfg.Logger,
		sessions:   make(map[string][]Exchange),
	}, nil
}

func (m *manager) NewSession() string {
	id := prefixed_uuid.New("session").String()
	m.log.Debug("Created session", logger.StringField("session_id", id))
	return id
}

func (m *manager) History(sessionID string) []Exchange {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.sessions[sessionID]
	out := make([]Exchange, len(history))
	copy(out, history)
	return out
}

func (m *manager) Append(sessionID string, exchange Exchange) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := append(m.sessions[sessionID], exchange)
	if len(history) > m.maxHistory {
		history = history[len(history)-m.maxHistory:]
	}
	m.sessions[sessionID] = history
}

func (m *manager) Clear(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}
