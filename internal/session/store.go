// Package session holds per-customer conversation transcripts.
package session

import (
	"sync"
	"time"

	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/pkg/metrics"
)

// Store maps customer identifiers to transcripts.
//
// A transcript is created lazily on first contact, seeded with the system
// prompt, and never expires. Acquire grants exclusive access to one
// customer's session until Release: two concurrent messages from the same
// customer serialize, while different customers proceed in parallel.
type Store struct {
	mu           sync.Mutex
	sessions     map[string]*Session
	systemPrompt string
	now          func() time.Time
}

// NewStore creates a session store seeding new transcripts with systemPrompt.
func NewStore(systemPrompt string) *Store {
	return &Store{
		sessions:     make(map[string]*Session),
		systemPrompt: systemPrompt,
		now:          time.Now,
	}
}

// Session is one customer's transcript. It is append-only: turns are never
// reordered or removed.
type Session struct {
	CustomerID string

	mu    sync.Mutex
	turns []model.Turn
}

// Acquire returns the customer's session, creating it on first contact,
// and blocks until no other handler holds it.
func (st *Store) Acquire(customerID string) *Session {
	st.mu.Lock()
	sess, ok := st.sessions[customerID]
	if !ok {
		sess = &Session{
			CustomerID: customerID,
			turns:      []model.Turn{model.SystemTurn(st.systemPrompt, st.now())},
		}
		st.sessions[customerID] = sess
		metrics.ActiveSessions.Inc()
	}
	st.mu.Unlock()

	sess.mu.Lock()
	return sess
}

// Release returns the session to the store, making it available to the
// next handler for the same customer.
func (st *Store) Release(sess *Session) {
	sess.mu.Unlock()
}

// Count returns the number of transcripts held.
func (st *Store) Count() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Append adds turns to the transcript. The caller must hold the session
// via Acquire.
func (s *Session) Append(turns ...model.Turn) {
	s.turns = append(s.turns, turns...)
	for _, turn := range turns {
		metrics.MessagesTotal.WithLabelValues(string(turn.Role)).Inc()
	}
}

// Turns returns a copy of the transcript in conversation order.
func (s *Session) Turns() []model.Turn {
	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the transcript.
func (s *Session) Len() int {
	return len(s.turns)
}
