// Package session keeps per-user conversation state in memory.
package session

import "sync"

// State enumerates where a user is in the contact form dialogue.
type State string

const (
	StateDefault         State = "default"
	StateAwaitingName    State = "awaiting_name"
	StateAwaitingContact State = "awaiting_contact"
	StateAwaitingComment State = "awaiting_comment"
)

// Form accumulates answers collected during the contact dialogue.
type Form struct {
	RequestType string
	Name        string
	Contact     string
	Comment     string
}

// Session is the mutable per-user record. It is only accessed under the
// store's per-user lock via Update.
type Session struct {
	State State
	Form  Form
}

// Reset returns the session to the idle state and clears form progress.
func (s *Session) Reset() {
	s.State = StateDefault
	s.Form = Form{}
}

type entry struct {
	mu   sync.Mutex
	sess Session
}

// Store holds sessions keyed by user ID. The zero value is not usable;
// call NewStore.
type Store struct {
	mu    sync.Mutex
	users map[int64]*entry
}

// NewStore returns an empty session store.
func NewStore() *Store {
	return &Store{users: make(map[int64]*entry)}
}

func (st *Store) get(userID int64) *entry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.users[userID]
	if !ok {
		e = &entry{sess: Session{State: StateDefault}}
		st.users[userID] = e
	}
	return e
}

// Update runs fn with exclusive access to the user's session. All
// decisions about a user's funnel progress happen inside fn, which keeps
// concurrent updates for the same user strictly serialized.
func (st *Store) Update(userID int64, fn func(*Session)) {
	e := st.get(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&e.sess)
}

// State returns the user's current dialogue state.
func (st *Store) State(userID int64) State {
	e := st.get(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.State
}

// Clear resets the user's session to idle. Entries are reset in place
// rather than deleted so a racing Update never observes a stale pointer.
func (st *Store) Clear(userID int64) {
	st.Update(userID, func(s *Session) { s.Reset() })
}

// Len returns the number of users the store has seen.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.users)
}
