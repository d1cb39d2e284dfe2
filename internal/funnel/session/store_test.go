package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultState(t *testing.T) {
	st := NewStore()
	assert.Equal(t, StateDefault, st.State(42))
}

func TestUpdatePersists(t *testing.T) {
	st := NewStore()
	st.Update(1, func(s *Session) {
		s.State = StateAwaitingName
		s.Form.RequestType = "Консультация"
	})

	st.Update(1, func(s *Session) {
		assert.Equal(t, StateAwaitingName, s.State)
		assert.Equal(t, "Консультация", s.Form.RequestType)
	})
}

func TestClearResetsStateAndForm(t *testing.T) {
	st := NewStore()
	st.Update(1, func(s *Session) {
		s.State = StateAwaitingComment
		s.Form = Form{RequestType: "Аудит", Name: "Иван", Contact: "@ivan"}
	})

	st.Clear(1)

	st.Update(1, func(s *Session) {
		assert.Equal(t, StateDefault, s.State)
		assert.Equal(t, Form{}, s.Form)
	})
}

func TestUsersIsolated(t *testing.T) {
	st := NewStore()
	st.Update(1, func(s *Session) { s.State = StateAwaitingName })
	assert.Equal(t, StateDefault, st.State(2))
	assert.Equal(t, StateAwaitingName, st.State(1))
}

func TestConcurrentUpdatesSerialized(t *testing.T) {
	st := NewStore()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.Update(1, func(s *Session) {
				// Non-atomic read-modify-write; only safe if Update
				// serializes access per user.
				if s.Form.Comment == "" {
					s.Form.Comment = "x"
				} else {
					s.Form.Comment += "x"
				}
			})
		}()
	}
	wg.Wait()

	st.Update(1, func(s *Session) {
		assert.Len(t, s.Form.Comment, n)
	})
}
