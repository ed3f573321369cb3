package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/varlayout/pkg/errors"
	"github.com/matzehuels/varlayout/pkg/pipeline"
)

// session is one client track. mu serialises refreshes and UI actions
// because an Orchestrator is not safe for concurrent use.
type session struct {
	id   string
	mu   sync.Mutex
	orch *pipeline.Orchestrator
	view pipeline.ViewSpec

	// lastUsed is guarded by the store's mutex.
	lastUsed time.Time
}

type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*session
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

func (st *sessionStore) create(orch *pipeline.Orchestrator, view pipeline.ViewSpec) *session {
	sess := &session{id: uuid.NewString(), orch: orch, view: view}
	st.mu.Lock()
	sess.lastUsed = st.now()
	st.sessions[sess.id] = sess
	st.mu.Unlock()
	return sess
}

func (st *sessionStore) get(id string) (*session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	sess, ok := st.sessions[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session %s not found", id)
	}
	sess.lastUsed = st.now()
	return sess, nil
}

func (st *sessionStore) delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	return ok
}

func (st *sessionStore) len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// sweep drops sessions idle for longer than the TTL and returns how many.
func (st *sessionStore) sweep(now time.Time) int {
	st.mu.Lock()
	defer st.mu.Unlock()
	n := 0
	for id, sess := range st.sessions {
		if now.Sub(sess.lastUsed) > st.ttl {
			delete(st.sessions, id)
			n++
		}
	}
	return n
}
