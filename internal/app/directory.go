package app

import (
	"sync"

	"github.com/google/uuid"

	"telefunken/internal/domain"
)

// Entry is one session in a Directory. Do serializes access to it.
type Entry struct {
	ID string

	mu      sync.Mutex
	session *domain.Session
}

// Do runs fn with exclusive access to the session.
func (e *Entry) Do(fn func(sess *domain.Session) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}

// Directory maps session ids to sessions for hosts that do not provide
// their own match registry. It is created once and passed to callers.
type Directory struct {
	svc *Service

	mu       sync.RWMutex
	sessions map[string]*Entry
}

// NewDirectory builds an empty Directory creating sessions through svc.
func NewDirectory(svc *Service) *Directory {
	return &Directory{svc: svc, sessions: make(map[string]*Entry)}
}

// Create opens a session for ownerID and returns its id with the creation
// events.
func (d *Directory) Create(ownerID string) (string, []Event) {
	sess, events := d.svc.CreateSession(ownerID)
	entry := &Entry{ID: uuid.NewString(), session: sess}

	d.mu.Lock()
	d.sessions[entry.ID] = entry
	d.mu.Unlock()
	return entry.ID, events
}

// Lookup finds a session by id.
func (d *Directory) Lookup(id string) (*Entry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	entry, ok := d.sessions[id]
	if !ok {
		return nil, ErrNoSession
	}
	return entry, nil
}

// Remove forgets a session. Unknown ids are ignored.
func (d *Directory) Remove(id string) {
	d.mu.Lock()
	delete(d.sessions, id)
	d.mu.Unlock()
}

// Len reports how many sessions are open.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.sessions)
}
