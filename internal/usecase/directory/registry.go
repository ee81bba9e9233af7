package directory

import (
	"sync"

	"jobboard/internal/domain/job"
	"jobboard/internal/notify"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry owns one Store per signed-in session.
type Registry struct {
	mu     sync.Mutex
	stores map[uuid.UUID]*Store

	repo      job.Repository
	notifier  notify.Notifier
	logger    logrus.FieldLogger
	minSalary float64
	maxSalary float64
}

func NewRegistry(repo job.Repository, notifier notify.Notifier, logger logrus.FieldLogger, minSalary, maxSalary float64) *Registry {
	return &Registry{
		stores:    map[uuid.UUID]*Store{},
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		minSalary: minSalary,
		maxSalary: maxSalary,
	}
}

// ForSession returns the session's store, creating it with viewer on first use.
func (r *Registry) ForSession(sessionID uuid.UUID, viewer Viewer) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[sessionID]; ok {
		return s
	}
	s := r.newStore(sessionID, viewer)
	r.stores[sessionID] = s
	return s
}

// Ephemeral returns a signed-out store that lives for one request.
func (r *Registry) Ephemeral() *Store {
	return r.newStore(uuid.Nil, Anonymous)
}

func (r *Registry) Drop(sessionID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, sessionID)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

func (r *Registry) newStore(sessionID uuid.UUID, viewer Viewer) *Store {
	return NewStore(r.repo, Options{
		SessionID: sessionID,
		Viewer:    viewer,
		Notifier:  r.notifier,
		Logger:    r.logger,
		MinSalary: r.minSalary,
		MaxSalary: r.maxSalary,
	})
}
