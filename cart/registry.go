package cart

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Registry owns the cart session of every signed-in user. A session is opened
// (and loaded) when the user signs in and torn down when they sign out.
type Registry struct {
	store Store
	log   logrus.FieldLogger

	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Synchronizer
	lastSeen map[string]time.Time
	watchers map[string]map[int]chan Snapshot
	nextID   int
}

func NewRegistry(store Store, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		store:    store,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*Synchronizer),
		lastSeen: make(map[string]time.Time),
		watchers: make(map[string]map[int]chan Snapshot),
	}
}

// Open starts a fresh session for userID, replacing any existing one, and
// loads it. The session is kept even when the load fails so the next request
// can retry.
func (r *Registry) Open(ctx context.Context, userID string) (*Synchronizer, error) {
	s := r.newSession(userID)
	err := s.Load(ctx)

	if userID != "" {
		r.mu.Lock()
		r.sessions[userID] = s
		r.lastSeen[userID] = r.now()
		r.mu.Unlock()
	}
	return s, err
}

// Get returns the user's session, opening it if there is none and reloading
// it when its last load failed or it was invalidated. An empty userID yields an anonymous session that is never kept.
func (r *Registry) Get(ctx context.Context, userID string) (*Synchronizer, error) {
	if userID == "" {
		return r.newSession(""), nil
	}
	r.mu.Lock()
	s, ok := r.sessions[userID]
	if ok {
		r.lastSeen[userID] = r.now()
	}
	r.mu.Unlock()
	if ok {
		if s.Loaded() {
			return s, nil
		}
		return s, s.Load(ctx)
	}
	return r.Open(ctx, userID)
}

// Close tears down the user's session, if any. Watchers receive the final
// empty snapshot and then see their channel closed.
func (r *Registry) Close(userID string) {
	r.mu.Lock()
	s, ok := r.sessions[userID]
	delete(r.sessions, userID)
	delete(r.lastSeen, userID)
	r.mu.Unlock()
	if !ok {
		return
	}
	s.Teardown()

	r.mu.Lock()
	for _, ch := range r.watchers[userID] {
		close(ch)
	}
	delete(r.watchers, userID)
	r.mu.Unlock()
	r.log.WithField("user_id", userID).Info("🛒 cart session closed")
}

// Invalidate marks every open session stale. Call it after products change
// underneath the carts (admin edits or deletes) so each cart reloads on its
// next use.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	sessions := make([]*Synchronizer, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Invalidate()
	}
}

// Evict closes the sessions that have not been used for idle and have no
// watcher. It returns how many were closed. Remote rows are kept, so an
// evicted user gets the cart back on the next request.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []*Synchronizer
	for userID, seen := range r.lastSeen {
		if seen.Before(cutoff) && len(r.watchers[userID]) == 0 {
			stale = append(stale, r.sessions[userID])
			delete(r.sessions, userID)
			delete(r.lastSeen, userID)
		}
	}
	r.mu.Unlock()

	for _, s := range stale {
		s.Teardown()
	}
	return len(stale)
}

// RunEviction calls Evict every interval until ctx is done.
func (r *Registry) RunEviction(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Evict(idle); n > 0 {
				r.log.WithField("sessions", n).Info("🧹 evicted idle cart sessions")
			}
		}
	}
}

// Watch subscribes to the snapshots of userID's cart. Only the latest
// undelivered snapshot is kept. The returned func unsubscribes and closes the
// channel unless Close already did.
func (r *Registry) Watch(userID string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	if r.watchers[userID] == nil {
		r.watchers[userID] = make(map[int]chan Snapshot)
	}
	r.watchers[userID][id] = ch
	r.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if _, ok := r.watchers[userID][id]; !ok {
				return
			}
			delete(r.watchers[userID], id)
			if len(r.watchers[userID]) == 0 {
				delete(r.watchers, userID)
			}
			close(ch)
		})
	}
}

func (r *Registry) newSession(userID string) *Synchronizer {
	s := New(r.store, userID, r.log)
	if userID != "" {
		s.OnChange(func(snap Snapshot) { r.publish(userID, snap) })
	}
	return s
}

func (r *Registry) publish(userID string, snap Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.watchers[userID] {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
