package storefront

import (
	"context"
	"sync"
	"time"

	"github.com/mserebryaakov/boodai-storefront-service/internal/kv"
)

type session struct {
	engine   *Engine
	open     sync.Once
	lastSeen time.Time
}

// Registry hands out one Engine per session, restoring it from the store
// the first time a session is seen. Idle engines can be swept and are
// rebuilt from the store on the next request.
type Registry struct {
	mu       sync.Mutex
	store    kv.Store
	deps     Deps
	sessions map[string]*session
	now      func() time.Time
}

func NewRegistry(store kv.Store, deps Deps) *Registry {
	return &Registry{
		store:    store,
		deps:     deps,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

func (r *Registry) Get(ctx context.Context, sessionID string) (*Engine, error) {
	if sessionID == "" {
		return nil, errSessionRequired
	}

	r.mu.Lock()
	s, ok := r.sessions[sessionID]
	if !ok {
		s = &session{engine: NewEngine(kv.Namespace(r.store, "session:"+sessionID), r.deps)}
		r.sessions[sessionID] = s
	}
	s.lastSeen = r.now()
	r.mu.Unlock()

	s.open.Do(func() {
		s.engine.Open(ctx)
	})
	return s.engine, nil
}

// Sweep drops engines idle for longer than maxIdle and returns their count.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	n := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// RunSweeper sweeps every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				r.deps.Log.Debugf("swept %d idle sessions", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
