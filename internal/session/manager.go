package session

import (
	"log/slog"
	"sync"
	"time"
)

// ReaperConfig configures the background idle-session reaper.
type ReaperConfig struct {
	// IdleTTL is how long a session must be idle before eviction.
	// Default: 30 minutes.
	IdleTTL time.Duration

	// SweepInterval is how often the reaper scans for idle sessions.
	// Default: 60 seconds.
	SweepInterval time.Duration

	// OnEvict is called for each evicted session, outside the lock.
	OnEvict func(ownerID string)
}

// Manager owns the process-wide map of conversation contexts, keyed by owner.
type Manager struct {
	mu       sync.Mutex
	contexts map[string]*Context

	reaperStop chan struct{}
	reaperDone chan struct{}
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{contexts: make(map[string]*Context)}
}

// Ensure returns the context for an owner, creating an idle one on first
// contact. The second return reports whether the context was just created.
func (m *Manager) Ensure(ownerID, label string) (*Context, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contexts[ownerID]
	if !ok {
		c = &Context{OwnerID: ownerID, Label: label, State: StateIdle}
		c.Touch()
		m.contexts[ownerID] = c
		return c, true
	}
	if label != "" {
		c.Label = label
	}
	c.Touch()
	return c, false
}

// Get returns the context for an owner, or nil if none exists.
func (m *Manager) Get(ownerID string) *Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.contexts[ownerID]
}

// Remove evicts an owner's context.
func (m *Manager) Remove(ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.contexts, ownerID)
}

// Len returns the number of live contexts.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.contexts)
}

// StartReaper launches a background goroutine that evicts idle sessions.
// Call Stop() to shut it down.
func (m *Manager) StartReaper(cfg *ReaperConfig) {
	if cfg == nil {
		cfg = &ReaperConfig{}
	}
	if cfg.IdleTTL == 0 {
		cfg.IdleTTL = 30 * time.Minute
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 60 * time.Second
	}

	m.reaperStop = make(chan struct{})
	m.reaperDone = make(chan struct{})

	go m.reapLoop(cfg)
	slog.Info("session: reaper started",
		"idle_ttl", cfg.IdleTTL,
		"sweep_interval", cfg.SweepInterval)
}

// Stop shuts down the reaper goroutine.
func (m *Manager) Stop() {
	if m.reaperStop != nil {
		close(m.reaperStop)
		<-m.reaperDone
		m.reaperStop = nil
		m.reaperDone = nil
	}
}

func (m *Manager) reapLoop(cfg *ReaperConfig) {
	defer close(m.reaperDone)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.reaperStop:
			return
		case <-ticker.C:
			m.sweep(cfg)
		}
	}
}

func (m *Manager) sweep(cfg *ReaperConfig) {
	now := time.Now()

	var evicted []string
	m.mu.Lock()
	for owner, c := range m.contexts {
		if now.Sub(c.lastSeen) > cfg.IdleTTL {
			delete(m.contexts, owner)
			evicted = append(evicted, owner)
		}
	}
	m.mu.Unlock()

	for _, owner := range evicted {
		slog.Info("session: evicted idle session", "owner", owner, "idle_ttl", cfg.IdleTTL)
		if cfg.OnEvict != nil {
			cfg.OnEvict(owner)
		}
	}
}
