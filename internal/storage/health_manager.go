package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Health is the last known state of an archive backend
type Health struct {
	LastCheck time.Time `json:"last_check"`
	Status    string    `json:"status"` // healthy or unhealthy
	Message   string    `json:"message"`
	Error     string    `json:"error,omitempty"`
}

// HealthManager keeps backend health in memory
type HealthManager struct {
	mu     sync.RWMutex
	health map[string]Health
}

// NewHealthManager creates a new health manager
func NewHealthManager() *HealthManager {
	return &HealthManager{
		health: make(map[string]Health),
	}
}

// UpdateHealth records the health of a backend
func (hm *HealthManager) UpdateHealth(backend string, h Health) {
	hm.mu.Lock()
	defer hm.mu.Unlock()
	hm.health[backend] = h
}

// GetHealth returns the health of one backend
func (hm *HealthManager) GetHealth(backend string) (Health, bool) {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	h, ok := hm.health[backend]
	return h, ok
}

// All returns a copy of every backend's health
func (hm *HealthManager) All() map[string]Health {
	hm.mu.RLock()
	defer hm.mu.RUnlock()
	out := make(map[string]Health, len(hm.health))
	for k, v := range hm.health {
		out[k] = v
	}
	return out
}

// Check pings a store once and records the result
func (hm *HealthManager) Check(ctx context.Context, backend string, store ChartStore) Health {
	h := Health{
		LastCheck: time.Now(),
		Status:    "healthy",
		Message:   backend + " connection active",
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		h.Status = "unhealthy"
		h.Message = "ping failed"
		h.Error = err.Error()
	}

	hm.UpdateHealth(backend, h)
	return h
}

// StartHealthMonitor checks the store immediately and then on every tick
// until ctx is cancelled
func (hm *HealthManager) StartHealthMonitor(ctx context.Context, wg *sync.WaitGroup, backend string, store ChartStore, interval time.Duration, logger *zap.SugaredLogger) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		hm.Check(ctx, backend, store)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if h := hm.Check(ctx, backend, store); h.Status != "healthy" {
					logger.Warnw("chart archive unhealthy", "backend", backend, "error", h.Error)
				}
			case <-ctx.Done():
				logger.Infow("stopping health monitor", "backend", backend)
				return
			}
		}
	}()
}
