// Package monitor tracks the outcome of persistence attempts. A failed save
// keeps the session running with its in-memory state intact, so this tracker
// is the visible channel telling the user the file on disk is stale.
package monitor

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Monitor struct {
	mu     sync.RWMutex
	status Status
	logger *zap.Logger
}

func New(logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		status: Status{Healthy: true},
		logger: logger,
	}
}

// RecordSuccess marks the latest save attempt as successful.
func (m *Monitor) RecordSuccess() {
	m.mu.Lock()
	defer m.mu.Unlock()
	recovered := !m.status.Healthy
	m.status = Status{
		Healthy:    true,
		LastSaveAt: time.Now().UTC(),
	}
	if recovered {
		m.logger.Info("persistence recovered")
	}
}

// RecordFailure marks the latest save attempt as failed.
func (m *Monitor) RecordFailure(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status.Healthy = false
	m.status.ConsecutiveFailures++
	if err != nil {
		m.status.LastError = err.Error()
	}
}

// GetStatus returns a snapshot of the persistence status.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
