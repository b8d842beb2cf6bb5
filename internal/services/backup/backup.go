// Package backup periodically snapshots the tasks file. The flat-file store
// rewrites the whole file on every mutation with no partial-write
// protection, so timestamped copies are the recovery path if a rewrite is
// ever interrupted.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Config struct {
	Schedule string
	Dir      string
}

// Service copies the tasks file into the backup directory on a cron schedule.
type Service struct {
	source string
	cfg    Config
	cron   *cron.Cron
	logger *zap.Logger
}

func New(source string, cfg Config, logger *zap.Logger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 1h"
	}
	if cfg.Dir == "" {
		cfg.Dir = "./backups"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: source,
		cfg:    cfg,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules the backup job and runs one snapshot immediately.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.snapshot); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", s.cfg.Schedule, err)
	}
	s.cron.Start()
	s.snapshot()
	return nil
}

// Stop halts the scheduler, waiting for a running snapshot to finish.
func (s *Service) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
		s.logger.Warn("backup scheduler stop timed out")
	}
}

func (s *Service) snapshot() {
	data, err := os.ReadFile(s.source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		s.logger.Error("backup read failed", zap.Error(err))
		return
	}

	if err := os.MkdirAll(s.cfg.Dir, 0o755); err != nil {
		s.logger.Error("backup dir creation failed", zap.Error(err))
		return
	}

	name := fmt.Sprintf("%s.%s", filepath.Base(s.source), time.Now().UTC().Format("20060102T150405"))
	target := filepath.Join(s.cfg.Dir, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		s.logger.Error("backup write failed", zap.String("target", target), zap.Error(err))
		return
	}
	s.logger.Info("backup written", zap.String("target", target), zap.Int("bytes", len(data)))
}
