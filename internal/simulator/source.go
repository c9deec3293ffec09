package simulator

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/soltixdb/roomsense/internal/analytics"
	"github.com/soltixdb/roomsense/internal/logging"
)

// Source owns the current simulated dataset. Refresh swaps in a freshly
// generated table; readers keep whatever table they already hold.
type Source struct {
	mu         sync.RWMutex
	cfg        Config
	table      *analytics.Table
	generation int64

	logger    *logging.Logger
	scheduler *cron.Cron
}

// NewSource generates the initial dataset from cfg.Seed
func NewSource(cfg Config, logger *logging.Logger) (*Source, error) {
	if logger == nil {
		logger = logging.Global()
	}

	table, err := Generate(cfg)
	if err != nil {
		return nil, fmt.Errorf("generate dataset: %w", err)
	}

	return &Source{
		cfg:    cfg,
		table:  table,
		logger: logger,
	}, nil
}

// Table returns the current dataset
func (s *Source) Table() *analytics.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table
}

// RoomAreaM2 returns the floor area of the simulated room
func (s *Source) RoomAreaM2() float64 {
	return s.cfg.RoomAreaM2
}

// Generation counts completed refreshes
func (s *Source) Generation() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Refresh regenerates the dataset with the next seed in sequence
func (s *Source) Refresh() error {
	s.mu.RLock()
	cfg := s.cfg
	cfg.Seed += s.generation + 1
	s.mu.RUnlock()

	table, err := Generate(cfg)
	if err != nil {
		return fmt.Errorf("refresh dataset: %w", err)
	}

	s.mu.Lock()
	s.table = table
	s.generation++
	generation := s.generation
	s.mu.Unlock()

	s.logger.Info("Dataset refreshed",
		"dataset_id", table.ID(),
		"generation", generation,
		"rows", table.Len())
	return nil
}

// Start schedules Refresh on a standard 5-field cron expression.
// An empty schedule leaves the dataset fixed.
func (s *Source) Start(schedule string) error {
	if schedule == "" {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := s.Refresh(); err != nil {
			s.logger.Error("Scheduled dataset refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	s.scheduler = c
	s.mu.Unlock()

	c.Start()
	s.logger.Info("Dataset refresh scheduled", "schedule", schedule)
	return nil
}

// Stop halts scheduled refreshes and waits for a running one to finish
// or ctx to expire
func (s *Source) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.scheduler
	s.scheduler = nil
	s.mu.Unlock()

	if c == nil {
		return
	}

	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
}
