package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Optimize refreshes planner statistics. Only sqlite needs it.
func (db *DB) Optimize(ctx context.Context) error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}
	if db.dialect.Driver != "sqlite" {
		log.Debug().Str("driver", db.dialect.Driver).Msg("Skipping optimize")
		return nil
	}

	if _, err := db.conn.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("failed to optimize database: %w", err)
	}
	return nil
}

// Vacuum rebuilds the sqlite database file to reclaim unused space.
func (db *DB) Vacuum(ctx context.Context) error {
	if db == nil || db.conn == nil {
		return fmt.Errorf("database not initialized")
	}
	if db.dialect.Driver != "sqlite" {
		log.Debug().Str("driver", db.dialect.Driver).Msg("Skipping vacuum")
		return nil
	}

	if _, err := db.conn.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

// Maintenance runs Optimize and Vacuum on a cron schedule.
type Maintenance struct {
	db      *DB
	cron    *cron.Cron
	entryID cron.EntryID
	mu      sync.Mutex
	running bool
}

// NewMaintenance creates a maintenance scheduler for db.
func NewMaintenance(db *DB) *Maintenance {
	return &Maintenance{
		db:   db,
		cron: cron.New(),
	}
}

// Start registers the schedule and starts the scheduler.
func (m *Maintenance) Start(schedule string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	id, err := m.cron.AddFunc(schedule, m.Run)
	if err != nil {
		return fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	m.entryID = id
	m.cron.Start()
	m.running = true

	log.Info().Str("schedule", schedule).Msg("Database maintenance scheduled")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (m *Maintenance) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	ctx := m.cron.Stop()
	<-ctx.Done()
	m.cron.Remove(m.entryID)
	m.entryID = 0
	m.running = false
}

// Run performs one maintenance pass.
func (m *Maintenance) Run() {
	ctx := context.Background()

	if err := m.db.Optimize(ctx); err != nil {
		log.Warn().Err(err).Msg("Database optimize failed")
		return
	}
	if err := m.db.Vacuum(ctx); err != nil {
		log.Warn().Err(err).Msg("Database vacuum failed")
		return
	}
	log.Debug().Str("database", m.db.name).Msg("Database maintenance complete")
}
