package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/saltyorg/wbnkit/internal/config"
)

// Provider lazily creates and memoizes one shared connection.
// After the first successful Instance call every later call returns the same
// *DB regardless of the requested name.
type Provider struct {
	cfg *config.Config

	mu sync.Mutex
	db *DB
}

// NewProvider creates a provider for the given configuration.
func NewProvider(cfg *config.Config) *Provider {
	return &Provider{cfg: cfg}
}

// Instance returns the shared connection, creating it from the named
// configuration entry on first use. Unknown names fall back to the default
// entry.
func (p *Provider) Instance(ctx context.Context, name string) (*DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}

	resolved, cfg, ok := p.cfg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: no %q or %q configuration", ErrConfiguration, name, config.DefaultName)
	}

	if cfg.Type == "" {
		return nil, fmt.Errorf("%w: database type not defined in %s configuration", ErrConfiguration, resolved)
	}
	if cfg.Type != config.BackendSQL {
		return nil, fmt.Errorf("%w: database type is not %s in %s configuration", ErrConfiguration, config.BackendSQL, resolved)
	}

	db, err := Open(ctx, resolved, cfg)
	if err != nil {
		return nil, err
	}

	p.db = db
	return db, nil
}

// Close closes the shared connection, if any. A later Instance call creates
// a new one.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}
