// internal/services/ledger.go
package services

import (
	"time"

	"github.com/guanl20/Blocktrust/internal/config"
	"github.com/guanl20/Blocktrust/internal/repository"
)

// Ledger wires one ledger instance: every service shares the same store and
// write lock.
type Ledger struct {
	Roles      *RoleService
	Pause      *PauseSwitch
	Lifecycle  *LifecycleService
	Projection *ProjectionService
	Stats      *StatsService
	Auth       *AuthService
}

type LedgerOptions struct {
	Policy    StatusPolicy
	Now       func() time.Time
	Publisher Publisher
	Recorder  Recorder
	Storage   string
}

func NewLedger(store repository.Store, cfg *config.Config, opts LedgerOptions) *Ledger {
	if opts.Policy == nil {
		opts.Policy = StrictStatusPolicy{}
	}

	writer := NewLedgerWriter(store)
	roles := NewRoleService(store, writer)
	if opts.Now != nil {
		roles.now = opts.Now
	}
	pause := NewPauseSwitch(store, writer, roles, opts.Recorder)

	return &Ledger{
		Roles: roles,
		Pause: pause,
		Lifecycle: NewLifecycleService(store, writer, roles, pause, LifecycleOptions{
			Policy:    opts.Policy,
			Now:       opts.Now,
			Publisher: opts.Publisher,
			Recorder:  opts.Recorder,
		}),
		Projection: NewProjectionService(store, roles),
		Stats:      NewStatsService(store, pause, opts.Policy, opts.Storage),
		Auth:       NewAuthService(store, cfg),
	}
}
