// internal/services/pause_service.go
package services

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/guanl20/Blocktrust/internal/repository"
)

// PauseSwitch is the emergency halt for every mutating lifecycle operation.
// Toggles take the ledger write lock, so an operation either completes
// before the pause or observes it.
type PauseSwitch struct {
	store    repository.Store
	writer   *LedgerWriter
	roles    *RoleService
	recorder Recorder
	paused   atomic.Bool
}

func NewPauseSwitch(store repository.Store, writer *LedgerWriter, roles *RoleService, recorder Recorder) *PauseSwitch {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &PauseSwitch{
		store:    store,
		writer:   writer,
		roles:    roles,
		recorder: recorder,
	}
}

func (p *PauseSwitch) Paused() bool {
	return p.paused.Load()
}

// Pause halts the ledger. Pausing an already paused ledger is a no-op.
func (p *PauseSwitch) Pause(ctx context.Context, caller string) error {
	return p.set(ctx, caller, true)
}

// Unpause resumes the ledger. Unpausing a running ledger is a no-op.
func (p *PauseSwitch) Unpause(ctx context.Context, caller string) error {
	return p.set(ctx, caller, false)
}

func (p *PauseSwitch) set(ctx context.Context, caller string, paused bool) error {
	return p.writer.locked(func() error {
		if err := p.roles.Authorize(ctx, p.store, caller, CapPause, nil); err != nil {
			return err
		}

		if p.paused.Swap(paused) != paused {
			p.recorder.SetPaused(paused)
			logrus.WithFields(logrus.Fields{
				"caller": caller,
				"paused": paused,
			}).Warn("Ledger pause switch toggled")
		}
		return nil
	})
}

// checkHalted must be called with the write lock held.
func (p *PauseSwitch) checkHalted() error {
	if p.paused.Load() {
		return ErrHalted
	}
	return nil
}
