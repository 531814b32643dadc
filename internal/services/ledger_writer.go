// internal/services/ledger_writer.go
package services

import (
	"context"
	"sync"

	"github.com/guanl20/Blocktrust/internal/repository"
)

// LedgerWriter serializes every mutation of one ledger instance. Role
// changes, pause toggles and lifecycle operations all pass through it, so a
// pause can never interleave with a half-applied transition.
type LedgerWriter struct {
	mu    sync.Mutex
	store repository.Store
}

func NewLedgerWriter(store repository.Store) *LedgerWriter {
	return &LedgerWriter{store: store}
}

func (w *LedgerWriter) do(ctx context.Context, fn func(tx repository.Tx) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return translate(w.store.Update(ctx, fn))
}

// locked runs fn under the write lock without opening a store transaction.
func (w *LedgerWriter) locked(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return fn()
}
