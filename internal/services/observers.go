// internal/services/observers.go
package services

import (
	"context"

	"github.com/guanl20/Blocktrust/internal/models"
)

// Recorder receives operational signals from the ledger services.
type Recorder interface {
	ObserveOperation(operation, outcome string)
	SetPaused(paused bool)
}

// Publisher forwards committed transactions to downstream consumers.
// It is called after commit; a failure never undoes the ledger write.
type Publisher interface {
	Publish(ctx context.Context, transaction *models.Transaction) error
}

type NopRecorder struct{}

func (NopRecorder) ObserveOperation(string, string) {}
func (NopRecorder) SetPaused(bool)                  {}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *models.Transaction) error { return nil }
