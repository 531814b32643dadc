// internal/services/transaction_log.go
package services

import (
	"context"
	"time"

	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/repository"
)

// TransactionLog is the append-only audit trail. Record is called with the
// ledger write lock held, which is what keeps timestamps non-decreasing.
type TransactionLog struct {
	store repository.Store
	now   func() time.Time
	last  time.Time
}

type LogEntry struct {
	ProductID uint64
	From      string
	To        string
	Type      models.TransactionType
	Status    models.TransactionStatus
	Metadata  models.JSONB
}

func NewTransactionLog(store repository.Store, now func() time.Time) *TransactionLog {
	if now == nil {
		now = time.Now
	}
	return &TransactionLog{store: store, now: now}
}

// Record appends entry inside tx. Timestamps are assigned here and never
// taken from the caller.
func (l *TransactionLog) Record(ctx context.Context, tx repository.Tx, entry LogEntry) (*models.Transaction, error) {
	if !entry.Type.Valid() {
		return nil, invalid("unknown transaction type %q", entry.Type)
	}
	if !entry.Status.Valid() {
		return nil, invalid("unknown transaction status %q", entry.Status)
	}
	if _, err := tx.GetProduct(ctx, entry.ProductID); err != nil {
		return nil, translate(err)
	}
	for _, account := range []string{entry.From, entry.To} {
		if _, err := tx.GetParticipant(ctx, account); err != nil {
			return nil, translate(err)
		}
	}

	metadata := entry.Metadata.Clone()
	if metadata == nil {
		metadata = models.JSONB{}
	}

	record := &models.Transaction{
		ProductID:   entry.ProductID,
		FromAccount: entry.From,
		ToAccount:   entry.To,
		Type:        entry.Type,
		Status:      entry.Status,
		Metadata:    metadata,
		Timestamp:   l.timestamp(),
	}
	if err := tx.AppendTransaction(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// AllForProduct returns the product's records, oldest first.
func (l *TransactionLog) AllForProduct(ctx context.Context, productID uint64) ([]models.Transaction, error) {
	history, err := l.store.ProductHistory(ctx, productID)
	if err != nil {
		return nil, translate(err)
	}
	if history == nil {
		history = []models.Transaction{}
	}
	return history, nil
}

// All returns records in insertion order.
func (l *TransactionLog) All(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, int64, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, 0, invalid("unknown transaction type %q", filter.Type)
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, invalid("unknown transaction status %q", filter.Status)
	}
	return l.store.ListTransactions(ctx, filter)
}

func (l *TransactionLog) timestamp() time.Time {
	now := l.now().UTC()
	if now.Before(l.last) {
		now = l.last
	}
	l.last = now
	return now
}
