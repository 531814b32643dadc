// internal/models/transaction.go
package models

import (
	"time"
)

// Transaction is an immutable audit entry recording a product event.
type Transaction struct {
	ID          uint64            `json:"id" gorm:"primaryKey;autoIncrement"`
	ProductID   uint64            `json:"product_id" gorm:"not null;index"`
	FromAccount string            `json:"from_account" gorm:"size:128;not null;index"`
	ToAccount   string            `json:"to_account" gorm:"size:128;not null;index"`
	Type        TransactionType   `json:"type" gorm:"type:varchar(20);not null;index"`
	Status      TransactionStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Metadata    JSONB             `json:"metadata" gorm:"type:jsonb;not null"`
	Timestamp   time.Time         `json:"timestamp" gorm:"not null;index"`
}

func (t Transaction) Clone() Transaction {
	t.Metadata = t.Metadata.Clone()
	return t
}
