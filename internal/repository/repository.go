// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/guanl20/Blocktrust/internal/models"
)

// ErrNotFound is returned by every lookup whose key has no record.
var ErrNotFound = errors.New("record not found")

type ProductFilter struct {
	Owner  string
	Status *models.ProductStatus
	Offset int
	Limit  int // zero means no limit
}

type TransactionFilter struct {
	ProductID *uint64
	Type      models.TransactionType
	Status    models.TransactionStatus
	Offset    int
	Limit     int // zero means no limit
}

// Stats are the aggregate counts rendered on the dashboard.
type Stats struct {
	Participants         int64            `json:"participants"`
	Products             int64            `json:"products"`
	ProductsByStatus     map[string]int64 `json:"products_by_status"`
	Transactions         int64            `json:"transactions"`
	TransactionsByStatus map[string]int64 `json:"transactions_by_status"`
	TransactionsByType   map[string]int64 `json:"transactions_by_type"`
}

func newStats() Stats {
	return Stats{
		ProductsByStatus:     map[string]int64{},
		TransactionsByStatus: map[string]int64{},
		TransactionsByType:   map[string]int64{},
	}
}

// Reader is the lookup surface shared by stores and open transactions.
type Reader interface {
	GetParticipant(ctx context.Context, account string) (*models.Participant, error)
	GetProduct(ctx context.Context, id uint64) (*models.Product, error)
}

// Tx is a unit of work. Nothing written through it is visible to other
// readers until the enclosing Update returns nil.
type Tx interface {
	Reader
	InsertParticipant(ctx context.Context, p *models.Participant) error
	UpdateParticipant(ctx context.Context, p *models.Participant) error
	CountParticipantsWithRole(ctx context.Context, role models.Role) (int64, error)
	NextProductID(ctx context.Context) (uint64, error)
	InsertProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	AppendTransaction(ctx context.Context, t *models.Transaction) error
}

// Store is the persistence boundary of the ledger. Implementations must
// apply an Update atomically: either every write of fn commits or none does.
type Store interface {
	Reader
	ListParticipants(ctx context.Context) ([]models.Participant, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	// ListTransactions returns records in insertion order.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error)
	// ProductHistory returns a product's records by timestamp, oldest first.
	ProductHistory(ctx context.Context, productID uint64) ([]models.Transaction, error)
	Stats(ctx context.Context) (Stats, error)
	Update(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}
