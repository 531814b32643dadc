// internal/repository/memory.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/guanl20/Blocktrust/internal/models"
)

// MemoryStore keeps the ledger in process memory. Writes are staged on the
// transaction and copied into the committed state only when fn succeeds.
type MemoryStore struct {
	mu           sync.RWMutex
	participants map[string]models.Participant
	products     map[uint64]models.Product
	transactions []models.Transaction
	nextProduct  uint64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		participants: make(map[string]models.Participant),
		products:     make(map[uint64]models.Product),
	}
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) GetParticipant(_ context.Context, account string) (*models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.participants[account]
	if !ok {
		return nil, fmt.Errorf("participant %q: %w", account, ErrNotFound)
	}
	clone := p.Clone()
	return &clone, nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id uint64) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (s *MemoryStore) ListParticipants(_ context.Context) ([]models.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Participant, 0, len(s.participants))
	for _, p := range s.participants {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out, nil
}

func (s *MemoryStore) ListProducts(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if filter.Owner != "" && p.CurrentOwner != filter.Owner {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	return window(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (s *MemoryStore) ListTransactions(_ context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.Transaction, 0)
	for _, t := range s.transactions {
		if filter.ProductID != nil && t.ProductID != *filter.ProductID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		matched = append(matched, t.Clone())
	}

	return window(matched, filter.Offset, filter.Limit), int64(len(matched)), nil
}

func (s *MemoryStore) ProductHistory(_ context.Context, productID uint64) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.products[productID]; !ok {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}

	var history []models.Transaction
	for _, t := range s.transactions {
		if t.ProductID == productID {
			history = append(history, t.Clone())
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		if history[i].Timestamp.Equal(history[j].Timestamp) {
			return history[i].ID < history[j].ID
		}
		return history[i].Timestamp.Before(history[j].Timestamp)
	})
	return history, nil
}

func (s *MemoryStore) Stats(_ context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := newStats()
	stats.Participants = int64(len(s.participants))
	stats.Products = int64(len(s.products))
	stats.Transactions = int64(len(s.transactions))
	for _, p := range s.products {
		stats.ProductsByStatus[p.Status.String()]++
	}
	for _, t := range s.transactions {
		stats.TransactionsByStatus[string(t.Status)]++
		stats.TransactionsByType[string(t.Type)]++
	}
	return stats, nil
}

func (s *MemoryStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store:        s,
		participants: make(map[string]models.Participant),
		products:     make(map[uint64]models.Product),
		nextProduct:  s.nextProduct,
	}

	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for account, p := range tx.participants {
		s.participants[account] = p
	}
	for id, p := range tx.products {
		s.products[id] = p
	}
	s.transactions = append(s.transactions, tx.appended...)
	s.nextProduct = tx.nextProduct
	return nil
}

type memoryTx struct {
	store        *MemoryStore
	participants map[string]models.Participant
	products     map[uint64]models.Product
	appended     []models.Transaction
	nextProduct  uint64
}

// The store lock is held by Update for the lifetime of a memoryTx.

func (tx *memoryTx) GetParticipant(_ context.Context, account string) (*models.Participant, error) {
	if p, ok := tx.participants[account]; ok {
		clone := p.Clone()
		return &clone, nil
	}
	p, ok := tx.store.participants[account]
	if !ok {
		return nil, fmt.Errorf("participant %q: %w", account, ErrNotFound)
	}
	clone := p.Clone()
	return &clone, nil
}

func (tx *memoryTx) GetProduct(_ context.Context, id uint64) (*models.Product, error) {
	if p, ok := tx.products[id]; ok {
		return &p, nil
	}
	p, ok := tx.store.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return &p, nil
}

func (tx *memoryTx) InsertParticipant(ctx context.Context, p *models.Participant) error {
	if _, err := tx.GetParticipant(ctx, p.Account); err == nil {
		return fmt.Errorf("participant %q already exists", p.Account)
	}
	tx.participants[p.Account] = p.Clone()
	return nil
}

func (tx *memoryTx) UpdateParticipant(ctx context.Context, p *models.Participant) error {
	if _, err := tx.GetParticipant(ctx, p.Account); err != nil {
		return err
	}
	tx.participants[p.Account] = p.Clone()
	return nil
}

func (tx *memoryTx) CountParticipantsWithRole(_ context.Context, role models.Role) (int64, error) {
	var count int64
	for account, p := range tx.store.participants {
		if staged, ok := tx.participants[account]; ok {
			p = staged
		}
		if p.HasRole(role) {
			count++
		}
	}
	for account, p := range tx.participants {
		if _, ok := tx.store.participants[account]; !ok && p.HasRole(role) {
			count++
		}
	}
	return count, nil
}

func (tx *memoryTx) NextProductID(_ context.Context) (uint64, error) {
	return tx.nextProduct, nil
}

func (tx *memoryTx) InsertProduct(ctx context.Context, p *models.Product) error {
	if _, err := tx.GetProduct(ctx, p.ID); err == nil {
		return fmt.Errorf("product %d already exists", p.ID)
	}
	tx.products[p.ID] = *p
	if p.ID >= tx.nextProduct {
		tx.nextProduct = p.ID + 1
	}
	return nil
}

func (tx *memoryTx) UpdateProduct(ctx context.Context, p *models.Product) error {
	if _, err := tx.GetProduct(ctx, p.ID); err != nil {
		return err
	}
	tx.products[p.ID] = *p
	return nil
}

func (tx *memoryTx) AppendTransaction(_ context.Context, t *models.Transaction) error {
	t.ID = uint64(len(tx.store.transactions)+len(tx.appended)) + 1
	tx.appended = append(tx.appended, t.Clone())
	return nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
