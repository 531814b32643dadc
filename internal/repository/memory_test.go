// internal/repository/memory_test.go
package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guanl20/Blocktrust/internal/models"
)

func seedParticipant(t *testing.T, s *MemoryStore, account string, roles ...models.Role) {
	t.Helper()
	p := &models.Participant{Account: account}
	for _, r := range roles {
		p.AddRole(r)
	}
	require.NoError(t, s.Update(context.Background(), func(tx Tx) error {
		return tx.InsertParticipant(context.Background(), p)
	}))
}

func insertProduct(t *testing.T, s *MemoryStore, owner string) uint64 {
	t.Helper()
	var id uint64
	require.NoError(t, s.Update(context.Background(), func(tx Tx) error {
		next, err := tx.NextProductID(context.Background())
		if err != nil {
			return err
		}
		id = next
		return tx.InsertProduct(context.Background(), &models.Product{ID: next, Name: "crate", CurrentOwner: owner, CreatedBy: owner})
	}))
	return id
}

func TestMemoryStoreProductIDsStartAtZero(t *testing.T) {
	s := NewMemoryStore()
	seedParticipant(t, s, "maker", models.RoleManufacturer)

	assert.Equal(t, uint64(0), insertProduct(t, s, "maker"))
	assert.Equal(t, uint64(1), insertProduct(t, s, "maker"))
	assert.Equal(t, uint64(2), insertProduct(t, s, "maker"))
}

func TestMemoryStoreDiscardsWritesOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedParticipant(t, s, "maker", models.RoleManufacturer)

	boom := errors.New("boom")
	err := s.Update(ctx, func(tx Tx) error {
		id, _ := tx.NextProductID(ctx)
		if err := tx.InsertProduct(ctx, &models.Product{ID: id, Name: "lost", CurrentOwner: "maker"}); err != nil {
			return err
		}
		if err := tx.AppendTransaction(ctx, &models.Transaction{ProductID: id, Type: models.TransactionTypeCreation}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.GetProduct(ctx, 0)
	assert.ErrorIs(t, err, ErrNotFound)

	transactions, total, err := s.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, transactions)
	assert.Zero(t, total)

	// The id is not burned by the rolled-back attempt.
	assert.Equal(t, uint64(0), insertProduct(t, s, "maker"))
}

func TestMemoryStoreDiscardsWritesOnCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Update(ctx, func(tx Tx) error {
		cancel()
		return tx.InsertParticipant(ctx, &models.Participant{Account: "ghost"})
	})
	require.ErrorIs(t, err, context.Canceled)

	_, err = s.GetParticipant(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreTransactionIDsAreSequential(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedParticipant(t, s, "maker", models.RoleManufacturer)
	id := insertProduct(t, s, "maker")

	var ids []uint64
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Update(ctx, func(tx Tx) error {
			record := &models.Transaction{ProductID: id, Type: models.TransactionTypeInspection}
			if err := tx.AppendTransaction(ctx, record); err != nil {
				return err
			}
			ids = append(ids, record.ID)
			return nil
		}))
	}
	assert.Equal(t, []uint64{1, 2, 3}, ids)
}

func TestMemoryStoreHistoryOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedParticipant(t, s, "maker", models.RoleManufacturer)
	first := insertProduct(t, s, "maker")
	second := insertProduct(t, s, "maker")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Update(ctx, func(tx Tx) error {
		for _, rec := range []models.Transaction{
			{ProductID: first, Type: models.TransactionTypeCreation, Timestamp: base},
			{ProductID: second, Type: models.TransactionTypeCreation, Timestamp: base},
			{ProductID: first, Type: models.TransactionTypeTransfer, Timestamp: base.Add(time.Minute)},
			{ProductID: first, Type: models.TransactionTypeInspection, Timestamp: base.Add(time.Minute)},
		} {
			rec := rec
			if err := tx.AppendTransaction(ctx, &rec); err != nil {
				return err
			}
		}
		return nil
	}))

	history, err := s.ProductHistory(ctx, first)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.TransactionTypeCreation, history[0].Type)
	assert.Equal(t, models.TransactionTypeTransfer, history[1].Type)
	assert.Equal(t, models.TransactionTypeInspection, history[2].Type)
	assert.Less(t, history[1].ID, history[2].ID)

	_, err = s.ProductHistory(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReadsAreIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedParticipant(t, s, "maker", models.RoleManufacturer)
	id := insertProduct(t, s, "maker")

	p, err := s.GetProduct(ctx, id)
	require.NoError(t, err)
	p.CurrentOwner = "someone-else"

	participant, err := s.GetParticipant(ctx, "maker")
	require.NoError(t, err)
	participant.Roles[0] = "admin"

	again, err := s.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "maker", again.CurrentOwner)

	stored, err := s.GetParticipant(ctx, "maker")
	require.NoError(t, err)
	assert.True(t, stored.HasRole(models.RoleManufacturer))
	assert.False(t, stored.HasRole(models.RoleAdmin))
}

func TestMemoryStoreCountParticipantsWithRoleSeesStagedWrites(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedParticipant(t, s, "root", models.RoleAdmin)
	seedParticipant(t, s, "ops", models.RoleAdmin)

	require.NoError(t, s.Update(ctx, func(tx Tx) error {
		ops, err := tx.GetParticipant(ctx, "ops")
		require.NoError(t, err)
		ops.RemoveRole(models.RoleAdmin)
		require.NoError(t, tx.UpdateParticipant(ctx, ops))
		require.NoError(t, tx.InsertParticipant(ctx, &models.Participant{Account: "new", Roles: []string{"admin"}}))

		count, err := tx.CountParticipantsWithRole(ctx, models.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		return nil
	}))
}

func TestMemoryStoreListFiltersAndWindow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedParticipant(t, s, "maker", models.RoleManufacturer)
	seedParticipant(t, s, "shop", models.RoleRetailer)
	for i := 0; i < 5; i++ {
		insertProduct(t, s, "maker")
	}
	insertProduct(t, s, "shop")

	products, total, err := s.ListProducts(ctx, ProductFilter{Owner: "maker", Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, products, 2)
	assert.Equal(t, uint64(1), products[0].ID)
	assert.Equal(t, uint64(2), products[1].ID)

	products, _, err = s.ListProducts(ctx, ProductFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, products)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Participants)
	assert.Equal(t, int64(6), stats.Products)
	assert.Equal(t, int64(6), stats.ProductsByStatus["Created"])
}
