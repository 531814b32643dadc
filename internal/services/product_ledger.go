// internal/services/product_ledger.go
package services

import (
	"context"
	"errors"
	"time"

	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/repository"
)

// ProductLedger owns product records. Its writes only happen inside a
// store transaction opened by the lifecycle service.
type ProductLedger struct {
	policy StatusPolicy
	now    func() time.Time
}

func NewProductLedger(policy StatusPolicy, now func() time.Time) *ProductLedger {
	if policy == nil {
		policy = StrictStatusPolicy{}
	}
	if now == nil {
		now = time.Now
	}
	return &ProductLedger{policy: policy, now: now}
}

// CreateProduct assigns the next sequential id and makes creator the owner.
func (l *ProductLedger) CreateProduct(ctx context.Context, tx repository.Tx, creator, name, description, location string) (*models.Product, error) {
	id, err := tx.NextProductID(ctx)
	if err != nil {
		return nil, err
	}

	now := l.now()
	product := &models.Product{
		ID:              id,
		Name:            name,
		Description:     description,
		CurrentLocation: location,
		CurrentOwner:    creator,
		Status:          models.ProductStatusCreated,
		CreatedBy:       creator,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.InsertProduct(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (l *ProductLedger) GetProduct(ctx context.Context, r repository.Reader, id uint64) (*models.Product, error) {
	product, err := r.GetProduct(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return product, nil
}

// TransferOwnership reassigns the owner; status is left untouched. An empty
// location keeps the current one.
func (l *ProductLedger) TransferOwnership(ctx context.Context, tx repository.Tx, product *models.Product, newOwner, location string) error {
	if newOwner == product.CurrentOwner {
		return invalid("product %d is already owned by %s", product.ID, newOwner)
	}
	if _, err := tx.GetParticipant(ctx, newOwner); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return translate(err)
		}
		return err
	}

	product.CurrentOwner = newOwner
	if location != "" {
		product.CurrentLocation = location
	}
	product.UpdatedAt = l.now()
	return tx.UpdateProduct(ctx, product)
}

// UpdateStatus applies the status policy and returns the previous status.
func (l *ProductLedger) UpdateStatus(ctx context.Context, tx repository.Tx, product *models.Product, status models.ProductStatus) (models.ProductStatus, error) {
	previous := product.Status
	if err := l.policy.CheckTransition(previous, status); err != nil {
		return previous, err
	}

	product.Status = status
	product.UpdatedAt = l.now()
	if err := tx.UpdateProduct(ctx, product); err != nil {
		return previous, err
	}
	return previous, nil
}

func (l *ProductLedger) ListProducts(ctx context.Context, store repository.Store, filter repository.ProductFilter) ([]models.Product, int64, error) {
	return store.ListProducts(ctx, filter)
}
