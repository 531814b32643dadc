// internal/services/lifecycle_service.go
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guanl20/Blocktrust/internal/models"
	"github.com/guanl20/Blocktrust/internal/repository"
	"github.com/guanl20/Blocktrust/internal/utils"
)

// LifecycleService validates and applies product state transitions. Each
// operation authorizes the caller, checks the pause switch, then mutates the
// product ledger and appends to the transaction log in one store commit.
type LifecycleService struct {
	store     repository.Store
	writer    *LedgerWriter
	roles     *RoleService
	pause     *PauseSwitch
	ledger    *ProductLedger
	log       *TransactionLog
	publisher Publisher
	recorder  Recorder
}

type LifecycleOptions struct {
	Policy    StatusPolicy
	Now       func() time.Time
	Publisher Publisher
	Recorder  Recorder
}

type CreateProductRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description" validate:"max=4096"`
	Location    string `json:"location,omitempty" validate:"max=255"`
}

type TransferRequest struct {
	NewOwner string                   `json:"new_owner" validate:"required,account,max=128"`
	Status   models.TransactionStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	Location string                   `json:"location,omitempty" validate:"max=255"`
	Notes    string                   `json:"notes,omitempty" validate:"max=2048"`
}

type UpdateStatusRequest struct {
	Status *models.ProductStatus `json:"status" validate:"required"`
}

type InspectionRequest struct {
	Notes    string                   `json:"notes" validate:"required,max=2048"`
	Status   models.TransactionStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed"`
	Metadata map[string]interface{}   `json:"metadata,omitempty"`
}

// LifecycleResult is the committed state after an operation.
type LifecycleResult struct {
	Product     *models.Product     `json:"product"`
	Transaction *models.Transaction `json:"transaction"`
}

func NewLifecycleService(store repository.Store, writer *LedgerWriter, roles *RoleService, pause *PauseSwitch, opts LifecycleOptions) *LifecycleService {
	if opts.Publisher == nil {
		opts.Publisher = NopPublisher{}
	}
	if opts.Recorder == nil {
		opts.Recorder = NopRecorder{}
	}
	return &LifecycleService{
		store:     store,
		writer:    writer,
		roles:     roles,
		pause:     pause,
		ledger:    NewProductLedger(opts.Policy, opts.Now),
		log:       NewTransactionLog(store, opts.Now),
		publisher: opts.Publisher,
		recorder:  opts.Recorder,
	}
}

func (s *LifecycleService) CreateProduct(ctx context.Context, caller string, req *CreateProductRequest) (*LifecycleResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalidRequest(err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name must not be blank")
	}
	description := strings.TrimSpace(req.Description)
	location := strings.TrimSpace(req.Location)

	return s.mutate(ctx, "create", caller, func(tx repository.Tx) (*LifecycleResult, error) {
		if err := s.roles.Authorize(ctx, tx, caller, CapCreateProduct, nil); err != nil {
			return nil, err
		}
		if err := s.pause.checkHalted(); err != nil {
			return nil, err
		}

		product, err := s.ledger.CreateProduct(ctx, tx, caller, name, description, location)
		if err != nil {
			return nil, err
		}
		record, err := s.log.Record(ctx, tx, LogEntry{
			ProductID: product.ID,
			From:      caller,
			To:        caller,
			Type:      models.TransactionTypeCreation,
			Status:    models.TransactionStatusCompleted,
			Metadata: models.JSONB{
				"name":        name,
				"description": description,
				"location":    location,
				"status":      product.Status.String(),
			},
		})
		if err != nil {
			return nil, err
		}
		return &LifecycleResult{Product: product, Transaction: record}, nil
	})
}

func (s *LifecycleService) TransferOwnership(ctx context.Context, caller string, productID uint64, req *TransferRequest) (*LifecycleResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalidRequest(err)
	}
	newOwner := strings.TrimSpace(req.NewOwner)
	if newOwner == "" {
		return nil, invalid("new_owner must not be blank")
	}
	status := req.Status
	if status == "" {
		status = models.TransactionStatusCompleted
	}
	location := strings.TrimSpace(req.Location)

	return s.mutate(ctx, "transfer", caller, func(tx repository.Tx) (*LifecycleResult, error) {
		product, err := s.ledger.GetProduct(ctx, tx, productID)
		if err != nil {
			return nil, err
		}
		if err := s.roles.Authorize(ctx, tx, caller, CapTransfer, product); err != nil {
			return nil, err
		}
		if err := s.pause.checkHalted(); err != nil {
			return nil, err
		}

		previousOwner := product.CurrentOwner
		if err := s.ledger.TransferOwnership(ctx, tx, product, newOwner, location); err != nil {
			return nil, err
		}

		metadata := models.JSONB{
			"previous_owner": previousOwner,
			"location":       product.CurrentLocation,
		}
		if notes := strings.TrimSpace(req.Notes); notes != "" {
			metadata["notes"] = notes
		}
		if caller != previousOwner {
			metadata["initiated_by"] = caller
		}

		record, err := s.log.Record(ctx, tx, LogEntry{
			ProductID: product.ID,
			From:      previousOwner,
			To:        newOwner,
			Type:      models.TransactionTypeTransfer,
			Status:    status,
			Metadata:  metadata,
		})
		if err != nil {
			return nil, err
		}
		return &LifecycleResult{Product: product, Transaction: record}, nil
	})
}

func (s *LifecycleService) UpdateStatus(ctx context.Context, caller string, productID uint64, req *UpdateStatusRequest) (*LifecycleResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalidRequest(err)
	}
	status := *req.Status
	if !status.Valid() {
		return nil, invalid("unknown status %d", status)
	}

	return s.mutate(ctx, "update_status", caller, func(tx repository.Tx) (*LifecycleResult, error) {
		product, err := s.ledger.GetProduct(ctx, tx, productID)
		if err != nil {
			return nil, err
		}
		if err := s.roles.Authorize(ctx, tx, caller, CapUpdateStatus, product); err != nil {
			return nil, err
		}
		if err := s.pause.checkHalted(); err != nil {
			return nil, err
		}

		previous, err := s.ledger.UpdateStatus(ctx, tx, product, status)
		if err != nil {
			return nil, err
		}
		record, err := s.log.Record(ctx, tx, LogEntry{
			ProductID: product.ID,
			From:      caller,
			To:        product.CurrentOwner,
			Type:      models.TransactionTypeStatusUpdate,
			Status:    models.TransactionStatusCompleted,
			Metadata: models.JSONB{
				"previous_status": previous.String(),
				"status":          status.String(),
			},
		})
		if err != nil {
			return nil, err
		}
		return &LifecycleResult{Product: product, Transaction: record}, nil
	})
}

// Inspect records an inspection of the product without changing it.
func (s *LifecycleService) Inspect(ctx context.Context, caller string, productID uint64, req *InspectionRequest) (*LifecycleResult, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, invalidRequest(err)
	}
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, invalid("notes must not be blank")
	}
	status := req.Status
	if status == "" {
		status = models.TransactionStatusCompleted
	}

	return s.mutate(ctx, "inspect", caller, func(tx repository.Tx) (*LifecycleResult, error) {
		product, err := s.ledger.GetProduct(ctx, tx, productID)
		if err != nil {
			return nil, err
		}
		if err := s.roles.Authorize(ctx, tx, caller, CapInspect, product); err != nil {
			return nil, err
		}
		if err := s.pause.checkHalted(); err != nil {
			return nil, err
		}

		metadata := models.JSONB(req.Metadata).Clone()
		if metadata == nil {
			metadata = models.JSONB{}
		}
		metadata["notes"] = notes
		metadata["product_status"] = product.Status.String()

		record, err := s.log.Record(ctx, tx, LogEntry{
			ProductID: product.ID,
			From:      caller,
			To:        product.CurrentOwner,
			Type:      models.TransactionTypeInspection,
			Status:    status,
			Metadata:  metadata,
		})
		if err != nil {
			return nil, err
		}
		return &LifecycleResult{Product: product, Transaction: record}, nil
	})
}

func (s *LifecycleService) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	return s.ledger.GetProduct(ctx, s.store, id)
}

func (s *LifecycleService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int64, error) {
	return s.ledger.ListProducts(ctx, s.store, filter)
}

func (s *LifecycleService) ProductHistory(ctx context.Context, productID uint64) ([]models.Transaction, error) {
	return s.log.AllForProduct(ctx, productID)
}

func (s *LifecycleService) Transactions(ctx context.Context, filter repository.TransactionFilter) ([]models.Transaction, int64, error) {
	return s.log.All(ctx, filter)
}

func (s *LifecycleService) mutate(ctx context.Context, operation, caller string, fn func(tx repository.Tx) (*LifecycleResult, error)) (*LifecycleResult, error) {
	var result *LifecycleResult
	err := s.writer.do(ctx, func(tx repository.Tx) error {
		r, err := fn(tx)
		if err != nil {
			return err
		}
		result = r
		return nil
	})

	s.recorder.ObserveOperation(operation, outcome(err))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"operation": operation,
			"caller":    caller,
		}).WithError(err).Warn("Lifecycle operation rejected")
		return nil, err
	}

	if err := s.publisher.Publish(ctx, result.Transaction); err != nil {
		logrus.WithError(err).WithField("transaction_id", result.Transaction.ID).Error("Failed to publish transaction")
	}

	logrus.WithFields(logrus.Fields{
		"operation":      operation,
		"caller":         caller,
		"product_id":     result.Product.ID,
		"owner":          result.Product.CurrentOwner,
		"status":         result.Product.Status.String(),
		"transaction_id": result.Transaction.ID,
	}).Info("Lifecycle operation committed")
	return result, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrHalted):
		return "halted"
	case errors.Is(err, ErrValidation):
		return "invalid"
	default:
		return "error"
	}
}
