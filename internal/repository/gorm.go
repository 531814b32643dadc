// internal/repository/gorm.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/guanl20/Blocktrust/internal/models"
)

// GormStore persists the ledger in PostgreSQL. Product and transaction rows
// written by one Update commit in a single database transaction.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) GetParticipant(ctx context.Context, account string) (*models.Participant, error) {
	return getParticipant(s.db.WithContext(ctx), account)
}

func (s *GormStore) GetProduct(ctx context.Context, id uint64) (*models.Product, error) {
	return getProduct(s.db.WithContext(ctx), id)
}

func (s *GormStore) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	var participants []models.Participant
	if err := s.db.WithContext(ctx).Order("account ASC").Find(&participants).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch participants: %w", err)
	}
	return participants, nil
}

func (s *GormStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{})

	if filter.Owner != "" {
		query = query.Where("current_owner = ?", filter.Owner)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = applyWindow(query.Order("id ASC"), filter.Offset, filter.Limit)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}
	return products, total, nil
}

func (s *GormStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Transaction{})

	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query = applyWindow(query.Order("id ASC"), filter.Offset, filter.Limit)

	var transactions []models.Transaction
	if err := query.Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return transactions, total, nil
}

func (s *GormStore) ProductHistory(ctx context.Context, productID uint64) ([]models.Transaction, error) {
	db := s.db.WithContext(ctx)
	if _, err := getProduct(db, productID); err != nil {
		return nil, err
	}

	var history []models.Transaction
	if err := db.Where("product_id = ?", productID).
		Order("timestamp ASC, id ASC").
		Find(&history).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch product history: %w", err)
	}
	return history, nil
}

func (s *GormStore) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)
	stats := newStats()

	if err := db.Model(&models.Participant{}).Count(&stats.Participants).Error; err != nil {
		return stats, fmt.Errorf("failed to count participants: %w", err)
	}

	var statusRows []struct {
		Status models.ProductStatus
		Count  int64
	}
	if err := db.Model(&models.Product{}).Select("status, COUNT(*) AS count").
		Group("status").Scan(&statusRows).Error; err != nil {
		return stats, fmt.Errorf("failed to count products: %w", err)
	}
	for _, row := range statusRows {
		stats.ProductsByStatus[row.Status.String()] = row.Count
		stats.Products += row.Count
	}

	var txRows []struct {
		Type   string
		Status string
		Count  int64
	}
	if err := db.Model(&models.Transaction{}).Select("type, status, COUNT(*) AS count").
		Group("type, status").Scan(&txRows).Error; err != nil {
		return stats, fmt.Errorf("failed to count transactions: %w", err)
	}
	for _, row := range txRows {
		stats.TransactionsByType[row.Type] += row.Count
		stats.TransactionsByStatus[row.Status] += row.Count
		stats.Transactions += row.Count
	}
	return stats, nil
}

func (s *GormStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (tx *gormTx) GetParticipant(_ context.Context, account string) (*models.Participant, error) {
	return getParticipant(tx.db, account)
}

func (tx *gormTx) GetProduct(_ context.Context, id uint64) (*models.Product, error) {
	return getProduct(tx.db, id)
}

func (tx *gormTx) InsertParticipant(_ context.Context, p *models.Participant) error {
	if err := tx.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (tx *gormTx) UpdateParticipant(_ context.Context, p *models.Participant) error {
	result := tx.db.Model(&models.Participant{}).Where("account = ?", p.Account).Updates(map[string]interface{}{
		"company_name":  p.CompanyName,
		"password_hash": p.PasswordHash,
		"roles":         p.Roles,
		"updated_at":    p.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update participant: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("participant %q: %w", p.Account, ErrNotFound)
	}
	return nil
}

func (tx *gormTx) CountParticipantsWithRole(_ context.Context, role models.Role) (int64, error) {
	var count int64
	if err := tx.db.Model(&models.Participant{}).Where("? = ANY(roles)", string(role)).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return count, nil
}

// NextProductID holds a table lock until commit so concurrent writers from
// other processes cannot allocate the same id.
func (tx *gormTx) NextProductID(_ context.Context) (uint64, error) {
	if err := tx.db.Exec("LOCK TABLE products IN SHARE ROW EXCLUSIVE MODE").Error; err != nil {
		return 0, fmt.Errorf("failed to lock products: %w", err)
	}

	var next uint64
	if err := tx.db.Model(&models.Product{}).Select("COALESCE(MAX(id) + 1, 0)").Scan(&next).Error; err != nil {
		return 0, fmt.Errorf("failed to allocate product id: %w", err)
	}
	return next, nil
}

func (tx *gormTx) InsertProduct(_ context.Context, p *models.Product) error {
	if err := tx.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (tx *gormTx) UpdateProduct(_ context.Context, p *models.Product) error {
	result := tx.db.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]interface{}{
		"current_owner":    p.CurrentOwner,
		"current_location": p.CurrentLocation,
		"status":           p.Status,
		"updated_at":       p.UpdatedAt,
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d: %w", p.ID, ErrNotFound)
	}
	return nil
}

func (tx *gormTx) AppendTransaction(_ context.Context, t *models.Transaction) error {
	if err := tx.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func getParticipant(db *gorm.DB, account string) (*models.Participant, error) {
	var participant models.Participant
	if err := db.Where("account = ?", account).First(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("participant %q: %w", account, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &participant, nil
}

func getProduct(db *gorm.DB, id uint64) (*models.Product, error) {
	var product models.Product
	if err := db.Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func applyWindow(db *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		db = db.Offset(offset)
	}
	if limit > 0 {
		db = db.Limit(limit)
	}
	return db
}
