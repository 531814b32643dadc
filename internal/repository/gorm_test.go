// internal/repository/gorm_test.go
package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/guanl20/Blocktrust/internal/models"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestGormGetProductNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetProduct(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetParticipantScansRoles(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "participants" WHERE account = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"account", "company_name", "password_hash", "roles", "created_at", "updated_at"}).
			AddRow("maker", "Acme", "", "{manufacturer,retailer}", now, now))

	participant, err := store.GetParticipant(context.Background(), "maker")
	require.NoError(t, err)
	assert.Equal(t, "Acme", participant.CompanyName)
	assert.True(t, participant.HasRole(models.RoleManufacturer))
	assert.True(t, participant.HasRole(models.RoleRetailer))
	assert.False(t, participant.HasRole(models.RoleAdmin))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectExec(`LOCK TABLE products IN SHARE ROW EXCLUSIVE MODE`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(id\) \+ 1, 0\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))
	mock.ExpectRollback()

	var next uint64
	err := store.Update(context.Background(), func(tx Tx) error {
		var err error
		next, err = tx.NextProductID(context.Background())
		if err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, uint64(3), next)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateProductMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Update(context.Background(), func(tx Tx) error {
		return tx.UpdateProduct(context.Background(), &models.Product{ID: 9, CurrentOwner: "shop", UpdatedAt: time.Now()})
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCountParticipantsWithRole(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "participants" WHERE \$1 = ANY\(roles\)`).
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectCommit()

	var count int64
	err := store.Update(context.Background(), func(tx Tx) error {
		var err error
		count, err = tx.CountParticipantsWithRole(context.Background(), models.RoleAdmin)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormListParticipants(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "participants" ORDER BY account ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"account", "company_name", "password_hash", "roles", "created_at", "updated_at"}).
			AddRow("admin", "HQ", "", "{admin}", now, now).
			AddRow("maker", "Acme", "", "{manufacturer}", now, now))

	participants, err := store.ListParticipants(context.Background())
	require.NoError(t, err)
	require.Len(t, participants, 2)
	assert.Equal(t, "admin", participants[0].Account)
	assert.Equal(t, "maker", participants[1].Account)
	assert.NoError(t, mock.ExpectationsWereMet())
}
