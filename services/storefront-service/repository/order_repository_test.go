package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

var orderColumns = []string{
	"id", "configuration_id", "user_id", "amount", "is_paid", "status",
	"shipping_address_id", "billing_address_id", "created_at", "updated_at",
}

func testAddresses() (*models.ShippingAddress, *models.BillingAddress) {
	addr := models.Address{
		Name:       "Jane Doe",
		Street:     "221B Baker St",
		City:       "London",
		PostalCode: "NW1 6XE",
		Country:    "UK",
	}
	return &models.ShippingAddress{Address: addr}, &models.BillingAddress{Address: addr}
}

func TestOrderCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	order := &models.Order{UserID: "u1", ConfigurationID: "c1", Amount: 1400}
	err := repo.Create(context.Background(), order)

	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, models.OrderStatusAwaitingShipment, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o1", "c1", "u1", 1400, false, "awaiting_shipment", nil, nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "shipping_addresses"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "billing_addresses"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	shipping, billing := testAddresses()
	order, err := repo.MarkPaid(context.Background(), "o1", shipping, billing)

	require.NoError(t, err)
	assert.True(t, order.IsPaid)
	require.NotNil(t, order.ShippingAddressID)
	require.NotNil(t, order.BillingAddressID)
	assert.Equal(t, shipping.ID, *order.ShippingAddressID)
	assert.Equal(t, billing.ID, *order.BillingAddressID)
	assert.NotEqual(t, *order.ShippingAddressID, *order.BillingAddressID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_OrderNotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns))
	mock.ExpectRollback()

	shipping, billing := testAddresses()
	order, err := repo.MarkPaid(context.Background(), "missing", shipping, billing)

	assert.Nil(t, order)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_AddressInsertFailsRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o1", "c1", "u1", 1400, false, "awaiting_shipment", nil, nil, now, now))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "shipping_addresses"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	shipping, billing := testAddresses()
	_, err := repo.MarkPaid(context.Background(), "o1", shipping, billing)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create shipping address")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_Unpaid(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns).
			AddRow("o1", "c1", "u1", 1400, false, "awaiting_shipment", nil, nil, now, now))

	order, err := repo.FindByID(context.Background(), "o1")

	require.NoError(t, err)
	assert.Equal(t, "o1", order.ID)
	assert.False(t, order.IsPaid)
	assert.Nil(t, order.ShippingAddress)
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	order, err := repo.FindByID(context.Background(), "nope")

	assert.Nil(t, order)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestFindByUserAndConfiguration_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders" WHERE user_id = $1 AND configuration_id = $2`)).
		WillReturnRows(sqlmock.NewRows(orderColumns))

	_, err := repo.FindByUserAndConfiguration(context.Background(), "u1", "c1")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestSumPaidSince(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4200))

	total, err := repo.SumPaidSince(context.Background(), time.Now().AddDate(0, 0, -7))

	require.NoError(t, err)
	assert.Equal(t, int64(4200), total)
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"updated", 1, nil},
		{"missing order", 0, repository.ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := setupMockDB(t)
			repo := repository.NewGormOrderRepository(gormDB)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "status"=$1`)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := repo.UpdateStatus(context.Background(), "o1", models.OrderStatusShipped)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUpdateAmount(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{"repriced", 1, nil},
		{"missing or already paid", 0, repository.ErrOrderNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gormDB, mock := setupMockDB(t)
			repo := repository.NewGormOrderRepository(gormDB)

			mock.ExpectBegin()
			mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders" SET "amount"=$1`)).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := repo.UpdateAmount(context.Background(), "o1", 2200)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
