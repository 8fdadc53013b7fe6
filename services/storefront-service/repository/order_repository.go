package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caseforge/storefront/services/storefront-service/models"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines data-access operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (*models.Order, error)
	FindByUserAndConfiguration(ctx context.Context, userID, configurationID string) (*models.Order, error)
	// MarkPaid loads the order, inserts both addresses and flags the order
	// paid with the new address ids, all in one transaction.
	MarkPaid(ctx context.Context, orderID string, shipping *models.ShippingAddress, billing *models.BillingAddress) (*models.Order, error)
	ListPaid(ctx context.Context) ([]models.Order, error)
	SumPaidSince(ctx context.Context, since time.Time) (int64, error)
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	UpdateAmount(ctx context.Context, id string, amount int64) error
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Preload("ShippingAddress").
		Preload("BillingAddress").
		First(&o, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) FindByUserAndConfiguration(ctx context.Context, userID, configurationID string) (*models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND configuration_id = ?", userID, configurationID).
		First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *GormOrderRepository) MarkPaid(ctx context.Context, orderID string, shipping *models.ShippingAddress, billing *models.BillingAddress) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}
		if err := tx.Create(shipping).Error; err != nil {
			return fmt.Errorf("create shipping address: %w", err)
		}
		if err := tx.Create(billing).Error; err != nil {
			return fmt.Errorf("create billing address: %w", err)
		}
		if err := tx.Model(&order).Updates(map[string]interface{}{
			"is_paid":             true,
			"shipping_address_id": shipping.ID,
			"billing_address_id":  billing.ID,
		}).Error; err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.IsPaid = true
	order.ShippingAddressID = &shipping.ID
	order.ShippingAddress = shipping
	order.BillingAddressID = &billing.ID
	order.BillingAddress = billing
	return &order, nil
}

func (r *GormOrderRepository) ListPaid(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ShippingAddress").
		Where("is_paid = ?", true).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormOrderRepository) SumPaidSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("is_paid = ? AND created_at >= ?", true, since).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// UpdateAmount reprices an unpaid order. Paid orders are left untouched.
func (r *GormOrderRepository) UpdateAmount(ctx context.Context, id string, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND is_paid = ?", id, false).
		Update("amount", amount)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
