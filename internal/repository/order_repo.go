package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetByID(id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) ListByUser(userID int64, page, pageSize int) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	query := r.db.Model(&model.Order{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountActive(now time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Order{}).
		Where("status = ? AND expires_at > ?", model.OrderStatusActive, now).
		Count(&count).Error
	return count, err
}

// MarkExpired 将已过期但状态仍为 active 的订单批量落为 expired
func (r *OrderRepository) MarkExpired(now time.Time) (int64, error) {
	result := r.db.Model(&model.Order{}).
		Where("status = ? AND expires_at <= ?", model.OrderStatusActive, now).
		Update("status", model.OrderStatusExpired)
	return result.RowsAffected, result.Error
}
