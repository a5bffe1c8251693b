package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(order *model.PaymentOrder) error {
	return r.db.Create(order).Error
}

func (r *PaymentRepository) GetByID(id string) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *PaymentRepository) ListPending() ([]model.PaymentOrder, error) {
	var orders []model.PaymentOrder
	err := r.db.Where("status = ?", model.PaymentStatusPending).Find(&orders).Error
	return orders, err
}

func (r *PaymentRepository) Update(order *model.PaymentOrder) error {
	return r.db.Save(order).Error
}

func (r *PaymentRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.PaymentOrder{}).
		Where("status = ?", model.PaymentStatusPending).Count(&count).Error
	return count, err
}

// MarkExpired 将超时未支付的充值单落为 expired
func (r *PaymentRepository) MarkExpired(createdBefore time.Time) (int64, error) {
	result := r.db.Model(&model.PaymentOrder{}).
		Where("status = ? AND created_at <= ?", model.PaymentStatusPending, createdBefore).
		Update("status", model.PaymentStatusExpired)
	return result.RowsAffected, result.Error
}
