package repository

import (
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type ProxyRepository struct {
	db *gorm.DB
}

func NewProxyRepository(db *gorm.DB) *ProxyRepository {
	return &ProxyRepository{db: db}
}

func (r *ProxyRepository) ListByUser(userID int64, page, pageSize int) ([]model.Proxy, int64, error) {
	var proxies []model.Proxy
	var total int64

	query := r.db.Model(&model.Proxy{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&proxies).Error
	return proxies, total, err
}

func (r *ProxyRepository) ListByOrder(orderID int64) ([]model.Proxy, error) {
	var proxies []model.Proxy
	err := r.db.Where("order_id = ?", orderID).Find(&proxies).Error
	return proxies, err
}

func (r *ProxyRepository) CountByUser(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Proxy{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
