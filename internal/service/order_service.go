package service

import (
	"time"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

type OrderService struct {
	orderRepo *repository.OrderRepository
}

func NewOrderService(orderRepo *repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// List 用户订单列表，状态在读取时惰性计算过期
func (s *OrderService) List(userID int64, page, pageSize int) ([]dto.OrderItem, int64, error) {
	orders, total, err := s.orderRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now()
	items := make([]dto.OrderItem, 0, len(orders))
	for _, o := range orders {
		items = append(items, dto.OrderItem{
			ID:        o.ID,
			ProductID: o.ProductID,
			Quantity:  o.Quantity,
			TotalCost: o.TotalCost,
			Status:    o.EffectiveStatus(now),
			ExpiresAt: o.ExpiresAt.Format(time.RFC3339),
			CreatedAt: o.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}
