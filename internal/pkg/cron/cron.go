package cron

import (
	"log"
	"time"

	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

type Service struct {
	orderRepo      *repository.OrderRepository
	paymentRepo    *repository.PaymentRepository
	paymentTimeout time.Duration
	stopChan       chan struct{}
}

func NewService(
	orderRepo *repository.OrderRepository,
	paymentRepo *repository.PaymentRepository,
	paymentTimeoutMinutes int,
) *Service {
	if paymentTimeoutMinutes <= 0 {
		paymentTimeoutMinutes = 30
	}
	return &Service{
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		paymentTimeout: time.Duration(paymentTimeoutMinutes) * time.Minute,
		stopChan:       make(chan struct{}),
	}
}

// Start 启动定时任务
func (s *Service) Start() {
	go s.runOrderExpiry()
	go s.runPaymentExpiry()
	log.Println("Cron service started (order expiry + payment expiry)")
}

// Stop 停止定时任务
func (s *Service) Stop() {
	close(s.stopChan)
	log.Println("Cron service stopped")
}

// runOrderExpiry 每小时把到期订单落库为 expired。
// 读路径本身会按 expires_at 懒计算状态，此任务只负责收敛存储。
func (s *Service) runOrderExpiry() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.ExpireOrders()
		}
	}
}

// runPaymentExpiry 每分钟把超时未支付的充值单落为 expired
func (s *Service) runPaymentExpiry() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.ExpirePayments()
		}
	}
}

// ExpireOrders 单次订单过期扫描
func (s *Service) ExpireOrders() int64 {
	if s.orderRepo == nil {
		return 0
	}

	n, err := s.orderRepo.MarkExpired(time.Now())
	if err != nil {
		log.Printf("Order expiry sweep failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Order expiry sweep: %d orders expired", n)
	}
	return n
}

// ExpirePayments 单次充值单过期扫描
func (s *Service) ExpirePayments() int64 {
	if s.paymentRepo == nil {
		return 0
	}

	n, err := s.paymentRepo.MarkExpired(time.Now().Add(-s.paymentTimeout))
	if err != nil {
		log.Printf("Payment expiry sweep failed: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Payment expiry sweep: %d payment orders expired", n)
	}
	return n
}
