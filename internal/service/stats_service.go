package service

import (
	"time"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

// StatsService 后台概览统计聚合
type StatsService struct {
	userRepo    *repository.UserRepository
	orderRepo   *repository.OrderRepository
	walletRepo  *repository.WalletRepository
	paymentRepo *repository.PaymentRepository
	ticketRepo  *repository.TicketRepository
}

func NewStatsService(
	userRepo *repository.UserRepository,
	orderRepo *repository.OrderRepository,
	walletRepo *repository.WalletRepository,
	paymentRepo *repository.PaymentRepository,
	ticketRepo *repository.TicketRepository,
) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		orderRepo:   orderRepo,
		walletRepo:  walletRepo,
		paymentRepo: paymentRepo,
		ticketRepo:  ticketRepo,
	}
}

// Dashboard 汇总后台首页数据
func (s *StatsService) Dashboard() (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = s.orderRepo.Count(); err != nil {
		return nil, err
	}
	now := time.Now()
	if stats.ActiveOrders, err = s.orderRepo.CountActive(now); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = s.walletRepo.SumDebits(); err != nil {
		return nil, err
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.RevenueToday, err = s.walletRepo.SumDebitsSince(today); err != nil {
		return nil, err
	}
	if stats.PendingTopUps, err = s.paymentRepo.CountPending(); err != nil {
		return nil, err
	}
	if stats.OpenTickets, err = s.ticketRepo.CountOpen(); err != nil {
		return nil, err
	}

	return stats, nil
}
