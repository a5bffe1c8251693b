package service

import (
	"time"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

type ReferralService struct {
	referralRepo *repository.ReferralRepository
	userRepo     *repository.UserRepository
}

func NewReferralService(referralRepo *repository.ReferralRepository, userRepo *repository.UserRepository) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		userRepo:     userRepo,
	}
}

// List 列出用户的邀请记录
func (s *ReferralService) List(userID int64) ([]dto.ReferralItem, error) {
	referrals, err := s.referralRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReferralItem, 0, len(referrals))
	for _, r := range referrals {
		item := dto.ReferralItem{
			ID:         r.ID,
			ReferredID: r.ReferredID,
			Status:     r.Status,
			Commission: r.Commission,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		}
		if referred, err := s.userRepo.GetByID(r.ReferredID); err == nil {
			item.Username = referred.Username
		}
		items = append(items, item)
	}
	return items, nil
}

// Stats 邀请统计
func (s *ReferralService) Stats(userID int64) (*dto.ReferralStats, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	total, err := s.referralRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	active, err := s.referralRepo.CountActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	earned, err := s.referralRepo.SumCommissionByUser(userID)
	if err != nil {
		return nil, err
	}

	return &dto.ReferralStats{
		TotalInvited:  total,
		ActiveInvited: active,
		TotalEarned:   earned,
		ReferralCode:  user.ReferralCode,
	}, nil
}
