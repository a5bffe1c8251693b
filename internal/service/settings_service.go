package service

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

// 配置键集合，读写都限定在这个闭集内
const (
	settingSiteName               = "site_name"
	settingSupportEmail           = "support_email"
	settingReferralCommissionRate = "referral_commission_rate"
	settingAutoTopUpThreshold     = "auto_topup_threshold"
	settingPaymentWalletAddress   = "payment_wallet_address"
)

const (
	settingsCacheKey = "settings:snapshot"
	settingsCacheTTL = 30 * time.Second
)

// SettingsService 运行时配置：DB 为准，Redis 短缓存，读出来的是不可变快照
type SettingsService struct {
	settingRepo *repository.SettingRepository
	rdb         *redis.Client
}

func NewSettingsService(settingRepo *repository.SettingRepository, rdb *redis.Client) *SettingsService {
	return &SettingsService{
		settingRepo: settingRepo,
		rdb:         rdb,
	}
}

// Snapshot 读取配置快照，缓存未命中则回源 DB
func (s *SettingsService) Snapshot(ctx context.Context) (*dto.SettingsSnapshot, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, settingsCacheKey).Result()
		if err == nil {
			var snapshot dto.SettingsSnapshot
			if err := json.Unmarshal([]byte(cached), &snapshot); err == nil {
				return &snapshot, nil
			}
		}
	}

	values, err := s.settingRepo.GetAll()
	if err != nil {
		return nil, err
	}
	snapshot := buildSnapshot(values)

	if s.rdb != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			if err := s.rdb.Set(ctx, settingsCacheKey, data, settingsCacheTTL).Err(); err != nil {
				log.Printf("Failed to cache settings snapshot: %v", err)
			}
		}
	}

	return snapshot, nil
}

// Update 唯一的写入口：只更新给出的字段，写完使缓存失效
func (s *SettingsService) Update(ctx context.Context, req *dto.UpdateSettingsRequest) (*dto.SettingsSnapshot, error) {
	values := make(map[string]string)
	if req.SiteName != nil {
		values[settingSiteName] = *req.SiteName
	}
	if req.SupportEmail != nil {
		values[settingSupportEmail] = *req.SupportEmail
	}
	if req.ReferralCommissionRate != nil {
		values[settingReferralCommissionRate] = strconv.FormatFloat(*req.ReferralCommissionRate, 'f', -1, 64)
	}
	if req.AutoTopUpThreshold != nil {
		values[settingAutoTopUpThreshold] = strconv.FormatFloat(*req.AutoTopUpThreshold, 'f', -1, 64)
	}
	if req.PaymentWalletAddress != nil {
		values[settingPaymentWalletAddress] = *req.PaymentWalletAddress
	}

	if len(values) > 0 {
		if err := s.settingRepo.Upsert(values); err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if err := s.rdb.Del(ctx, settingsCacheKey).Err(); err != nil {
				log.Printf("Failed to invalidate settings cache: %v", err)
			}
		}
	}

	all, err := s.settingRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return buildSnapshot(all), nil
}

func buildSnapshot(values map[string]string) *dto.SettingsSnapshot {
	snapshot := &dto.SettingsSnapshot{
		SiteName:               "UpgradedProxy",
		ReferralCommissionRate: 0.1,
	}

	if v, ok := values[settingSiteName]; ok && v != "" {
		snapshot.SiteName = v
	}
	if v, ok := values[settingSupportEmail]; ok {
		snapshot.SupportEmail = v
	}
	if v, ok := values[settingReferralCommissionRate]; ok {
		if rate, err := strconv.ParseFloat(v, 64); err == nil {
			snapshot.ReferralCommissionRate = rate
		}
	}
	if v, ok := values[settingAutoTopUpThreshold]; ok {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			snapshot.AutoTopUpThreshold = threshold
		}
	}
	if v, ok := values[settingPaymentWalletAddress]; ok {
		snapshot.PaymentWalletAddress = v
	}

	return snapshot
}
