package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

var ErrApiKeyNotFound = errors.New("API Key 不存在")

const apiKeyPrefix = "up_"

type ApiKeyService struct {
	apiKeyRepo *repository.ApiKeyRepository
}

func NewApiKeyService(apiKeyRepo *repository.ApiKeyRepository) *ApiKeyService {
	return &ApiKeyService{apiKeyRepo: apiKeyRepo}
}

// Create 创建 API Key，完整 key 只在此处返回一次
func (s *ApiKeyService) Create(userID int64, req *dto.CreateApiKeyRequest) (*dto.ApiKeyItem, error) {
	token, err := generateRandomToken(32)
	if err != nil {
		return nil, err
	}

	key := &model.ApiKey{
		UserID:   userID,
		KeyName:  req.KeyName,
		ApiKey:   apiKeyPrefix + uuid.NewString()[:8] + token,
		IsActive: true,
	}
	if err := s.apiKeyRepo.Create(key); err != nil {
		return nil, err
	}

	return &dto.ApiKeyItem{
		ID:        key.ID,
		KeyName:   key.KeyName,
		ApiKey:    key.ApiKey,
		KeyHint:   keyHint(key.ApiKey),
		IsActive:  key.IsActive,
		CreatedAt: key.CreatedAt.Format(time.RFC3339),
	}, nil
}

// List 列出用户的 key，只返回掩码
func (s *ApiKeyService) List(userID int64) ([]dto.ApiKeyItem, error) {
	keys, err := s.apiKeyRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ApiKeyItem, 0, len(keys))
	for _, k := range keys {
		items = append(items, dto.ApiKeyItem{
			ID:        k.ID,
			KeyName:   k.KeyName,
			KeyHint:   keyHint(k.ApiKey),
			IsActive:  k.IsActive,
			CreatedAt: k.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, nil
}

// Delete 删除 key，只能删除自己的
func (s *ApiKeyService) Delete(userID, keyID int64) error {
	affected, err := s.apiKeyRepo.DeleteByIDAndUser(keyID, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrApiKeyNotFound
	}
	return nil
}

// Authenticate 校验 key 并返回所属用户 ID
func (s *ApiKeyService) Authenticate(apiKey string) (int64, error) {
	key, err := s.apiKeyRepo.GetByKey(apiKey)
	if err != nil {
		return 0, ErrApiKeyNotFound
	}
	return key.UserID, nil
}

func keyHint(apiKey string) string {
	if len(apiKey) <= 8 {
		return apiKey
	}
	return fmt.Sprintf("%s...%s", apiKey[:6], apiKey[len(apiKey)-4:])
}
