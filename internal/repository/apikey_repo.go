package repository

import (
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type ApiKeyRepository struct {
	db *gorm.DB
}

func NewApiKeyRepository(db *gorm.DB) *ApiKeyRepository {
	return &ApiKeyRepository{db: db}
}

func (r *ApiKeyRepository) Create(key *model.ApiKey) error {
	return r.db.Create(key).Error
}

func (r *ApiKeyRepository) ListByUser(userID int64) ([]model.ApiKey, error) {
	var keys []model.ApiKey
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&keys).Error
	return keys, err
}

func (r *ApiKeyRepository) GetByKey(apiKey string) (*model.ApiKey, error) {
	var key model.ApiKey
	err := r.db.Where("api_key = ? AND is_active = ?", apiKey, true).First(&key).Error
	if err != nil {
		return nil, err
	}
	return &key, nil
}

// DeleteByIDAndUser 只删除属于该用户的 key，防止越权删除
func (r *ApiKeyRepository) DeleteByIDAndUser(id, userID int64) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.ApiKey{})
	return result.RowsAffected, result.Error
}
