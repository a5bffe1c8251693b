package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type CredentialRepository struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// UpsertKeys 同步上游返回的产品类型密钥，存在则覆盖
func (r *CredentialRepository) UpsertKeys(userID int64, keys map[string]string) error {
	for productType, key := range keys {
		cred := model.ProviderCredential{
			UserID:      userID,
			ProductType: productType,
			Key:         key,
		}
		err := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_type"}},
			DoUpdates: clause.AssignmentColumns([]string{"key", "updated_at"}),
		}).Create(&cred).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *CredentialRepository) ListByUser(userID int64) ([]model.ProviderCredential, error) {
	var creds []model.ProviderCredential
	err := r.db.Where("user_id = ?", userID).Find(&creds).Error
	return creds, err
}

func (r *CredentialRepository) GetByUserAndType(userID int64, productType string) (*model.ProviderCredential, error) {
	var cred model.ProviderCredential
	err := r.db.Where("user_id = ? AND product_type = ?", userID, productType).First(&cred).Error
	if err != nil {
		return nil, err
	}
	return &cred, nil
}
