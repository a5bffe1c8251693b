package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type SettingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) GetAll() (map[string]string, error) {
	var settings []model.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}

	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.Key] = s.Value
	}
	return result, nil
}

// Upsert 覆盖写入一组配置项
func (r *SettingRepository) Upsert(values map[string]string) error {
	for key, value := range values {
		setting := model.Setting{Key: key, Value: value}
		err := r.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&setting).Error
		if err != nil {
			return err
		}
	}
	return nil
}
