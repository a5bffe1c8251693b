package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) CreateTransaction(txn *model.WalletTransaction) error {
	return r.db.Create(txn).Error
}

func (r *WalletRepository) ListByUser(userID int64, page, pageSize int) ([]model.WalletTransaction, int64, error) {
	var txns []model.WalletTransaction
	var total int64

	query := r.db.Model(&model.WalletTransaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&txns).Error
	return txns, total, err
}

// SumDebits 消费总额（即营收）
func (r *WalletRepository) SumDebits() (float64, error) {
	var total float64
	err := r.db.Model(&model.WalletTransaction{}).
		Where("type = ?", model.TransactionTypeDebit).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

// SumDebitsSince 指定时间后的消费总额
func (r *WalletRepository) SumDebitsSince(since time.Time) (float64, error) {
	var total float64
	err := r.db.Model(&model.WalletTransaction{}).
		Where("type = ? AND created_at >= ?", model.TransactionTypeDebit, since).
		Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}
