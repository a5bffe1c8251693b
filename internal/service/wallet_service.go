package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/oss"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/pubsub"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/qrcode"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/queue"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

var (
	ErrPaymentNotFound    = errors.New("充值单不存在")
	ErrPaymentNotPending  = errors.New("充值单状态不是待支付")
	ErrDebitExceedBalance = errors.New("扣减金额超过用户余额")
)

type WalletService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	walletRepo   *repository.WalletRepository
	paymentRepo  *repository.PaymentRepository
	referralRepo *repository.ReferralRepository
	settingsSvc  *SettingsService
	ossClient    *oss.Client
	publisher    *pubsub.Publisher
	emailQueue   *queue.Queue
	cfg          *config.Config
}

func NewWalletService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	walletRepo *repository.WalletRepository,
	paymentRepo *repository.PaymentRepository,
	referralRepo *repository.ReferralRepository,
	settingsSvc *SettingsService,
	ossClient *oss.Client,
	publisher *pubsub.Publisher,
	emailQueue *queue.Queue,
	cfg *config.Config,
) *WalletService {
	return &WalletService{
		db:           db,
		userRepo:     userRepo,
		walletRepo:   walletRepo,
		paymentRepo:  paymentRepo,
		referralRepo: referralRepo,
		settingsSvc:  settingsSvc,
		ossClient:    ossClient,
		publisher:    publisher,
		emailQueue:   emailQueue,
		cfg:          cfg,
	}
}

// GetBalance 查询余额
func (s *WalletService) GetBalance(userID int64) (*dto.WalletInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &dto.WalletInfo{Balance: user.Balance}, nil
}

// ListTransactions 分页查询流水
func (s *WalletService) ListTransactions(userID int64, page, pageSize int) ([]dto.TransactionItem, int64, error) {
	txns, total, err := s.walletRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.TransactionItem, 0, len(txns))
	for _, t := range txns {
		items = append(items, dto.TransactionItem{
			ID:          t.ID,
			Type:        t.Type,
			Amount:      t.Amount,
			Description: t.Description,
			CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}

// CreateTopUp 创建充值单并生成付款二维码
func (s *WalletService) CreateTopUp(ctx context.Context, userID int64, req *dto.TopUpRequest) (*dto.TopUpResponse, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	walletAddress := s.cfg.Payment.WalletAddress
	if snapshot, err := s.settingsSvc.Snapshot(ctx); err == nil && snapshot.PaymentWalletAddress != "" {
		walletAddress = snapshot.PaymentWalletAddress
	}

	order := &model.PaymentOrder{
		ID:     uuid.NewString(),
		UserID: userID,
		Amount: req.Amount,
		Status: model.PaymentStatusPending,
	}

	// 二维码生成失败不阻断下单，前端可退化为展示收款地址
	if s.ossClient != nil {
		png, err := qrcode.GeneratePaymentQR(walletAddress, req.Amount, order.ID)
		if err == nil {
			url, err := s.ossClient.UploadPaymentQR(order.ID, png)
			if err == nil {
				order.QRCodeURL = url
			} else {
				log.Printf("Failed to upload payment QR for %s: %v", order.ID, err)
			}
		} else {
			log.Printf("Failed to generate payment QR for %s: %v", order.ID, err)
		}
	}

	if err := s.paymentRepo.Create(order); err != nil {
		return nil, err
	}

	timeoutMinutes := s.cfg.Payment.TimeoutMinutes
	if timeoutMinutes <= 0 {
		timeoutMinutes = 30
	}

	return &dto.TopUpResponse{
		PaymentID: order.ID,
		Amount:    order.Amount,
		QRCodeURL: order.QRCodeURL,
		ExpiresIn: timeoutMinutes * 60,
	}, nil
}

// GetTopUp 查询充值单状态
func (s *WalletService) GetTopUp(userID int64, paymentID string) (*model.PaymentOrder, error) {
	order, err := s.paymentRepo.GetByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return order, nil
}

// ConfirmTopUp 网关确认到账：行锁入账 + 流水 + 邀请佣金，然后广播事件、发回执邮件
func (s *WalletService) ConfirmTopUp(ctx context.Context, paymentID string) error {
	var order model.PaymentOrder
	var newBalance float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 状态判定必须在事务内加行锁做：轮询 worker 和管理员手动确认
		// 可能同时拿到同一张待支付单，锁外判状态会重复入账
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", paymentID).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if order.Status != model.PaymentStatusPending {
			return ErrPaymentNotPending
		}

		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, order.UserID).Error; err != nil {
			return err
		}

		newBalance = user.Balance + order.Amount
		if err := tx.Model(&model.User{}).Where("id = ?", user.ID).
			Update("balance", newBalance).Error; err != nil {
			return err
		}

		txn := model.WalletTransaction{
			UserID:      user.ID,
			Type:        model.TransactionTypeCredit,
			Amount:      order.Amount,
			Description: fmt.Sprintf("钱包充值 %s", order.ID),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		now := time.Now()
		order.Status = model.PaymentStatusPaid
		order.PaidAt = &now
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		return s.settleReferralCommission(ctx, tx, &user, order.Amount)
	})
	if err != nil {
		return err
	}

	if s.publisher != nil {
		event := &pubsub.PaymentEvent{
			Type:      pubsub.EventTopUpPaid,
			UserID:    order.UserID,
			PaymentID: order.ID,
			Amount:    order.Amount,
			Balance:   newBalance,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("Failed to publish topup event for %s: %v", order.ID, err)
		}
	}

	if s.emailQueue != nil {
		user, err := s.userRepo.GetByID(order.UserID)
		if err == nil && user.Email != nil {
			msg := &queue.EmailMessage{
				Type:      queue.EmailTypeReceipt,
				UserID:    user.ID,
				To:        *user.Email,
				Username:  user.Username,
				Amount:    order.Amount,
				PaymentID: order.ID,
			}
			if err := s.emailQueue.Push(ctx, msg); err != nil {
				log.Printf("Failed to queue receipt email for %s: %v", order.ID, err)
			}
		}
	}

	return nil
}

// settleReferralCommission 首次充值后结算邀请佣金，佣金率取运行时配置快照
func (s *WalletService) settleReferralCommission(ctx context.Context, tx *gorm.DB, user *model.User, amount float64) error {
	if user.ReferredBy == nil {
		return nil
	}

	var referral model.Referral
	err := tx.Where("referred_id = ?", user.ID).First(&referral).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if referral.Status != model.ReferralStatusPending {
		return nil
	}

	snapshot, err := s.settingsSvc.Snapshot(ctx)
	if err != nil {
		return err
	}
	commission := amount * snapshot.ReferralCommissionRate
	if commission <= 0 {
		referral.Status = model.ReferralStatusActive
		return tx.Save(&referral).Error
	}

	var referrer model.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&referrer, referral.UserID).Error; err != nil {
		return err
	}

	if err := tx.Model(&model.User{}).Where("id = ?", referrer.ID).
		Update("balance", referrer.Balance+commission).Error; err != nil {
		return err
	}

	txn := model.WalletTransaction{
		UserID:      referrer.ID,
		Type:        model.TransactionTypeCredit,
		Amount:      commission,
		Description: fmt.Sprintf("邀请佣金（用户 %s 充值）", user.Username),
	}
	if err := tx.Create(&txn).Error; err != nil {
		return err
	}

	referral.Status = model.ReferralStatusActive
	referral.Commission = referral.Commission + commission
	return tx.Save(&referral).Error
}

// AdminAdjust 管理员调整余额，与购买共用行锁事务语义
func (s *WalletService) AdminAdjust(userID int64, req *dto.AdjustBalanceRequest) (float64, error) {
	var newBalance float64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		switch req.Type {
		case model.TransactionTypeCredit:
			newBalance = user.Balance + req.Amount
		case model.TransactionTypeDebit:
			if user.Balance < req.Amount {
				return ErrDebitExceedBalance
			}
			newBalance = user.Balance - req.Amount
		}

		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("balance", newBalance).Error; err != nil {
			return err
		}

		description := req.Description
		if description == "" {
			description = "管理员调整"
		}
		txn := model.WalletTransaction{
			UserID:      userID,
			Type:        req.Type,
			Amount:      req.Amount,
			Description: description,
		}
		return tx.Create(&txn).Error
	})
	return newBalance, err
}
