package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupWalletService(t *testing.T) (*WalletService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Payment: config.PaymentConfig{
			WalletAddress:  "TTestWalletAddress",
			TimeoutMinutes: 30,
		},
	}

	settingsService := NewSettingsService(repository.NewSettingRepository(db), nil)
	service := NewWalletService(
		db,
		repository.NewUserRepository(db),
		repository.NewWalletRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewReferralRepository(db),
		settingsService,
		nil,
		nil,
		nil,
		cfg,
	)

	return service, db
}

func TestWalletService_GetBalance(t *testing.T) {
	service, db := setupWalletService(t)
	user := testutil.TestUser(t, db, testutil.WithBalance(42.5))

	info, err := service.GetBalance(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 42.5, info.Balance)
}

func TestWalletService_CreateTopUp(t *testing.T) {
	service, db := setupWalletService(t)
	user := testutil.TestUser(t, db)

	resp, err := service.CreateTopUp(context.Background(), user.ID, &dto.TopUpRequest{Amount: 50})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.PaymentID)
	assert.Equal(t, 50.0, resp.Amount)
	assert.Equal(t, 30*60, resp.ExpiresIn)

	var order model.PaymentOrder
	require.NoError(t, db.First(&order, "id = ?", resp.PaymentID).Error)
	assert.Equal(t, model.PaymentStatusPending, order.Status)
	assert.Equal(t, user.ID, order.UserID)

	// 创建充值单不会动余额
	var got model.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.Equal(t, user.Balance, got.Balance)
}

func TestWalletService_GetTopUp(t *testing.T) {
	service, db := setupWalletService(t)
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	order := testutil.TestPaymentOrder(t, db, "pay-001", user.ID, 50, model.PaymentStatusPending)

	got, err := service.GetTopUp(user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// 他人充值单不可见
	_, err = service.GetTopUp(other.ID, order.ID)
	assert.ErrorIs(t, err, ErrPaymentNotFound)

	_, err = service.GetTopUp(user.ID, "missing")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestWalletService_ConfirmTopUp(t *testing.T) {
	t.Run("credits balance and writes ledger", func(t *testing.T) {
		service, db := setupWalletService(t)
		user := testutil.TestUser(t, db, testutil.WithBalance(10))
		order := testutil.TestPaymentOrder(t, db, "pay-002", user.ID, 50, model.PaymentStatusPending)

		require.NoError(t, service.ConfirmTopUp(context.Background(), order.ID))

		var got model.User
		require.NoError(t, db.First(&got, user.ID).Error)
		assert.Equal(t, 60.0, got.Balance)

		var paid model.PaymentOrder
		require.NoError(t, db.First(&paid, "id = ?", order.ID).Error)
		assert.Equal(t, model.PaymentStatusPaid, paid.Status)
		assert.NotNil(t, paid.PaidAt)

		var txns []model.WalletTransaction
		require.NoError(t, db.Where("user_id = ?", user.ID).Find(&txns).Error)
		require.Len(t, txns, 1)
		assert.Equal(t, model.TransactionTypeCredit, txns[0].Type)
		assert.Equal(t, 50.0, txns[0].Amount)
	})

	t.Run("confirm is not repeatable", func(t *testing.T) {
		service, db := setupWalletService(t)
		user := testutil.TestUser(t, db)
		order := testutil.TestPaymentOrder(t, db, "pay-003", user.ID, 50, model.PaymentStatusPending)

		require.NoError(t, service.ConfirmTopUp(context.Background(), order.ID))

		// 重复确认不得再次入账
		err := service.ConfirmTopUp(context.Background(), order.ID)
		assert.ErrorIs(t, err, ErrPaymentNotPending)

		var got model.User
		require.NoError(t, db.First(&got, user.ID).Error)
		assert.Equal(t, 50.0, got.Balance)
	})

	t.Run("concurrent confirms credit exactly once", func(t *testing.T) {
		service, db := setupWalletService(t)
		user := testutil.TestUser(t, db, testutil.WithBalance(0))
		order := testutil.TestPaymentOrder(t, db, "pay-race", user.ID, 50, model.PaymentStatusPending)

		// 轮询 worker 和管理员手动确认可能同时打到同一张单，
		// 状态判定在事务内加行锁，只允许一个调用方入账
		const confirmers = 4
		errs := make(chan error, confirmers)
		var wg sync.WaitGroup
		for i := 0; i < confirmers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- service.ConfirmTopUp(context.Background(), order.ID)
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, ErrPaymentNotPending)
			}
		}
		assert.Equal(t, 1, succeeded)

		var got model.User
		require.NoError(t, db.First(&got, user.ID).Error)
		assert.Equal(t, 50.0, got.Balance)

		var count int64
		require.NoError(t, db.Model(&model.WalletTransaction{}).
			Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unknown payment", func(t *testing.T) {
		service, _ := setupWalletService(t)
		err := service.ConfirmTopUp(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("settles referral commission on first topup", func(t *testing.T) {
		service, db := setupWalletService(t)

		referrer := testutil.TestUser(t, db, testutil.WithBalance(0))
		referred := testutil.TestUser(t, db, testutil.WithReferredBy(referrer.ID))
		require.NoError(t, db.Create(&model.Referral{
			UserID:     referrer.ID,
			ReferredID: referred.ID,
			Status:     model.ReferralStatusPending,
		}).Error)

		order := testutil.TestPaymentOrder(t, db, "pay-004", referred.ID, 100, model.PaymentStatusPending)
		require.NoError(t, service.ConfirmTopUp(context.Background(), order.ID))

		// 默认佣金率 10%
		var gotReferrer model.User
		require.NoError(t, db.First(&gotReferrer, referrer.ID).Error)
		assert.Equal(t, 10.0, gotReferrer.Balance)

		var referral model.Referral
		require.NoError(t, db.Where("referred_id = ?", referred.ID).First(&referral).Error)
		assert.Equal(t, model.ReferralStatusActive, referral.Status)
		assert.Equal(t, 10.0, referral.Commission)

		// 第二次充值不再结佣
		order2 := testutil.TestPaymentOrder(t, db, "pay-005", referred.ID, 100, model.PaymentStatusPending)
		require.NoError(t, service.ConfirmTopUp(context.Background(), order2.ID))

		require.NoError(t, db.First(&gotReferrer, referrer.ID).Error)
		assert.Equal(t, 10.0, gotReferrer.Balance)
	})
}

func TestWalletService_AdminAdjust(t *testing.T) {
	t.Run("credit and debit", func(t *testing.T) {
		service, db := setupWalletService(t)
		user := testutil.TestUser(t, db, testutil.WithBalance(20))

		balance, err := service.AdminAdjust(user.ID, &dto.AdjustBalanceRequest{
			Type:   model.TransactionTypeCredit,
			Amount: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, 50.0, balance)

		balance, err = service.AdminAdjust(user.ID, &dto.AdjustBalanceRequest{
			Type:        model.TransactionTypeDebit,
			Amount:      15,
			Description: "违规扣款",
		})
		require.NoError(t, err)
		assert.Equal(t, 35.0, balance)

		var txns []model.WalletTransaction
		require.NoError(t, db.Where("user_id = ?", user.ID).Order("id").Find(&txns).Error)
		require.Len(t, txns, 2)
		assert.Equal(t, model.TransactionTypeCredit, txns[0].Type)
		assert.Equal(t, "管理员调整", txns[0].Description)
		assert.Equal(t, model.TransactionTypeDebit, txns[1].Type)
		assert.Equal(t, "违规扣款", txns[1].Description)
	})

	t.Run("debit cannot exceed balance", func(t *testing.T) {
		service, db := setupWalletService(t)
		user := testutil.TestUser(t, db, testutil.WithBalance(10))

		_, err := service.AdminAdjust(user.ID, &dto.AdjustBalanceRequest{
			Type:   model.TransactionTypeDebit,
			Amount: 20,
		})
		assert.ErrorIs(t, err, ErrDebitExceedBalance)

		var got model.User
		require.NoError(t, db.First(&got, user.ID).Error)
		assert.Equal(t, 10.0, got.Balance)
	})

	t.Run("unknown user", func(t *testing.T) {
		service, _ := setupWalletService(t)
		_, err := service.AdminAdjust(9999, &dto.AdjustBalanceRequest{
			Type:   model.TransactionTypeCredit,
			Amount: 10,
		})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestWalletService_ListTransactions(t *testing.T) {
	service, db := setupWalletService(t)
	user := testutil.TestUser(t, db, testutil.WithBalance(100))

	for i := 0; i < 3; i++ {
		_, err := service.AdminAdjust(user.ID, &dto.AdjustBalanceRequest{
			Type:   model.TransactionTypeDebit,
			Amount: 10,
		})
		require.NoError(t, err)
	}

	items, total, err := service.ListTransactions(user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 2)
}
