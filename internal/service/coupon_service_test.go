package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupCouponService(t *testing.T) (*CouponService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	return NewCouponService(repository.NewCouponRepository(db)), db
}

func TestCouponService_Validate(t *testing.T) {
	t.Run("percentage discount", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db,
			testutil.WithCouponType(model.CouponTypePercentage, 20))

		resp, err := service.Validate(coupon.Code, 100)
		require.NoError(t, err)

		assert.True(t, resp.Valid)
		assert.Equal(t, 20.0, resp.Discount)
		assert.Equal(t, 80.0, resp.FinalAmount)
	})

	t.Run("fixed discount", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db,
			testutil.WithCouponType(model.CouponTypeFixed, 5))

		resp, err := service.Validate(coupon.Code, 100)
		require.NoError(t, err)

		assert.Equal(t, 5.0, resp.Discount)
		assert.Equal(t, 95.0, resp.FinalAmount)
	})

	t.Run("fixed discount clamped to amount", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db,
			testutil.WithCouponType(model.CouponTypeFixed, 50))

		// 面额超过订单金额时封顶，最终价为 0 而不是负数
		resp, err := service.Validate(coupon.Code, 30)
		require.NoError(t, err)

		assert.Equal(t, 30.0, resp.Discount)
		assert.Equal(t, 0.0, resp.FinalAmount)
	})

	t.Run("unknown code", func(t *testing.T) {
		service, _ := setupCouponService(t)

		_, err := service.Validate("NOPE", 100)
		assert.ErrorIs(t, err, ErrCouponNotFound)
	})

	t.Run("inactive coupon", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db, testutil.WithCouponInactive())

		_, err := service.Validate(coupon.Code, 100)
		assert.ErrorIs(t, err, ErrCouponInactive)
	})

	t.Run("expired coupon", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db,
			testutil.WithExpiresAt(time.Now().Add(-time.Hour)))

		_, err := service.Validate(coupon.Code, 100)
		assert.ErrorIs(t, err, ErrCouponExpired)
	})

	t.Run("exhausted coupon", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db, testutil.WithMaxUses(10, 10))

		_, err := service.Validate(coupon.Code, 100)
		assert.ErrorIs(t, err, ErrCouponExhausted)
	})

	t.Run("below minimum amount", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db, testutil.WithMinAmount(50))

		_, err := service.Validate(coupon.Code, 30)
		assert.ErrorIs(t, err, ErrCouponMinAmount)
	})

	t.Run("validation has no side effects", func(t *testing.T) {
		service, db := setupCouponService(t)
		coupon := testutil.TestCoupon(t, db, testutil.WithMaxUses(10, 3))

		for i := 0; i < 5; i++ {
			_, err := service.Validate(coupon.Code, 100)
			require.NoError(t, err)
		}

		// 校验多少次 used_count 都不动
		var got model.Coupon
		require.NoError(t, db.First(&got, coupon.ID).Error)
		assert.Equal(t, 3, got.UsedCount)
	})
}

func TestComputeDiscount(t *testing.T) {
	tests := []struct {
		name   string
		coupon model.Coupon
		amount float64
		want   float64
	}{
		{"20 percent of 100", model.Coupon{Type: model.CouponTypePercentage, Value: 20}, 100, 20},
		{"100 percent", model.Coupon{Type: model.CouponTypePercentage, Value: 100}, 75, 75},
		{"fixed below amount", model.Coupon{Type: model.CouponTypeFixed, Value: 5}, 100, 5},
		{"fixed equals amount", model.Coupon{Type: model.CouponTypeFixed, Value: 30}, 30, 30},
		{"fixed clamped", model.Coupon{Type: model.CouponTypeFixed, Value: 50}, 30, 30},
		{"percent above 100 clamped", model.Coupon{Type: model.CouponTypePercentage, Value: 150}, 30, 30},
		{"unknown type", model.Coupon{Type: "mystery", Value: 50}, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeDiscount(&tt.coupon, tt.amount))
		})
	}
}

func TestCouponService_Create(t *testing.T) {
	t.Run("create coupon", func(t *testing.T) {
		service, _ := setupCouponService(t)

		maxUses := 100
		coupon, err := service.Create(&dto.CreateCouponRequest{
			Code:      "LAUNCH20",
			Type:      model.CouponTypePercentage,
			Value:     20,
			MinAmount: 10,
			MaxUses:   &maxUses,
		})
		require.NoError(t, err)

		assert.NotZero(t, coupon.ID)
		assert.True(t, coupon.IsActive)
		assert.Equal(t, 0, coupon.UsedCount)
	})

	t.Run("duplicate code rejected", func(t *testing.T) {
		service, db := setupCouponService(t)
		existing := testutil.TestCoupon(t, db)

		_, err := service.Create(&dto.CreateCouponRequest{
			Code:  existing.Code,
			Type:  model.CouponTypeFixed,
			Value: 5,
		})
		assert.ErrorIs(t, err, ErrCouponCodeExists)
	})

	t.Run("percentage over 100 rejected", func(t *testing.T) {
		service, _ := setupCouponService(t)

		_, err := service.Create(&dto.CreateCouponRequest{
			Code:  "SUPER150",
			Type:  model.CouponTypePercentage,
			Value: 150,
		})
		assert.ErrorIs(t, err, ErrCouponValueInvalid)
	})

	t.Run("invalid expires_at rejected", func(t *testing.T) {
		service, _ := setupCouponService(t)

		_, err := service.Create(&dto.CreateCouponRequest{
			Code:      "BADTIME",
			Type:      model.CouponTypeFixed,
			Value:     5,
			ExpiresAt: "not-a-time",
		})
		assert.Error(t, err)
	})
}

func TestCouponService_Toggle(t *testing.T) {
	service, db := setupCouponService(t)
	coupon := testutil.TestCoupon(t, db)
	require.True(t, coupon.IsActive)

	// 停用后校验立即失败
	toggled, err := service.Toggle(coupon.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = service.Validate(coupon.Code, 100)
	assert.ErrorIs(t, err, ErrCouponInactive)

	// 再翻转回来立即可用
	toggled, err = service.Toggle(coupon.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsActive)

	resp, err := service.Validate(coupon.Code, 100)
	require.NoError(t, err)
	assert.True(t, resp.Valid)

	_, err = service.Toggle(9999)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestCouponService_Delete(t *testing.T) {
	service, db := setupCouponService(t)
	coupon := testutil.TestCoupon(t, db)

	require.NoError(t, service.Delete(coupon.ID))

	_, err := service.Validate(coupon.Code, 100)
	assert.ErrorIs(t, err, ErrCouponNotFound)

	err = service.Delete(coupon.ID)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}
