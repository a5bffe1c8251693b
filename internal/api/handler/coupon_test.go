package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupCouponHandler(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	handler := NewCouponHandler(service.NewCouponService(repository.NewCouponRepository(db)))

	router := gin.New()
	router.POST("/coupons/validate", handler.Validate)
	return router, db
}

func TestCouponHandler_Validate(t *testing.T) {
	router, db := setupCouponHandler(t)
	coupon := testutil.TestCoupon(t, db, testutil.WithCouponType("percentage", 20))

	t.Run("有效优惠码", func(t *testing.T) {
		w := performRequest(router, "POST", "/coupons/validate", dto.ValidateCouponRequest{
			Code:   coupon.Code,
			Amount: 100,
		})
		resp := parseResponse(t, w)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, response.CodeSuccess, resp.Code)

		data, ok := resp.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, true, data["valid"])
		assert.Equal(t, 20.0, data["discount"])
		assert.Equal(t, 80.0, data["final_amount"])
	})

	t.Run("无效优惠码返回 422", func(t *testing.T) {
		w := performRequest(router, "POST", "/coupons/validate", dto.ValidateCouponRequest{
			Code:   "NOT_A_COUPON",
			Amount: 100,
		})
		resp := parseResponse(t, w)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, response.CodeInvalidCoupon, resp.Code)
	})

	t.Run("金额缺失", func(t *testing.T) {
		w := performRequest(router, "POST", "/coupons/validate", map[string]interface{}{
			"code": coupon.Code,
		})
		resp := parseResponse(t, w)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, response.CodeParamError, resp.Code)
	})
}
