package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

type CouponHandler struct {
	couponService *service.CouponService
}

func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
	}
}

// Validate 校验优惠码并返回折扣金额，不产生任何副作用
// POST /api/v1/coupons/validate
func (h *CouponHandler) Validate(c *gin.Context) {
	var req dto.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	result, err := h.couponService.Validate(req.Code, req.Amount)
	if err != nil {
		if isCouponError(err) {
			response.CouponError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, result)
}

// Create 管理员创建优惠码
// POST /api/v1/admin/coupons
func (h *CouponHandler) Create(c *gin.Context) {
	var req dto.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	coupon, err := h.couponService.Create(&req)
	if err != nil {
		if errors.Is(err, service.ErrCouponCodeExists) || errors.Is(err, service.ErrCouponValueInvalid) {
			response.ParamError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", coupon)
}

// List 管理员分页查询优惠码
// GET /api/v1/admin/coupons
func (h *CouponHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	items, total, err := h.couponService.List(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Toggle 启用/停用优惠码
// PUT /api/v1/admin/coupons/:id/toggle
func (h *CouponHandler) Toggle(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的优惠码ID")
		return
	}

	coupon, err := h.couponService.Toggle(id)
	if err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "操作成功", coupon)
}

// Delete 删除优惠码
// DELETE /api/v1/admin/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的优惠码ID")
		return
	}

	if err := h.couponService.Delete(id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

func isCouponError(err error) bool {
	return errors.Is(err, service.ErrCouponNotFound) ||
		errors.Is(err, service.ErrCouponInactive) ||
		errors.Is(err, service.ErrCouponExpired) ||
		errors.Is(err, service.ErrCouponExhausted) ||
		errors.Is(err, service.ErrCouponMinAmount)
}
