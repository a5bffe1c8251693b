package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

type AdminHandler struct {
	statsService    *service.StatsService
	userService     *service.UserService
	walletService   *service.WalletService
	settingsService *service.SettingsService
}

func NewAdminHandler(
	statsService *service.StatsService,
	userService *service.UserService,
	walletService *service.WalletService,
	settingsService *service.SettingsService,
) *AdminHandler {
	return &AdminHandler{
		statsService:    statsService,
		userService:     userService,
		walletService:   walletService,
		settingsService: settingsService,
	}
}

// Dashboard 运营总览
// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, stats)
}

// ListUsers 用户列表
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	items, total, err := h.userService.ListUsers(page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// UpdateUser 变更用户角色
// PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的用户ID")
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	info, err := h.userService.UpdateUser(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "更新成功", info)
}

// AdjustBalance 人工调整用户余额
// POST /api/v1/admin/users/:id/balance
func (h *AdminHandler) AdjustBalance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的用户ID")
		return
	}

	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	balance, err := h.walletService.AdminAdjust(id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrDebitExceedBalance):
			response.BalanceError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "调整成功", gin.H{
		"balance": balance,
	})
}

// ConfirmTopUp 人工确认充值到账
// POST /api/v1/admin/payments/:id/confirm
func (h *AdminHandler) ConfirmTopUp(c *gin.Context) {
	paymentID := c.Param("id")
	if paymentID == "" {
		response.ParamError(c, "无效的充值单号")
		return
	}

	if err := h.walletService.ConfirmTopUp(c.Request.Context(), paymentID); err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrPaymentNotPending):
			response.ParamError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "已入账", nil)
}

// GetSettings 运行时配置快照
// GET /api/v1/admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	snapshot, err := h.settingsService.Snapshot(c.Request.Context())
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, snapshot)
}

// UpdateSettings 更新运行时配置，返回更新后的完整快照
// PUT /api/v1/admin/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	snapshot, err := h.settingsService.Update(c.Request.Context(), &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "更新成功", snapshot)
}
