package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/upgradedproxy/proxy_go_server/internal/api/middleware"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

type ProxyHandler struct {
	proxyService *service.ProxyService
	orderService *service.OrderService
}

func NewProxyHandler(proxyService *service.ProxyService, orderService *service.OrderService) *ProxyHandler {
	return &ProxyHandler{
		proxyService: proxyService,
		orderService: orderService,
	}
}

// Generate 购买并交付代理
// POST /api/v1/proxies/generate
func (h *ProxyHandler) Generate(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.GenerateProxyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.proxyService.Generate(c.Request.Context(), userID, &req)
	if err != nil {
		var missingKey *service.ErrMissingProviderKey
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.NotFoundError(c, err.Error())
		case errors.Is(err, service.ErrInsufficientBalance):
			response.BalanceError(c, "")
		case errors.Is(err, service.ErrUpstreamFailed):
			response.UpstreamError(c, "")
		case errors.As(err, &missingKey):
			response.ProviderKeyError(c, err.Error())
		default:
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "购买成功", resp)
}

// List 用户的代理凭证列表
// GET /api/v1/proxies
func (h *ProxyHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, pageSize := parsePagination(c)
	items, total, err := h.proxyService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Settings 产品类型到接入点的映射
// GET /api/v1/proxies/settings
func (h *ProxyHandler) Settings(c *gin.Context) {
	response.Success(c, gin.H{
		"endpoints": h.proxyService.Endpoints(),
	})
}

// Orders 用户订单列表
// GET /api/v1/orders
func (h *ProxyHandler) Orders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, pageSize := parsePagination(c)
	items, total, err := h.orderService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}
