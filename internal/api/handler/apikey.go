package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/upgradedproxy/proxy_go_server/internal/api/middleware"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

type ApiKeyHandler struct {
	apiKeyService *service.ApiKeyService
}

func NewApiKeyHandler(apiKeyService *service.ApiKeyService) *ApiKeyHandler {
	return &ApiKeyHandler{
		apiKeyService: apiKeyService,
	}
}

// Create 创建 API Key，完整密钥只在创建时返回一次
// POST /api/v1/api-keys
func (h *ApiKeyHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateApiKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	item, err := h.apiKeyService.Create(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", item)
}

// List 当前用户的 API Key 列表，只返回掩码
// GET /api/v1/api-keys
func (h *ApiKeyHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	items, err := h.apiKeyService.List(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, items)
}

// Delete 删除自己的 API Key
// DELETE /api/v1/api-keys/:id
func (h *ApiKeyHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	keyID, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的密钥ID")
		return
	}

	if err := h.apiKeyService.Delete(userID, keyID); err != nil {
		if errors.Is(err, service.ErrApiKeyNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
