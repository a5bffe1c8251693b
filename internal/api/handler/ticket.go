package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/upgradedproxy/proxy_go_server/internal/api/middleware"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

type TicketHandler struct {
	ticketService *service.TicketService
}

func NewTicketHandler(ticketService *service.TicketService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// Create 创建工单
// POST /api/v1/tickets
func (h *TicketHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	ticket, err := h.ticketService.Create(userID, &req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "工单已提交", ticket)
}

// List 工单列表，管理员可见全部
// GET /api/v1/tickets
func (h *TicketHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	// 管理员传 userID=0 查询全部
	if middleware.IsAdmin(c) {
		userID = 0
	}

	page, pageSize := parsePagination(c)
	items, total, err := h.ticketService.List(userID, page, pageSize)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, items)
}

// Get 工单详情（含回复）
// GET /api/v1/tickets/:id
func (h *TicketHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的工单ID")
		return
	}

	detail, err := h.ticketService.Get(userID, ticketID, middleware.IsAdmin(c))
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.Success(c, detail)
}

// Reply 回复工单
// POST /api/v1/tickets/:id/replies
func (h *TicketHandler) Reply(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的工单ID")
		return
	}

	var req dto.ReplyTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.ticketService.Reply(userID, ticketID, middleware.IsAdmin(c), &req); err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "回复成功", nil)
}

// Close 关闭工单
// PUT /api/v1/tickets/:id/close
func (h *TicketHandler) Close(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	ticketID, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的工单ID")
		return
	}

	if err := h.ticketService.Close(userID, ticketID, middleware.IsAdmin(c)); err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "工单已关闭", nil)
}
