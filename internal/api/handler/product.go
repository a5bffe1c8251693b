package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// List 在售产品列表
// GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.ListActive()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, products)
}

// AdminList 所有产品（含下架）
// GET /api/v1/admin/products
func (h *ProductHandler) AdminList(c *gin.Context) {
	products, err := h.productService.List()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, products)
}

// Create 创建产品
// POST /api/v1/admin/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	product, err := h.productService.Create(&req)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "创建成功", product)
}

// Update 更新产品
// PUT /api/v1/admin/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的产品ID")
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	product, err := h.productService.Update(id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "更新成功", product)
}

// Delete 删除产品
// DELETE /api/v1/admin/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		response.ParamError(c, "无效的产品ID")
		return
	}

	if err := h.productService.Delete(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFoundError(c, err.Error())
			return
		}
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}
