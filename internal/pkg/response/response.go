package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	CodeSuccess             = 0
	CodeParamError          = 1000
	CodeAuthFailed          = 1001
	CodePermissionDenied    = 1002
	CodeResourceNotFound    = 1003
	CodeInsufficientBalance = 1004
	CodeInvalidCoupon       = 1005
	CodeMissingProviderKey  = 1006
	CodeUpstreamError       = 1007
	CodeServerError         = 5000
)

// 错误码对应的默认消息
var codeMessages = map[int]string{
	CodeSuccess:             "success",
	CodeParamError:          "参数错误",
	CodeAuthFailed:          "认证失败",
	CodePermissionDenied:    "权限不足",
	CodeResourceNotFound:    "资源不存在",
	CodeInsufficientBalance: "余额不足",
	CodeInvalidCoupon:       "优惠码无效",
	CodeMissingProviderKey:  "上游密钥未配置",
	CodeUpstreamError:       "上游服务暂不可用",
	CodeServerError:         "服务器内部错误",
}

// 错误码对应的 HTTP 状态码，对外接口约定固定状态码
var codeStatus = map[int]int{
	CodeSuccess:             http.StatusOK,
	CodeParamError:          http.StatusBadRequest,
	CodeAuthFailed:          http.StatusUnauthorized,
	CodePermissionDenied:    http.StatusForbidden,
	CodeResourceNotFound:    http.StatusNotFound,
	CodeInsufficientBalance: http.StatusPaymentRequired,
	CodeInvalidCoupon:       http.StatusUnprocessableEntity,
	CodeMissingProviderKey:  http.StatusBadRequest,
	CodeUpstreamError:       http.StatusServiceUnavailable,
	CodeServerError:         http.StatusInternalServerError,
}

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// PageData 分页数据结构
type PageData struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Items    interface{} `json:"items"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 带自定义消息的成功响应
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, total int64, page, pageSize int, items interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: PageData{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			Items:    items,
		},
	})
}

// Error 错误响应，HTTP 状态码由错误码决定
func Error(c *gin.Context, code int, message string) {
	if message == "" {
		message = codeMessages[code]
	}
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// ParamError 参数错误
func ParamError(c *gin.Context, message string) {
	Error(c, CodeParamError, message)
}

// AuthError 认证失败
func AuthError(c *gin.Context, message string) {
	Error(c, CodeAuthFailed, message)
}

// PermissionError 权限不足
func PermissionError(c *gin.Context, message string) {
	Error(c, CodePermissionDenied, message)
}

// NotFoundError 资源不存在
func NotFoundError(c *gin.Context, message string) {
	Error(c, CodeResourceNotFound, message)
}

// BalanceError 余额不足
func BalanceError(c *gin.Context, message string) {
	Error(c, CodeInsufficientBalance, message)
}

// CouponError 优惠码无效
func CouponError(c *gin.Context, message string) {
	Error(c, CodeInvalidCoupon, message)
}

// ProviderKeyError 上游密钥未配置
func ProviderKeyError(c *gin.Context, message string) {
	Error(c, CodeMissingProviderKey, message)
}

// UpstreamError 上游服务异常
func UpstreamError(c *gin.Context, message string) {
	Error(c, CodeUpstreamError, message)
}

// ServerError 服务器错误
func ServerError(c *gin.Context, message string) {
	Error(c, CodeServerError, message)
}
