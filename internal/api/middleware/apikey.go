package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

// ApiKeyAuth 程序化访问认证，X-Api-Key 换取用户身份
func ApiKeyAuth(apiKeyService *service.ApiKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-Api-Key")
		if apiKey == "" {
			response.AuthError(c, "请提供 API Key")
			c.Abort()
			return
		}

		userID, err := apiKeyService.Authenticate(apiKey)
		if err != nil {
			response.AuthError(c, "API Key 无效")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
