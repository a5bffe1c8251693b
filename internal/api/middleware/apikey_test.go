package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/response"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func TestApiKeyAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	apiKeyService := service.NewApiKeyService(repository.NewApiKeyRepository(db))
	user := testutil.TestUser(t, db)

	created, err := apiKeyService.Create(user.ID, &dto.CreateApiKeyRequest{KeyName: "test"})
	require.NoError(t, err)

	router := gin.New()
	router.Use(ApiKeyAuth(apiKeyService))
	router.GET("/test", func(c *gin.Context) {
		userID, ok := GetUserID(c)
		assert.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	t.Run("有效 key 换取身份", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Api-Key", created.ApiKey)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("缺少 key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		resp := parseResponse(t, w)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.CodeAuthFailed, resp.Code)
	})

	t.Run("无效 key", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Api-Key", "up_bogus")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		resp := parseResponse(t, w)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, response.CodeAuthFailed, resp.Code)
	})
}
