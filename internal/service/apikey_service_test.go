package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupApiKeyService(t *testing.T) (*ApiKeyService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewApiKeyService(repository.NewApiKeyRepository(db)), db
}

func TestApiKeyService_Create(t *testing.T) {
	svc, db := setupApiKeyService(t)
	user := testutil.TestUser(t, db)

	item, err := svc.Create(user.ID, &dto.CreateApiKeyRequest{KeyName: "ci"})
	require.NoError(t, err)

	assert.Equal(t, "ci", item.KeyName)
	assert.True(t, item.IsActive)
	assert.True(t, strings.HasPrefix(item.ApiKey, "up_"))
	assert.Greater(t, len(item.ApiKey), 20)
	assert.Contains(t, item.KeyHint, "...")

	// 完整 key 只在创建响应里出现一次，列表只给掩码
	list, err := svc.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].ApiKey)
	assert.Equal(t, item.KeyHint, list[0].KeyHint)
}

func TestApiKeyService_Authenticate(t *testing.T) {
	svc, db := setupApiKeyService(t)
	user := testutil.TestUser(t, db)

	item, err := svc.Create(user.ID, &dto.CreateApiKeyRequest{KeyName: "prod"})
	require.NoError(t, err)

	t.Run("有效 key", func(t *testing.T) {
		userID, err := svc.Authenticate(item.ApiKey)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
	})

	t.Run("无效 key", func(t *testing.T) {
		_, err := svc.Authenticate("up_not_a_real_key")
		assert.ErrorIs(t, err, ErrApiKeyNotFound)
	})
}

func TestApiKeyService_Delete(t *testing.T) {
	svc, db := setupApiKeyService(t)
	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	item, err := svc.Create(owner.ID, &dto.CreateApiKeyRequest{KeyName: "temp"})
	require.NoError(t, err)

	t.Run("不能删除别人的 key", func(t *testing.T) {
		err := svc.Delete(other.ID, item.ID)
		assert.ErrorIs(t, err, ErrApiKeyNotFound)

		list, err := svc.List(owner.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("删除自己的 key", func(t *testing.T) {
		require.NoError(t, svc.Delete(owner.ID, item.ID))

		list, err := svc.List(owner.ID)
		require.NoError(t, err)
		assert.Empty(t, list)

		// 删除后不能再认证
		_, err = svc.Authenticate(item.ApiKey)
		assert.ErrorIs(t, err, ErrApiKeyNotFound)
	})

	t.Run("重复删除", func(t *testing.T) {
		err := svc.Delete(owner.ID, item.ID)
		assert.ErrorIs(t, err, ErrApiKeyNotFound)
	})
}

func TestKeyHint(t *testing.T) {
	assert.Equal(t, "up_abc...wxyz", keyHint("up_abcdef1234567890wxyz"))
	assert.Equal(t, "short", keyHint("short"))
}
