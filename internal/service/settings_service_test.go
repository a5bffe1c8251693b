package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupSettingsService(t *testing.T) (*SettingsService, *miniredis.Miniredis) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewSettingsService(repository.NewSettingRepository(db), rdb), mr
}

func TestSettingsService_Snapshot(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		svc, _ := setupSettingsService(t)

		snapshot, err := svc.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "UpgradedProxy", snapshot.SiteName)
		assert.Equal(t, 0.1, snapshot.ReferralCommissionRate)
		assert.Empty(t, snapshot.SupportEmail)
		assert.Zero(t, snapshot.AutoTopUpThreshold)
	})

	t.Run("回源后写缓存", func(t *testing.T) {
		svc, mr := setupSettingsService(t)

		_, err := svc.Snapshot(context.Background())
		require.NoError(t, err)
		assert.True(t, mr.Exists("settings:snapshot"))
	})

	t.Run("命中缓存不回源", func(t *testing.T) {
		svc, mr := setupSettingsService(t)

		// 直接种一份缓存，DB 里没有对应数据
		require.NoError(t, mr.Set("settings:snapshot",
			`{"site_name":"CachedName","referral_commission_rate":0.25}`))

		snapshot, err := svc.Snapshot(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "CachedName", snapshot.SiteName)
		assert.Equal(t, 0.25, snapshot.ReferralCommissionRate)
	})
}

func TestSettingsService_Update(t *testing.T) {
	t.Run("只更新给出的字段", func(t *testing.T) {
		svc, _ := setupSettingsService(t)
		ctx := context.Background()

		name := "MyProxy"
		snapshot, err := svc.Update(ctx, &dto.UpdateSettingsRequest{SiteName: &name})
		require.NoError(t, err)
		assert.Equal(t, "MyProxy", snapshot.SiteName)
		assert.Equal(t, 0.1, snapshot.ReferralCommissionRate)

		rate := 0.2
		snapshot, err = svc.Update(ctx, &dto.UpdateSettingsRequest{ReferralCommissionRate: &rate})
		require.NoError(t, err)
		assert.Equal(t, "MyProxy", snapshot.SiteName)
		assert.Equal(t, 0.2, snapshot.ReferralCommissionRate)
	})

	t.Run("写入使缓存失效", func(t *testing.T) {
		svc, mr := setupSettingsService(t)
		ctx := context.Background()

		_, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		require.True(t, mr.Exists("settings:snapshot"))

		email := "support@example.com"
		_, err = svc.Update(ctx, &dto.UpdateSettingsRequest{SupportEmail: &email})
		require.NoError(t, err)
		assert.False(t, mr.Exists("settings:snapshot"))

		snapshot, err := svc.Snapshot(ctx)
		require.NoError(t, err)
		assert.Equal(t, "support@example.com", snapshot.SupportEmail)
	})

	t.Run("空请求不动缓存", func(t *testing.T) {
		svc, mr := setupSettingsService(t)
		ctx := context.Background()

		_, err := svc.Snapshot(ctx)
		require.NoError(t, err)

		_, err = svc.Update(ctx, &dto.UpdateSettingsRequest{})
		require.NoError(t, err)
		assert.True(t, mr.Exists("settings:snapshot"))
	})
}
