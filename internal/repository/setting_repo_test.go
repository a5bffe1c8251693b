package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func TestSettingRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSettingRepository(db)

	require.NoError(t, repo.Upsert(map[string]string{
		"site_name":     "MyProxy",
		"support_email": "support@example.com",
	}))

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "MyProxy", all["site_name"])
	assert.Equal(t, "support@example.com", all["support_email"])

	// 重复写入覆盖旧值
	require.NoError(t, repo.Upsert(map[string]string{"site_name": "Renamed"}))

	all, err = repo.GetAll()
	require.NoError(t, err)
	assert.Equal(t, "Renamed", all["site_name"])
	assert.Equal(t, "support@example.com", all["support_email"])
	assert.Len(t, all, 2)
}

func TestSettingRepository_GetAll_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewSettingRepository(db)

	all, err := repo.GetAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}
