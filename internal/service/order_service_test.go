package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func TestOrderService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewOrderService(repository.NewOrderRepository(db))

	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	product := testutil.TestProduct(t, db)

	testutil.TestOrder(t, db, user.ID, product.ID)
	// 已到期但后台任务还没跑到的订单
	stale := testutil.TestOrder(t, db, user.ID, product.ID,
		testutil.WithOrderExpiresAt(time.Now().Add(-time.Hour)))
	testutil.TestOrder(t, db, other.ID, product.ID)

	items, total, err := svc.List(user.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	// 过期状态在读取时计算，不依赖落库
	statusByID := make(map[int64]string)
	for _, item := range items {
		statusByID[item.ID] = item.Status
	}
	assert.Equal(t, model.OrderStatusExpired, statusByID[stale.ID])

	var stored model.Order
	require.NoError(t, db.First(&stored, stale.ID).Error)
	assert.Equal(t, model.OrderStatusActive, stored.Status)
}

func TestOrderService_ListPagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewOrderService(repository.NewOrderRepository(db))

	user := testutil.TestUser(t, db)
	product := testutil.TestProduct(t, db)
	for i := 0; i < 5; i++ {
		testutil.TestOrder(t, db, user.ID, product.ID)
	}

	items, total, err := svc.List(user.ID, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, items, 2)
}
