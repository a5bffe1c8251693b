package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupProductService(t *testing.T) (*ProductService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewProductService(repository.NewProductRepository(db)), db
}

func TestProductService_ListActive(t *testing.T) {
	svc, db := setupProductService(t)
	active := testutil.TestProduct(t, db)
	testutil.TestProduct(t, db, testutil.WithInactive())

	products, err := svc.ListActive()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, active.ID, products[0].ID)

	// 管理侧列表包含下架产品
	all, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProductService_Create(t *testing.T) {
	svc, _ := setupProductService(t)

	product, err := svc.Create(&dto.CreateProductRequest{
		Name:        "住宅代理",
		Type:        "residential",
		Description: "动态住宅 IP 池",
		Price:       12.5,
	})
	require.NoError(t, err)
	assert.Greater(t, product.ID, int64(0))
	assert.True(t, product.IsActive)
	assert.Equal(t, 12.5, product.Price)
}

func TestProductService_Update(t *testing.T) {
	svc, db := setupProductService(t)
	product := testutil.TestProduct(t, db, testutil.WithPrice(10))

	t.Run("部分字段更新", func(t *testing.T) {
		price := 8.0
		inactive := false
		updated, err := svc.Update(product.ID, &dto.UpdateProductRequest{
			Price:    &price,
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.Equal(t, 8.0, updated.Price)
		assert.False(t, updated.IsActive)
		assert.Equal(t, product.Name, updated.Name)
	})

	t.Run("产品不存在", func(t *testing.T) {
		name := "ghost"
		_, err := svc.Update(9999, &dto.UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, ErrProductNotFound)
	})
}

func TestProductService_Delete(t *testing.T) {
	svc, db := setupProductService(t)
	product := testutil.TestProduct(t, db)

	require.NoError(t, svc.Delete(product.ID))
	assert.ErrorIs(t, svc.Delete(product.ID), ErrProductNotFound)
}
