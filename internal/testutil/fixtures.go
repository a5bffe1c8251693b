package testutil

import (
	"fmt"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	nano := time.Now().UnixNano()
	email := fmt.Sprintf("test_%d@example.com", nano)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", nano%1000000),
		Email:        &email,
		PasswordHash: &passwordHash,
		Role:         "user",
		Balance:      0,
		ReferralCode: fmt.Sprintf("REF%d", nano%100000000),
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithBalance 设置余额
func WithBalance(balance float64) func(*model.User) {
	return func(u *model.User) {
		u.Balance = balance
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithReferredBy 设置邀请人
func WithReferredBy(userID int64) func(*model.User) {
	return func(u *model.User) {
		u.ReferredBy = &userID
	}
}

// WithSubuser 设置已创建的上游子账号
func WithSubuser(subuserID string) func(*model.User) {
	return func(u *model.User) {
		u.SubuserID = &subuserID
		u.SubuserCreated = true
	}
}

// TestProduct 创建测试产品
func TestProduct(t *testing.T, db *gorm.DB, opts ...func(*model.Product)) *model.Product {
	t.Helper()

	product := &model.Product{
		Name:     fmt.Sprintf("Residential %d", time.Now().UnixNano()%100000),
		Type:     model.ProductTypeResidential,
		Price:    10,
		IsActive: true,
	}

	for _, opt := range opts {
		opt(product)
	}

	// gorm 的 default:true 标签会在 Create 时跳过零值 false（并经 RETURNING 把
	// 库里的默认值 true 回填到结构体），先记下意图，创建后补一次写入
	wantInactive := !product.IsActive

	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}

	if wantInactive {
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test product: %v", err)
		}
		product.IsActive = false
	}

	return product
}

// WithProductType 设置产品类型
func WithProductType(productType string) func(*model.Product) {
	return func(p *model.Product) {
		p.Type = productType
	}
}

// WithPrice 设置单价
func WithPrice(price float64) func(*model.Product) {
	return func(p *model.Product) {
		p.Price = price
	}
}

// WithInactive 下架产品
func WithInactive() func(*model.Product) {
	return func(p *model.Product) {
		p.IsActive = false
	}
}

// TestCoupon 创建测试优惠码
func TestCoupon(t *testing.T, db *gorm.DB, opts ...func(*model.Coupon)) *model.Coupon {
	t.Helper()

	coupon := &model.Coupon{
		Code:     fmt.Sprintf("SAVE%d", time.Now().UnixNano()%1000000),
		Type:     model.CouponTypePercentage,
		Value:    20,
		IsActive: true,
	}

	for _, opt := range opts {
		opt(coupon)
	}

	// gorm 的 default:true 标签会在 Create 时跳过零值 false（并经 RETURNING 把
	// 库里的默认值 true 回填到结构体），先记下意图，创建后补一次写入
	wantInactive := !coupon.IsActive

	if err := db.Create(coupon).Error; err != nil {
		t.Fatalf("Failed to create test coupon: %v", err)
	}

	if wantInactive {
		if err := db.Model(coupon).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test coupon: %v", err)
		}
		coupon.IsActive = false
	}

	return coupon
}

// WithCouponType 设置优惠码类型和面值
func WithCouponType(couponType string, value float64) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.Type = couponType
		c.Value = value
	}
}

// WithMinAmount 设置使用门槛
func WithMinAmount(minAmount float64) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.MinAmount = minAmount
	}
}

// WithMaxUses 设置使用上限
func WithMaxUses(maxUses, usedCount int) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.MaxUses = &maxUses
		c.UsedCount = usedCount
	}
}

// WithExpiresAt 设置过期时间
func WithExpiresAt(expiresAt time.Time) func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.ExpiresAt = &expiresAt
	}
}

// WithCouponInactive 停用优惠码
func WithCouponInactive() func(*model.Coupon) {
	return func(c *model.Coupon) {
		c.IsActive = false
	}
}

// TestOrder 创建测试订单
func TestOrder(t *testing.T, db *gorm.DB, userID, productID int64, opts ...func(*model.Order)) *model.Order {
	t.Helper()

	order := &model.Order{
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
		TotalCost: 10,
		Status:    model.OrderStatusActive,
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}

	for _, opt := range opts {
		opt(order)
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}

	return order
}

// WithOrderExpiresAt 设置订单到期时间
func WithOrderExpiresAt(expiresAt time.Time) func(*model.Order) {
	return func(o *model.Order) {
		o.ExpiresAt = expiresAt
	}
}

// TestCredential 创建测试上游密钥
func TestCredential(t *testing.T, db *gorm.DB, userID int64, productType, key string) *model.ProviderCredential {
	t.Helper()

	cred := &model.ProviderCredential{
		UserID:      userID,
		ProductType: productType,
		Key:         key,
	}

	if err := db.Create(cred).Error; err != nil {
		t.Fatalf("Failed to create test credential: %v", err)
	}

	return cred
}

// TestApiKey 创建测试 API Key
func TestApiKey(t *testing.T, db *gorm.DB, userID int64, key string) *model.ApiKey {
	t.Helper()

	apiKey := &model.ApiKey{
		UserID:   userID,
		KeyName:  "test key",
		ApiKey:   key,
		IsActive: true,
	}

	if err := db.Create(apiKey).Error; err != nil {
		t.Fatalf("Failed to create test api key: %v", err)
	}

	return apiKey
}

// TestPaymentOrder 创建测试充值单
func TestPaymentOrder(t *testing.T, db *gorm.DB, id string, userID int64, amount float64, status string) *model.PaymentOrder {
	t.Helper()

	order := &model.PaymentOrder{
		ID:     id,
		UserID: userID,
		Amount: amount,
		Status: status,
	}

	if err := db.Create(order).Error; err != nil {
		t.Fatalf("Failed to create test payment order: %v", err)
	}

	return order
}

// TestTicket 创建测试工单
func TestTicket(t *testing.T, db *gorm.DB, userID int64, subject string) *model.Ticket {
	t.Helper()

	ticket := &model.Ticket{
		UserID:  userID,
		Subject: subject,
		Status:  model.TicketStatusOpen,
	}

	if err := db.Create(ticket).Error; err != nil {
		t.Fatalf("Failed to create test ticket: %v", err)
	}

	return ticket
}
