package dto

// DashboardStats 后台概览统计
type DashboardStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalOrders   int64   `json:"total_orders"`
	ActiveOrders  int64   `json:"active_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	RevenueToday  float64 `json:"revenue_today"`
	PendingTopUps int64   `json:"pending_topups"`
	OpenTickets   int64   `json:"open_tickets"`
}

// CreateProductRequest 创建产品
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Type        string  `json:"type" binding:"required,oneof=residential datacenter mobile isp"`
	Description string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
}

// UpdateProductRequest 更新产品
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string  `json:"description,omitempty" binding:"omitempty,max=2000"`
	Price       *float64 `json:"price,omitempty" binding:"omitempty,gt=0"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// UpdateUserRequest 管理员更新用户
type UpdateUserRequest struct {
	Role *string `json:"role,omitempty" binding:"omitempty,oneof=user admin"`
}

// SettingsSnapshot 运行时配置快照，读写都是完整结构
type SettingsSnapshot struct {
	SiteName               string  `json:"site_name"`
	SupportEmail           string  `json:"support_email"`
	ReferralCommissionRate float64 `json:"referral_commission_rate"` // 0~1
	AutoTopUpThreshold     float64 `json:"auto_topup_threshold"`
	PaymentWalletAddress   string  `json:"payment_wallet_address"`
}

// UpdateSettingsRequest 更新运行时配置
type UpdateSettingsRequest struct {
	SiteName               *string  `json:"site_name,omitempty" binding:"omitempty,max=100"`
	SupportEmail           *string  `json:"support_email,omitempty" binding:"omitempty,email"`
	ReferralCommissionRate *float64 `json:"referral_commission_rate,omitempty" binding:"omitempty,gte=0,lte=1"`
	AutoTopUpThreshold     *float64 `json:"auto_topup_threshold,omitempty" binding:"omitempty,gte=0"`
	PaymentWalletAddress   *string  `json:"payment_wallet_address,omitempty" binding:"omitempty,max=100"`
}
