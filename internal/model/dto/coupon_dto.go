package dto

// ValidateCouponRequest 校验优惠码
type ValidateCouponRequest struct {
	Code   string  `json:"code" binding:"required,max=50"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// ValidateCouponResponse 校验结果
type ValidateCouponResponse struct {
	Valid       bool    `json:"valid"`
	Discount    float64 `json:"discount"`
	FinalAmount float64 `json:"final_amount"`
}

// CreateCouponRequest 创建优惠码
type CreateCouponRequest struct {
	Code      string  `json:"code" binding:"required,max=50"`
	Type      string  `json:"type" binding:"required,oneof=percentage fixed"`
	Value     float64 `json:"value" binding:"required,gt=0"`
	MinAmount float64 `json:"min_amount,omitempty" binding:"omitempty,gte=0"`
	MaxUses   *int    `json:"max_uses,omitempty" binding:"omitempty,gt=0"`
	ExpiresAt string  `json:"expires_at,omitempty"` // RFC3339
}
