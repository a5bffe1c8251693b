package dto

// TopUpRequest 创建充值单
type TopUpRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// TopUpResponse 充值单信息
type TopUpResponse struct {
	PaymentID string  `json:"payment_id"`
	Amount    float64 `json:"amount"`
	QRCodeURL string  `json:"qr_code_url"`
	ExpiresIn int     `json:"expires_in"` // 秒
}

// WalletInfo 钱包概览
type WalletInfo struct {
	Balance float64 `json:"balance"`
}

// TransactionItem 流水列表项
type TransactionItem struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// AdjustBalanceRequest 管理员调整余额
type AdjustBalanceRequest struct {
	Type        string  `json:"type" binding:"required,oneof=credit debit"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Description string  `json:"description,omitempty" binding:"omitempty,max=255"`
}
