package dto

// ReferralItem 邀请记录
type ReferralItem struct {
	ID         int64   `json:"id"`
	ReferredID int64   `json:"referred_id"`
	Username   string  `json:"username"`
	Status     string  `json:"status"`
	Commission float64 `json:"commission"`
	CreatedAt  string  `json:"created_at"`
}

// ReferralStats 邀请统计
type ReferralStats struct {
	TotalInvited  int64   `json:"total_invited"`
	ActiveInvited int64   `json:"active_invited"`
	TotalEarned   float64 `json:"total_earned"`
	ReferralCode  string  `json:"referral_code"`
}
