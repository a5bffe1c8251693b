package dto

// CreateTicketRequest 创建工单
type CreateTicketRequest struct {
	Subject string `json:"subject" binding:"required,max=200"`
	Content string `json:"content" binding:"required,max=5000"`
}

// ReplyTicketRequest 回复工单
type ReplyTicketRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// TicketItem 工单列表项
type TicketItem struct {
	ID        int64  `json:"id"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// TicketDetail 工单详情
type TicketDetail struct {
	ID      int64             `json:"id"`
	Subject string            `json:"subject"`
	Status  string            `json:"status"`
	Replies []TicketReplyItem `json:"replies"`
}

// TicketReplyItem 工单回复
type TicketReplyItem struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}
