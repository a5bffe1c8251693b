package dto

// GenerateProxyRequest 下单购买代理
type GenerateProxyRequest struct {
	ProductID   int64  `json:"product_id" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1,max=100"`
	Country     string `json:"country,omitempty" binding:"omitempty,len=2"`
	SessionType string `json:"session_type,omitempty" binding:"omitempty,oneof=sticky rotating"`
}

// GenerateProxyResponse 下单结果
type GenerateProxyResponse struct {
	OrderID   int64       `json:"order_id"`
	TotalCost float64     `json:"total_cost"`
	Balance   float64     `json:"balance"` // 扣款后余额
	ExpiresAt string      `json:"expires_at"`
	Proxies   []ProxyItem `json:"proxies"`
}

// ProxyItem 单条代理凭证
type ProxyItem struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	Country     string `json:"country"`
	SessionType string `json:"session_type"`
	CreatedAt   string `json:"created_at"`
}

// ProxyEndpoint 产品类型对应的接入点
type ProxyEndpoint struct {
	ProductType string `json:"product_type"`
	Host        string `json:"host"`
	Port        int    `json:"port"`
}

// OrderItem 订单列表项
type OrderItem struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	TotalCost float64 `json:"total_cost"`
	Status    string  `json:"status"`
	ExpiresAt string  `json:"expires_at"`
	CreatedAt string  `json:"created_at"`
}
