package evomi

// Subuser 上游子账号，Products 为产品类型到密钥的映射
type Subuser struct {
	ID       string            `json:"id"`
	Username string            `json:"username"`
	Products map[string]string `json:"products"`
}

type subuserResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Data    Subuser `json:"data"`
}

// Allocation 带宽分配结果，ReservationID 用于失败补偿
type Allocation struct {
	ReservationID string `json:"reservation_id"`
	ProductType   string `json:"product_type"`
	BandwidthMB   int    `json:"bandwidth_mb"`
}

type allocationResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    Allocation `json:"data"`
}

type releaseResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Endpoint 产品类型对应的接入点
type Endpoint struct {
	Host string
	Port int
}

// Endpoints 产品类型到接入点的固定映射
var Endpoints = map[string]Endpoint{
	"residential": {Host: "rp.evomi.com", Port: 1000},
	"datacenter":  {Host: "dcp.evomi.com", Port: 2000},
	"mobile":      {Host: "mp.evomi.com", Port: 3000},
	"isp":         {Host: "isp.evomi.com", Port: 4000},
}
