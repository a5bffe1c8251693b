package dto

// CreateApiKeyRequest 创建 API Key
type CreateApiKeyRequest struct {
	KeyName string `json:"key_name" binding:"required,max=100"`
}

// ApiKeyItem API Key 列表项，完整 key 只在创建时返回一次
type ApiKeyItem struct {
	ID        int64  `json:"id"`
	KeyName   string `json:"key_name"`
	ApiKey    string `json:"api_key,omitempty"`
	KeyHint   string `json:"key_hint"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}
