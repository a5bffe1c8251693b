package evomi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/upgradedproxy/proxy_go_server/config"
)

var ErrUpstream = errors.New("evomi: upstream request failed")

// Client Evomi 接口封装，BaseURL 可注入便于测试
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg *config.EvomiConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// EnsureSubuser 确保子账号存在，上游幂等：已存在则原样返回
func (c *Client) EnsureSubuser(ctx context.Context, username string) (*Subuser, error) {
	body := map[string]string{"username": username}

	var resp subuserResponse
	if err := c.post(ctx, "/v2/subusers", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Message)
	}
	return &resp.Data, nil
}

// AllocateBandwidth 为子账号分配带宽，返回可用于补偿释放的 reservation
func (c *Client) AllocateBandwidth(ctx context.Context, subuserID, productType string, bandwidthMB int) (*Allocation, error) {
	body := map[string]interface{}{
		"subuser_id":   subuserID,
		"product_type": productType,
		"bandwidth_mb": bandwidthMB,
	}

	var resp allocationResponse
	if err := c.post(ctx, "/v2/bandwidth/allocate", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, resp.Message)
	}
	return &resp.Data, nil
}

// ReleaseBandwidth 释放已分配的带宽，本地落库失败时的补偿动作
func (c *Client) ReleaseBandwidth(ctx context.Context, subuserID, reservationID string) error {
	body := map[string]string{
		"subuser_id":     subuserID,
		"reservation_id": reservationID,
	}

	var resp releaseResponse
	if err := c.post(ctx, "/v2/bandwidth/release", body, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%w: %s", ErrUpstream, resp.Message)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(data))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	return nil
}
