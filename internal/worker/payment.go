package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/service"
)

// PaymentPoller 轮询支付网关，确认待支付充值单的到账状态
type PaymentPoller struct {
	paymentRepo   *repository.PaymentRepository
	walletService *service.WalletService
	httpClient    *http.Client
	gatewayURL    string
	interval      time.Duration
}

func NewPaymentPoller(
	paymentRepo *repository.PaymentRepository,
	walletService *service.WalletService,
	cfg *config.Config,
) *PaymentPoller {
	interval := time.Duration(cfg.Payment.PollSeconds) * time.Second
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &PaymentPoller{
		paymentRepo:   paymentRepo,
		walletService: walletService,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		gatewayURL:    cfg.Payment.GatewayURL,
		interval:      interval,
	}
}

// Run 轮询循环，直到 ctx 取消
func (p *PaymentPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("Payment poller started, interval: %s", p.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("Payment poller shutting down")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// pollOnce 扫描所有待支付充值单，到账的入账
func (p *PaymentPoller) pollOnce(ctx context.Context) {
	orders, err := p.paymentRepo.ListPending()
	if err != nil {
		log.Printf("Payment poller: failed to list pending orders: %v", err)
		return
	}

	for i := range orders {
		order := &orders[i]
		paid, err := p.checkPaid(ctx, order.ID)
		if err != nil {
			log.Printf("Payment poller: check %s failed: %v", order.ID, err)
			continue
		}
		if !paid {
			continue
		}

		if err := p.walletService.ConfirmTopUp(ctx, order.ID); err != nil {
			log.Printf("Payment poller: confirm %s failed: %v", order.ID, err)
			continue
		}
		log.Printf("Payment poller: order %s confirmed, user %d credited %.2f",
			order.ID, order.UserID, order.Amount)
	}
}

// checkPaid 查询网关的订单状态
func (p *PaymentPoller) checkPaid(ctx context.Context, orderID string) (bool, error) {
	if p.gatewayURL == "" {
		return false, nil
	}

	u := fmt.Sprintf("%s/api/orders/status?order_id=%s", p.gatewayURL, url.QueryEscape(orderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var result struct {
		Paid bool `json:"paid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Paid, nil
}
