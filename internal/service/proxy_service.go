package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/evomi"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/pubsub"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

var (
	ErrProductNotFound     = errors.New("产品不存在或已下架")
	ErrInsufficientBalance = errors.New("余额不足")
	ErrUpstreamFailed      = errors.New("上游服务暂不可用")
)

// ErrMissingProviderKey 缺少对应产品类型的上游密钥，附带可用类型便于排查
type ErrMissingProviderKey struct {
	ProductType string
	Available   []string
}

func (e *ErrMissingProviderKey) Error() string {
	return fmt.Sprintf("缺少 %s 类型的上游密钥，当前可用类型: [%s]",
		e.ProductType, strings.Join(e.Available, ", "))
}

const (
	orderDuration    = 30 * 24 * time.Hour
	bandwidthPerUnit = 1024 // MB
	defaultCountry   = "US"
	defaultSession   = "rotating"
)

type ProxyService struct {
	db             *gorm.DB
	userRepo       *repository.UserRepository
	productRepo    *repository.ProductRepository
	proxyRepo      *repository.ProxyRepository
	credentialRepo *repository.CredentialRepository
	evomiClient    *evomi.Client
	publisher      *pubsub.Publisher
	cfg            *config.Config
}

func NewProxyService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	productRepo *repository.ProductRepository,
	proxyRepo *repository.ProxyRepository,
	credentialRepo *repository.CredentialRepository,
	evomiClient *evomi.Client,
	publisher *pubsub.Publisher,
	cfg *config.Config,
) *ProxyService {
	return &ProxyService{
		db:             db,
		userRepo:       userRepo,
		productRepo:    productRepo,
		proxyRepo:      proxyRepo,
		credentialRepo: credentialRepo,
		evomiClient:    evomiClient,
		publisher:      publisher,
		cfg:            cfg,
	}
}

// Generate 购买并交付代理：校验余额 → 确保上游子账号 → 分配带宽 → 事务扣款落单。
// 上游调用全部成功后才碰本地状态；本地事务失败时释放已分配的带宽。
func (s *ProxyService) Generate(ctx context.Context, userID int64, req *dto.GenerateProxyRequest) (*dto.GenerateProxyResponse, error) {
	country := req.Country
	if country == "" {
		country = defaultCountry
	}
	country = strings.ToUpper(country)

	sessionType := req.SessionType
	if sessionType == "" {
		sessionType = defaultSession
	}

	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	totalCost := product.Price * float64(req.Quantity)

	// 重新读取用户拿最新余额，先做快速预检；事务内行锁后还会再查一次
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Balance < totalCost {
		return nil, ErrInsufficientBalance
	}

	// 确保上游子账号存在，返回的密钥同步落到本地凭证表
	subuser, err := s.evomiClient.EnsureSubuser(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	if len(subuser.Products) > 0 {
		if err := s.credentialRepo.UpsertKeys(userID, subuser.Products); err != nil {
			return nil, err
		}
	}
	if subuser.ID != "" && (user.SubuserID == nil || *user.SubuserID != subuser.ID) {
		if err := s.userRepo.UpdateFields(userID, map[string]interface{}{
			"subuser_id":      subuser.ID,
			"subuser_created": true,
		}); err != nil {
			return nil, err
		}
	}

	credential, err := s.resolveCredential(userID, product.Type)
	if err != nil {
		return nil, err
	}

	// 先向上游分配带宽，确认资源可用后才进入本地财务事务
	allocation, err := s.evomiClient.AllocateBandwidth(ctx, subuser.ID, product.Type, req.Quantity*bandwidthPerUnit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}

	endpoint, ok := evomi.Endpoints[product.Type]
	if !ok {
		endpoint = evomi.Endpoints[model.ProductTypeResidential]
	}

	var order model.Order
	var proxies []model.Proxy
	var newBalance float64

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// 行锁下复核余额，防止并发购买穿透预检
		var lockedUser model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&lockedUser, userID).Error; err != nil {
			return err
		}
		if lockedUser.Balance < totalCost {
			return ErrInsufficientBalance
		}

		newBalance = lockedUser.Balance - totalCost
		if err := tx.Model(&model.User{}).Where("id = ?", userID).
			Update("balance", newBalance).Error; err != nil {
			return err
		}

		txn := model.WalletTransaction{
			UserID:      userID,
			Type:        model.TransactionTypeDebit,
			Amount:      totalCost,
			Description: fmt.Sprintf("购买 %s x%d", product.Name, req.Quantity),
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}

		order = model.Order{
			UserID:    userID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			TotalCost: totalCost,
			Status:    model.OrderStatusActive,
			ExpiresAt: time.Now().Add(orderDuration),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		proxies = make([]model.Proxy, req.Quantity)
		for i := 0; i < req.Quantity; i++ {
			proxies[i] = model.Proxy{
				OrderID:     order.ID,
				UserID:      userID,
				Host:        endpoint.Host,
				Port:        endpoint.Port,
				Username:    user.Username,
				Password:    buildProxyPassword(credential.Key, country, sessionType),
				Country:     country,
				SessionType: sessionType,
			}
		}
		return tx.Create(&proxies).Error
	})
	if err != nil {
		// 本地落库失败，释放上游已分配的带宽
		if relErr := s.evomiClient.ReleaseBandwidth(ctx, subuser.ID, allocation.ReservationID); relErr != nil {
			log.Printf("Failed to release bandwidth reservation %s for user %d: %v",
				allocation.ReservationID, userID, relErr)
		}
		return nil, err
	}

	if s.publisher != nil {
		event := &pubsub.PaymentEvent{
			Type:    pubsub.EventOrderCreated,
			UserID:  userID,
			OrderID: order.ID,
			Amount:  totalCost,
			Balance: newBalance,
		}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("Failed to publish order event for order %d: %v", order.ID, err)
		}
	}

	return &dto.GenerateProxyResponse{
		OrderID:   order.ID,
		TotalCost: totalCost,
		Balance:   newBalance,
		ExpiresAt: order.ExpiresAt.Format(time.RFC3339),
		Proxies:   buildProxyItems(proxies),
	}, nil
}

// resolveCredential 按产品类型取密钥，缺失时回退 residential，再缺失报可用类型
func (s *ProxyService) resolveCredential(userID int64, productType string) (*model.ProviderCredential, error) {
	credential, err := s.credentialRepo.GetByUserAndType(userID, productType)
	if err == nil {
		return credential, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if productType != model.ProductTypeResidential {
		credential, err = s.credentialRepo.GetByUserAndType(userID, model.ProductTypeResidential)
		if err == nil {
			return credential, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	creds, err := s.credentialRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	available := make([]string, 0, len(creds))
	for _, c := range creds {
		available = append(available, c.ProductType)
	}
	sort.Strings(available)

	return nil, &ErrMissingProviderKey{ProductType: productType, Available: available}
}

// List 列出用户的代理凭证
func (s *ProxyService) List(userID int64, page, pageSize int) ([]dto.ProxyItem, int64, error) {
	proxies, total, err := s.proxyRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return buildProxyItems(proxies), total, nil
}

// Endpoints 产品类型到接入点的固定映射
func (s *ProxyService) Endpoints() []dto.ProxyEndpoint {
	types := make([]string, 0, len(evomi.Endpoints))
	for t := range evomi.Endpoints {
		types = append(types, t)
	}
	sort.Strings(types)

	endpoints := make([]dto.ProxyEndpoint, 0, len(types))
	for _, t := range types {
		ep := evomi.Endpoints[t]
		endpoints = append(endpoints, dto.ProxyEndpoint{
			ProductType: t,
			Host:        ep.Host,
			Port:        ep.Port,
		})
	}
	return endpoints
}

// buildProxyPassword 凭证密钥 + 国家 + 会话模式拼出确定性密码
func buildProxyPassword(credentialKey, country, sessionType string) string {
	return fmt.Sprintf("%s_country-%s_session-%s", credentialKey, country, sessionType)
}

func buildProxyItems(proxies []model.Proxy) []dto.ProxyItem {
	items := make([]dto.ProxyItem, 0, len(proxies))
	for _, p := range proxies {
		items = append(items, dto.ProxyItem{
			ID:          p.ID,
			OrderID:     p.OrderID,
			Host:        p.Host,
			Port:        p.Port,
			Username:    p.Username,
			Password:    p.Password,
			Country:     p.Country,
			SessionType: p.SessionType,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		})
	}
	return items
}
