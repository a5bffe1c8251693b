package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/jwt"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/oauth"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/queue"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrUsernameExists     = errors.New("用户名已被使用")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrUserNotFound       = errors.New("用户不存在")
)

type AuthService struct {
	userRepo     *repository.UserRepository
	referralRepo *repository.ReferralRepository
	emailQueue   *queue.Queue
	cfg          *config.Config
	githubOAuth  *oauth.GithubOAuth
}

func NewAuthService(
	userRepo *repository.UserRepository,
	referralRepo *repository.ReferralRepository,
	emailQueue *queue.Queue,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		emailQueue:   emailQueue,
		cfg:          cfg,
		githubOAuth: oauth.NewGithubOAuth(
			cfg.OAuth.Github.ClientID,
			cfg.OAuth.Github.ClientSecret,
			cfg.OAuth.Github.RedirectURI,
		),
	}
}

// Register 用户注册，携带邀请码则建立邀请关系
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	exists, err = s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 邀请码在注册前解析，无效邀请码不阻断注册
	var referrer *model.User
	if req.ReferralCode != "" {
		referrer, err = s.userRepo.GetByReferralCode(req.ReferralCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	referralCode, err := s.generateReferralCode()
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	user := &model.User{
		Username:     req.Username,
		Email:        &req.Email,
		PasswordHash: &passwordStr,
		Role:         "user",
		ReferralCode: referralCode,
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if referrer != nil {
		referral := &model.Referral{
			UserID:     referrer.ID,
			ReferredID: user.ID,
			Status:     model.ReferralStatusPending,
		}
		if err := s.referralRepo.Create(referral); err != nil {
			log.Printf("Failed to create referral for user %d: %v", user.ID, err)
		}
	}

	// 欢迎邮件走队列，失败不影响注册
	if s.emailQueue != nil {
		msg := &queue.EmailMessage{
			Type:     queue.EmailTypeWelcome,
			UserID:   user.ID,
			To:       req.Email,
			Username: user.Username,
		}
		if err := s.emailQueue.Push(context.Background(), msg); err != nil {
			log.Printf("Failed to queue welcome email for user %d: %v", user.ID, err)
		}
	}

	return &dto.RegisterResponse{
		UserID: user.ID,
	}, nil
}

// Login 用户登录
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := jwt.GenerateTokenWithRole(user.ID, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User:  buildUserInfo(user),
	}, nil
}

// GetGithubAuthURL 获取 GitHub 授权 URL
func (s *AuthService) GetGithubAuthURL(state string) string {
	return s.githubOAuth.GetAuthURL(state)
}

// GithubCallback 处理 GitHub OAuth 回调
func (s *AuthService) GithubCallback(ctx context.Context, code string) (*dto.LoginResponse, error) {
	token, err := s.githubOAuth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	githubUser, err := s.githubOAuth.GetUser(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get github user: %w", err)
	}

	githubIDStr := fmt.Sprintf("%d", githubUser.ID)

	user, err := s.userRepo.GetByGithubID(githubIDStr)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user == nil {
		referralCode, err := s.generateReferralCode()
		if err != nil {
			return nil, err
		}

		user = &model.User{
			Username:     githubUser.Login,
			GithubID:     &githubIDStr,
			AvatarURL:    githubUser.AvatarURL,
			Role:         "user",
			ReferralCode: referralCode,
		}
		if githubUser.Email != "" {
			user.Email = &githubUser.Email
		}

		// 确保用户名唯一
		exists, _ := s.userRepo.ExistsByUsername(user.Username)
		if exists {
			user.Username = fmt.Sprintf("%s_%s", user.Username, githubIDStr)
		}

		if err := s.userRepo.Create(user); err != nil {
			return nil, err
		}
	}

	jwtToken, err := jwt.GenerateTokenWithRole(user.ID, user.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpireHours)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: jwtToken,
		User:  buildUserInfo(user),
	}, nil
}

const referralCodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateReferralCode 生成 8 位邀请码，冲突则重试
func (s *AuthService) generateReferralCode() (string, error) {
	for i := 0; i < 5; i++ {
		code := make([]byte, 8)
		for j := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCodeChars))))
			if err != nil {
				return "", err
			}
			code[j] = referralCodeChars[n.Int64()]
		}

		exists, err := s.userRepo.ExistsByReferralCode(string(code))
		if err != nil {
			return "", err
		}
		if !exists {
			return string(code), nil
		}
	}
	return "", errors.New("生成邀请码失败")
}

func generateRandomToken(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func buildUserInfo(user *model.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:           user.ID,
		Username:     user.Username,
		AvatarURL:    user.AvatarURL,
		Role:         user.Role,
		Balance:      user.Balance,
		ReferralCode: user.ReferralCode,
		CreatedAt:    user.CreatedAt.Format(time.RFC3339),
	}

	if user.Email != nil {
		info.Email = *user.Email
	}

	return info
}
