package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/config"
	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/jwt"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/queue"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupAuthService(t *testing.T) (*AuthService, *gorm.DB, *queue.Queue) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	emailQueue := queue.NewQueue(rdb, "test:emails")

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret",
			ExpireHours: 24,
		},
	}

	svc := NewAuthService(
		repository.NewUserRepository(db),
		repository.NewReferralRepository(db),
		emailQueue,
		cfg,
	)
	return svc, db, emailQueue
}

func TestAuthService_Register(t *testing.T) {
	t.Run("注册成功", func(t *testing.T) {
		svc, db, emailQueue := setupAuthService(t)

		resp, err := svc.Register(&dto.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.Greater(t, resp.UserID, int64(0))

		var user model.User
		require.NoError(t, db.First(&user, resp.UserID).Error)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "user", user.Role)
		assert.Len(t, user.ReferralCode, 8)
		assert.Nil(t, user.ReferredBy)

		// 密码存的是 bcrypt 哈希
		require.NotNil(t, user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte("password123")))

		// 注册会投递一封欢迎邮件
		msg, err := emailQueue.Pop(context.Background(), time.Second)
		require.NoError(t, err)
		require.NotNil(t, msg)
		assert.Equal(t, queue.EmailTypeWelcome, msg.Type)
		assert.Equal(t, resp.UserID, msg.UserID)
		assert.Equal(t, "alice@example.com", msg.To)
	})

	t.Run("携带邀请码建立邀请关系", func(t *testing.T) {
		svc, db, _ := setupAuthService(t)
		referrer := testutil.TestUser(t, db)

		resp, err := svc.Register(&dto.RegisterRequest{
			Username:     "bob",
			Email:        "bob@example.com",
			Password:     "password123",
			ReferralCode: referrer.ReferralCode,
		})
		require.NoError(t, err)

		var user model.User
		require.NoError(t, db.First(&user, resp.UserID).Error)
		require.NotNil(t, user.ReferredBy)
		assert.Equal(t, referrer.ID, *user.ReferredBy)

		var referral model.Referral
		require.NoError(t, db.Where("referred_id = ?", resp.UserID).First(&referral).Error)
		assert.Equal(t, referrer.ID, referral.UserID)
		assert.Equal(t, model.ReferralStatusPending, referral.Status)
	})

	t.Run("无效邀请码不阻断注册", func(t *testing.T) {
		svc, db, _ := setupAuthService(t)

		resp, err := svc.Register(&dto.RegisterRequest{
			Username:     "carol",
			Email:        "carol@example.com",
			Password:     "password123",
			ReferralCode: "NOTEXIST",
		})
		require.NoError(t, err)

		var user model.User
		require.NoError(t, db.First(&user, resp.UserID).Error)
		assert.Nil(t, user.ReferredBy)

		var count int64
		db.Model(&model.Referral{}).Where("referred_id = ?", resp.UserID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("邮箱已注册", func(t *testing.T) {
		svc, db, _ := setupAuthService(t)
		testutil.TestUser(t, db, testutil.WithEmail("taken@example.com"))

		_, err := svc.Register(&dto.RegisterRequest{
			Username: "dave",
			Email:    "taken@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("用户名已占用", func(t *testing.T) {
		svc, db, _ := setupAuthService(t)
		testutil.TestUser(t, db, testutil.WithUsername("taken_name"))

		_, err := svc.Register(&dto.RegisterRequest{
			Username: "taken_name",
			Email:    "free@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrUsernameExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "eve",
		Email:    "eve@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	t.Run("登录成功", func(t *testing.T) {
		resp, err := svc.Login(&dto.LoginRequest{
			Email:    "eve@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "eve", resp.User.Username)
		assert.Equal(t, "eve@example.com", resp.User.Email)

		claims, err := jwt.ParseToken(resp.Token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, resp.User.ID, claims.UserID)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{
			Email:    "eve@example.com",
			Password: "wrong-password",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("邮箱不存在", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{
			Email:    "ghost@example.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestGenerateReferralCode(t *testing.T) {
	svc, _, _ := setupAuthService(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		code, err := svc.generateReferralCode()
		require.NoError(t, err)
		assert.Len(t, code, 8)
		for _, c := range code {
			assert.Contains(t, referralCodeChars, string(c))
		}
		seen[code] = true
	}
	// 10 次生成撞码的概率可以忽略
	assert.Len(t, seen, 10)
}
