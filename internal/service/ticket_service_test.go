package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
	"github.com/upgradedproxy/proxy_go_server/internal/testutil"
)

func setupTicketService(t *testing.T) (*TicketService, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := NewTicketService(
		repository.NewTicketRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func TestTicketService_Create(t *testing.T) {
	svc, db := setupTicketService(t)
	user := testutil.TestUser(t, db)

	ticket, err := svc.Create(user.ID, &dto.CreateTicketRequest{
		Subject: "代理无法连接",
		Content: "住宅代理从昨晚开始全部超时",
	})
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusOpen, ticket.Status)

	// 首条内容作为第一条回复落库
	detail, err := svc.Get(user.ID, ticket.ID, false)
	require.NoError(t, err)
	require.Len(t, detail.Replies, 1)
	assert.Equal(t, "住宅代理从昨晚开始全部超时", detail.Replies[0].Content)
	assert.Equal(t, user.Username, detail.Replies[0].Username)
}

func TestTicketService_Get(t *testing.T) {
	svc, db := setupTicketService(t)
	owner := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	ticket := testutil.TestTicket(t, db, owner.ID, "账单问题")

	t.Run("本人可见", func(t *testing.T) {
		detail, err := svc.Get(owner.ID, ticket.ID, false)
		require.NoError(t, err)
		assert.Equal(t, "账单问题", detail.Subject)
	})

	t.Run("他人不可见", func(t *testing.T) {
		_, err := svc.Get(other.ID, ticket.ID, false)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})

	t.Run("管理员可见所有", func(t *testing.T) {
		detail, err := svc.Get(other.ID, ticket.ID, true)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, detail.ID)
	})

	t.Run("工单不存在", func(t *testing.T) {
		_, err := svc.Get(owner.ID, 9999, false)
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestTicketService_Reply(t *testing.T) {
	svc, db := setupTicketService(t)
	owner := testutil.TestUser(t, db)
	admin := testutil.TestUser(t, db, testutil.WithRole("admin"))
	ticket := testutil.TestTicket(t, db, owner.ID, "带宽用量异常")

	t.Run("本人回复", func(t *testing.T) {
		err := svc.Reply(owner.ID, ticket.ID, false, &dto.ReplyTicketRequest{Content: "补充截图"})
		require.NoError(t, err)
	})

	t.Run("管理员回复他人工单", func(t *testing.T) {
		err := svc.Reply(admin.ID, ticket.ID, true, &dto.ReplyTicketRequest{Content: "已核实，正在修复"})
		require.NoError(t, err)

		detail, err := svc.Get(owner.ID, ticket.ID, false)
		require.NoError(t, err)
		require.Len(t, detail.Replies, 2)
		assert.Equal(t, admin.ID, detail.Replies[1].UserID)
	})

	t.Run("无关用户不能回复", func(t *testing.T) {
		stranger := testutil.TestUser(t, db)
		err := svc.Reply(stranger.ID, ticket.ID, false, &dto.ReplyTicketRequest{Content: "插一句"})
		assert.ErrorIs(t, err, ErrTicketNotFound)
	})
}

func TestTicketService_Close(t *testing.T) {
	svc, db := setupTicketService(t)
	owner := testutil.TestUser(t, db)
	ticket := testutil.TestTicket(t, db, owner.ID, "退款咨询")

	require.NoError(t, svc.Close(owner.ID, ticket.ID, false))

	detail, err := svc.Get(owner.ID, ticket.ID, false)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusClosed, detail.Status)
}

func TestTicketService_List(t *testing.T) {
	svc, db := setupTicketService(t)
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)

	testutil.TestTicket(t, db, user.ID, "工单一")
	testutil.TestTicket(t, db, user.ID, "工单二")
	testutil.TestTicket(t, db, other.ID, "别人的工单")

	t.Run("只看到自己的", func(t *testing.T) {
		items, total, err := svc.List(user.ID, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)
	})

	t.Run("管理员视角看全部", func(t *testing.T) {
		_, total, err := svc.List(0, 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
	})
}
