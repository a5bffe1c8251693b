package service

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
	"github.com/upgradedproxy/proxy_go_server/internal/model/dto"
	"github.com/upgradedproxy/proxy_go_server/internal/repository"
)

var ErrTicketNotFound = errors.New("工单不存在")

type TicketService struct {
	ticketRepo *repository.TicketRepository
	userRepo   *repository.UserRepository
}

func NewTicketService(ticketRepo *repository.TicketRepository, userRepo *repository.UserRepository) *TicketService {
	return &TicketService{
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
	}
}

// Create 创建工单并写入首条内容
func (s *TicketService) Create(userID int64, req *dto.CreateTicketRequest) (*model.Ticket, error) {
	ticket := &model.Ticket{
		UserID:  userID,
		Subject: req.Subject,
		Status:  model.TicketStatusOpen,
	}
	if err := s.ticketRepo.Create(ticket); err != nil {
		return nil, err
	}

	reply := &model.TicketReply{
		TicketID: ticket.ID,
		UserID:   userID,
		Content:  req.Content,
	}
	if err := s.ticketRepo.AddReply(reply); err != nil {
		return nil, err
	}
	return ticket, nil
}

// List 用户工单列表
func (s *TicketService) List(userID int64, page, pageSize int) ([]dto.TicketItem, int64, error) {
	tickets, total, err := s.ticketRepo.ListByUser(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]dto.TicketItem, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, dto.TicketItem{
			ID:        t.ID,
			Subject:   t.Subject,
			Status:    t.Status,
			CreatedAt: t.CreatedAt.Format(time.RFC3339),
			UpdatedAt: t.UpdatedAt.Format(time.RFC3339),
		})
	}
	return items, total, nil
}

// Get 工单详情，管理员可以看所有人的
func (s *TicketService) Get(userID, ticketID int64, isAdmin bool) (*dto.TicketDetail, error) {
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	if ticket.UserID != userID && !isAdmin {
		return nil, ErrTicketNotFound
	}

	replies, err := s.ticketRepo.ListReplies(ticketID)
	if err != nil {
		return nil, err
	}

	detail := &dto.TicketDetail{
		ID:      ticket.ID,
		Subject: ticket.Subject,
		Status:  ticket.Status,
		Replies: make([]dto.TicketReplyItem, 0, len(replies)),
	}
	for _, r := range replies {
		item := dto.TicketReplyItem{
			ID:        r.ID,
			UserID:    r.UserID,
			Content:   r.Content,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		}
		if u, err := s.userRepo.GetByID(r.UserID); err == nil {
			item.Username = u.Username
		}
		detail.Replies = append(detail.Replies, item)
	}
	return detail, nil
}

// Reply 回复工单
func (s *TicketService) Reply(userID, ticketID int64, isAdmin bool, req *dto.ReplyTicketRequest) error {
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		}
		return err
	}
	if ticket.UserID != userID && !isAdmin {
		return ErrTicketNotFound
	}

	reply := &model.TicketReply{
		TicketID: ticketID,
		UserID:   userID,
		Content:  req.Content,
	}
	if err := s.ticketRepo.AddReply(reply); err != nil {
		return err
	}

	// 回复后刷新工单的更新时间，列表按活跃度排序
	return s.ticketRepo.Update(ticket)
}

// Close 关闭工单
func (s *TicketService) Close(userID, ticketID int64, isAdmin bool) error {
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTicketNotFound
		}
		return err
	}
	if ticket.UserID != userID && !isAdmin {
		return ErrTicketNotFound
	}

	ticket.Status = model.TicketStatusClosed
	return s.ticketRepo.Update(ticket)
}
