package repository

import (
	"gorm.io/gorm"

	"github.com/upgradedproxy/proxy_go_server/internal/model"
)

type TicketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Create(ticket *model.Ticket) error {
	return r.db.Create(ticket).Error
}

func (r *TicketRepository) GetByID(id int64) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.Where("id = ?", id).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *TicketRepository) ListByUser(userID int64, page, pageSize int) ([]model.Ticket, int64, error) {
	var tickets []model.Ticket
	var total int64

	// userID 为 0 时查询全部（管理员视角）
	query := r.db.Model(&model.Ticket{})
	if userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("updated_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&tickets).Error
	return tickets, total, err
}

func (r *TicketRepository) Update(ticket *model.Ticket) error {
	return r.db.Save(ticket).Error
}

func (r *TicketRepository) AddReply(reply *model.TicketReply) error {
	return r.db.Create(reply).Error
}

func (r *TicketRepository) ListReplies(ticketID int64) ([]model.TicketReply, error) {
	var replies []model.TicketReply
	err := r.db.Where("ticket_id = ?", ticketID).Order("created_at ASC").Find(&replies).Error
	return replies, err
}

func (r *TicketRepository) CountOpen() (int64, error) {
	var count int64
	err := r.db.Model(&model.Ticket{}).
		Where("status = ?", model.TicketStatusOpen).Count(&count).Error
	return count, err
}
