package model

import (
	"time"
)

const (
	TicketStatusOpen   = "open"
	TicketStatusClosed = "closed"
)

type Ticket struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Subject   string    `gorm:"size:200;not null" json:"subject"`
	Status    string    `gorm:"size:20;default:open;index" json:"status"` // open, closed
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Ticket) TableName() string {
	return "tickets"
}

type TicketReply struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	TicketID  int64     `gorm:"not null;index" json:"ticket_id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (TicketReply) TableName() string {
	return "ticket_replies"
}
