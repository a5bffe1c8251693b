package worker

import (
	"context"
	"log"
	"time"

	"github.com/upgradedproxy/proxy_go_server/internal/pkg/email"
	"github.com/upgradedproxy/proxy_go_server/internal/pkg/queue"
)

// Mailer 消费邮件队列并发送通知邮件
type Mailer struct {
	queue        *queue.Queue
	emailService *email.Service
}

func NewMailer(q *queue.Queue, emailService *email.Service) *Mailer {
	return &Mailer{
		queue:        q,
		emailService: emailService,
	}
}

// Run 消费循环，直到 ctx 取消
func (m *Mailer) Run(ctx context.Context) {
	log.Println("Mailer started")
	for {
		select {
		case <-ctx.Done():
			log.Println("Mailer shutting down")
			return
		default:
			msg, err := m.queue.Pop(ctx, 5*time.Second)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Printf("Mailer: failed to pop message: %v", err)
				continue
			}
			if msg == nil {
				continue
			}

			if err := m.Handle(msg); err != nil {
				log.Printf("Mailer: send %s to %s failed: %v", msg.Type, msg.To, err)
			}
		}
	}
}

// Handle 按消息类型分发
func (m *Mailer) Handle(msg *queue.EmailMessage) error {
	switch msg.Type {
	case queue.EmailTypeWelcome:
		return m.emailService.SendWelcome(msg.To, msg.Username)
	case queue.EmailTypeReceipt:
		return m.emailService.SendTopUpReceipt(msg.To, msg.Username, msg.Amount, msg.PaymentID)
	default:
		log.Printf("Mailer: unknown message type %q, dropping", msg.Type)
		return nil
	}
}
