// Package notify queues outgoing e-mails in Redis and delivers them over SMTP
// from a single background worker.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"cardledger/internal/config"
	"cardledger/internal/logger"
	"cardledger/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	queueKey  = "notifications:email"
	failedKey = "notifications:email:failed"
	maxTries  = 3
)

type Job struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// InvoiceNotice is what the card owner is told about a freshly generated invoice.
type InvoiceNotice struct {
	InvoiceID   string
	PrintedName string
	CardNumber  string // already masked
	Month       int
	Year        int
	Value       string
}

// Sender delivers one message. The SMTP implementation is the default.
type Sender interface {
	Send(job Job) error
}

type Service struct {
	redis      *redis.Client
	sender     Sender
	popTimeout time.Duration
	retryDelay time.Duration
}

func New(cfg *config.Config) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}),
		sender: &smtpSender{
			from:     cfg.EmailFrom,
			fromName: cfg.EmailFromName,
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			user:     cfg.SMTPUser,
			pass:     cfg.SMTPPass,
		},
		popTimeout: 2 * time.Second,
		retryDelay: 5 * time.Second,
	}
}

func (s *Service) Enqueue(ctx context.Context, to, subject, body string) error {
	job := Job{
		To:      to,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		metrics.RecordNotification("queue_error")
		return err
	}

	metrics.RecordNotification("queued")
	logger.Debugf("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) SendInvoiceNotice(ctx context.Context, to string, n InvoiceNotice) error {
	subject := fmt.Sprintf("Your invoice for %02d/%d", n.Month, n.Year)
	body := fmt.Sprintf(`Hi %s,

The invoice for your card %s is ready.

Period: %02d/%d
Amount due: %s
Invoice: %s

- CardLedger`, n.PrintedName, n.CardNumber, n.Month, n.Year, n.Value, n.InvoiceID)

	return s.Enqueue(ctx, to, subject, body)
}

// Start runs the delivery loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

// processNext handles at most one queued job and reports whether one was popped.
func (s *Service) processNext(ctx context.Context) bool {
	result, err := s.redis.BRPop(ctx, s.popTimeout, queueKey).Result()
	if err != nil {
		return false
	}

	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad notification data: %v", err)
		metrics.RecordNotification("malformed")
		return true
	}

	job.Tries++
	if err := s.sender.Send(job); err != nil {
		logger.Error("email delivery failed", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			s.requeue(ctx, job)
		} else {
			s.saveFailed(ctx, job, err)
		}
		return true
	}

	metrics.RecordNotification("sent")
	logger.Infof("Email sent to %s", job.To)
	return true
}

func (s *Service) requeue(ctx context.Context, job Job) {
	select {
	case <-ctx.Done():
	case <-time.After(s.retryDelay):
	}

	data, _ := json.Marshal(job)
	// the job must survive a shutdown that interrupted the delay
	if err := s.redis.LPush(context.WithoutCancel(ctx), queueKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to requeue email to %s: %v", job.To, err)
		return
	}
	metrics.RecordNotification("retried")
}

func (s *Service) saveFailed(ctx context.Context, job Job, cause error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": cause.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	if err := s.redis.LPush(context.WithoutCancel(ctx), failedKey, string(data)).Err(); err != nil {
		logger.Errorf("Failed to park email to %s: %v", job.To, err)
	}
	metrics.RecordNotification("failed")
	logger.Errorf("Email to %s failed after %d attempts", job.To, job.Tries)
}

// QueueLength reports the pending jobs and mirrors the value into the gauge.
func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.SetNotificationQueueLength(length)
	return length
}

func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}

type smtpSender struct {
	from     string
	fromName string
	host     string
	port     string
	user     string
	pass     string
}

func (m *smtpSender) Send(job Job) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", m.fromName, m.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if m.user != "" && m.pass != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	return smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{job.To}, []byte(message))
}
