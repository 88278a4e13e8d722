package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"

	"evreg/internal/platform/config"
	"evreg/internal/platform/metrics"
	"evreg/internal/platform/queue"

	"github.com/redis/go-redis/v9"
)

// Sender delivers a single mail message. The SMTP implementation is the
// production transport; tests plug in a recording fake.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers mail through a plain SMTP relay.
type SMTPSender struct {
	Addr string
	From string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + config.AppConfig.MailFromName + " <" + s.From + ">",
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(s.Addr, nil, s.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

// MailWorker consumes activation-mail jobs from the Redis queue and delivers
// them. Delivery failures are logged and dropped, they never propagate back
// into the registration flow.
type MailWorker struct {
	rdb     *redis.Client
	sender  Sender
	metrics *metrics.Metrics
}

func NewMailWorker(rdb *redis.Client, sender Sender, m *metrics.Metrics) *MailWorker {
	return &MailWorker{rdb: rdb, sender: sender, metrics: m}
}

func (w *MailWorker) Start(ctx context.Context) {
	log.Println("Mail worker started, listening to queue:", config.AppConfig.MailQueueName)
	for {
		select {
		case <-ctx.Done():
			log.Println("Mail worker stopping...")
			return
		default:
			// Blocking pop from Redis queue
			result, err := w.rdb.BRPop(ctx, 0*time.Second, config.AppConfig.MailQueueName).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					log.Printf("Mail worker BRPop exiting or timed out: %v", err)
					time.Sleep(1 * time.Second)
					continue
				}
				log.Printf("ERROR: Failed to BRPop from Redis queue '%s': %v", config.AppConfig.MailQueueName, err)
				time.Sleep(5 * time.Second)
				continue
			}

			// result is an array: [queueName, value]
			if len(result) < 2 || result[1] == "" {
				log.Println("WARN: BRPop returned empty mail job.")
				continue
			}
			w.deliver(result[1])
		}
	}
}

func (w *MailWorker) deliver(payload string) {
	var job queue.MailJob
	if err := json.Unmarshal([]byte(payload), &job); err != nil {
		log.Printf("ERROR: Dropping malformed mail job: %v", err)
		return
	}

	subject, body := ActivationMessage(job.ActivationKey)
	if err := w.sender.Send(job.Recipient, subject, body); err != nil {
		log.Printf("ERROR: Failed to deliver activation mail %s to %s: %v", job.ID, job.Recipient, err)
		return
	}
	if w.metrics != nil {
		w.metrics.ActivationMailsSent.Inc()
	}
	log.Printf("Activation mail %s delivered to %s.", job.ID, job.Recipient)
}

// ActivationMessage renders the activation mail for a key.
func ActivationMessage(activationKey string) (subject, body string) {
	subject = "IALT Registration"
	link := config.AppConfig.BaseURL + "/api/v1/auth/activate/" + activationKey
	body = "Please activate your profile under " + link
	return subject, body
}
