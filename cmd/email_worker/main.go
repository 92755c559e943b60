package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/go-task-manager-api/config"
	"github.com/oksasatya/go-task-manager-api/pkg/mailer"
)

const sendTimeout = 15 * time.Second

// sender is the slice of the Mailgun client the worker needs.
type sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// deliver resolves one queued job (raw subject/text or an account
// template) and sends it. It reports whether the message should be
// acked; any failure means drop, since delivery is at-most-once and
// nothing in the pipeline retries.
func deliver(ctx context.Context, mg sender, body []byte) bool {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		log.Printf("bad message: %v", err)
		return false
	}

	subject, text := job.Subject, job.Text
	if job.Template != "" {
		s, t, err := mailer.RenderAccount(job.Template, job.Name)
		if err != nil {
			log.Printf("render %s failed: %v", job.Template, err)
			return false
		}
		subject, text = s, t
	}

	c, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := mg.Send(c, job.To, subject, text, job.HTML); err != nil {
		log.Printf("send failed: %v", err)
		return false
	}
	return true
}

func main() {
	cfg := config.Load()
	if !cfg.MailSendEnabled {
		log.Println("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		log.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			if deliver(ctx, mg, msg.Body) {
				_ = msg.Ack(false)
			} else {
				// at-most-once: a failed message is dropped, never requeued
				_ = msg.Nack(false, false)
			}
		}
		close(done)
	}()

	log.Printf("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
