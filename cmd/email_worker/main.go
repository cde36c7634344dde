package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/storelane/storelane-api/config"
	"github.com/storelane/storelane-api/pkg/helpers"
	"github.com/storelane/storelane-api/pkg/mailer"
)

// Email worker: consumes EmailJob messages from RabbitMQ and sends them
// through Mailgun. Run alongside the API server.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if cfg.RabbitMQURL == "" {
		log.Fatal("RABBITMQ_URL is required for the email worker")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("failed to open channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("failed to set qos: %v", err)
	}

	q, err := ch.QueueDeclare(cfg.RabbitMQEmailQueue, true, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to declare queue: %v", err)
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Infof("email worker consuming from %q", q.Name)

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker shutting down")
			return
		case d, ok := <-msgs:
			if !ok {
				logger.Warn("consumer channel closed")
				return
			}
			var job mailer.EmailJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				logger.WithError(err).Error("invalid email job payload, dropping")
				_ = d.Nack(false, false)
				continue
			}
			job.Render(cfg.AppName)

			if !cfg.MailSendEnabled {
				logger.WithField("to", job.To).Info("mail sending disabled, acking without send")
				_ = d.Ack(false)
				continue
			}
			if err := mg.Send(ctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
				logger.WithError(err).WithField("to", job.To).Error("failed to send email, requeueing")
				_ = d.Nack(false, true)
				continue
			}
			logger.WithField("to", job.To).Info("email sent")
			_ = d.Ack(false)
		}
	}
}
