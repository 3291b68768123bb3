package main

import (
	"context"
	"encoding/json"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/config"
	"github.com/oksasatya/go-account-service/pkg/helpers"
	"github.com/oksasatya/go-account-service/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notify", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; notify worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQNotifyQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	q, err := helpers.NewRabbitQueue(cfg.RabbitMQURL, cfg.RabbitMQNotifyQueue)
	if err != nil {
		logger.WithError(err).Fatal("amqp connect")
	}
	defer q.Close()

	msgs, err := q.Consume(16)
	if err != nil {
		logger.WithError(err).Fatal("consume")
	}

	sender := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			var job mailer.EmailJob
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				helpers.LogError(logger, "bad message", err, nil)
				_ = msg.Nack(false, false)
				continue
			}
			fields := logrus.Fields{"to": job.To, "template": job.Template}

			c, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := mailer.Deliver(c, sender, job)
			cancel()
			if err != nil {
				helpers.LogError(logger, "deliver failed", err, fields)
				// only transport failures are worth a retry
				_ = msg.Nack(false, !errors.Is(err, mailer.ErrUndeliverable))
				continue
			}
			_ = msg.Ack(false)
			logger.WithFields(fields).Info("notification sent")
		}
	}()

	logger.WithField("queue", cfg.RabbitMQNotifyQueue).Info("notify worker listening")
	<-ctx.Done()
	logger.Info("shutting down...")
	q.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

