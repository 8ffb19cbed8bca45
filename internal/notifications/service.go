package notifications

import (
	"context"
	"fmt"
	"log"
	"sync"

	"cinebook/internal/shared/config"
)

// NotificationService owns the Kafka producer/consumer pair and the SMTP
// delivery path.
type NotificationService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
	SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error

	Producer() NotificationProducer
	Renderer() TemplateRenderer

	Start(ctx context.Context) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type EmailNotificationService struct {
	config       config.KafkaConfig
	producer     NotificationProducer
	consumer     NotificationConsumer
	emailService EmailService
	renderer     TemplateRenderer

	isRunning bool
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewEmailNotificationService(cfg *config.Config) (*EmailNotificationService, error) {
	renderer := NewTemplateRenderer(cfg.Email.FromName)

	var emailService EmailService
	if cfg.Email.MockDelivery {
		emailService = NewMockEmailService()
	} else {
		if cfg.Email.SMTPHost == "" || cfg.Email.SMTPUsername == "" {
			return nil, fmt.Errorf("SMTP configuration is required: missing SMTP_HOST or SMTP_USERNAME")
		}

		smtpService, err := NewSMTPEmailService(NewSMTPConfig(cfg.Email), renderer)
		if err != nil {
			return nil, fmt.Errorf("failed to create SMTP email service: %w", err)
		}
		emailService = smtpService
	}

	producer, err := NewKafkaNotificationProducer(NewKafkaProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	consumer, err := NewKafkaNotificationConsumer(NewConsumerConfig(cfg.Kafka), emailService)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	if cfg.Email.MockDelivery {
		log.Printf("📧 Email notification service initialized (mock delivery)")
	} else {
		log.Printf("📧 Email notification service initialized (Host: %s, Port: %d)", cfg.Email.SMTPHost, cfg.Email.SMTPPort)
	}

	return &EmailNotificationService{
		config:       cfg.Kafka,
		producer:     producer,
		consumer:     consumer,
		emailService: emailService,
		renderer:     renderer,
		isRunning:    false,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (ens *EmailNotificationService) Start(ctx context.Context) error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if ens.isRunning {
		return fmt.Errorf("notification service is already running")
	}

	log.Printf("🚀 Starting email notification service...")

	err := ens.consumer.StartConsumers(ens.ctx, ens.config.Workers)
	if err != nil {
		return fmt.Errorf("failed to start consumers: %w", err)
	}

	ens.isRunning = true
	log.Printf("✅ Email notification service started successfully")

	return nil
}

func (ens *EmailNotificationService) Stop() error {
	ens.mu.Lock()
	defer ens.mu.Unlock()

	if !ens.isRunning {
		return fmt.Errorf("notification service is not running")
	}

	log.Printf("🛑 Stopping email notification service...")

	ens.cancel()

	if err := ens.consumer.Stop(); err != nil {
		log.Printf("Error stopping consumer: %v", err)
	}

	if err := ens.producer.Close(); err != nil {
		log.Printf("Error closing producer: %v", err)
	}

	ens.isRunning = false
	log.Printf("✅ Email notification service stopped")

	return nil
}

func (ens *EmailNotificationService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	return ens.producer.PublishNotification(ctx, notification)
}

func (ens *EmailNotificationService) SendBatchNotifications(ctx context.Context, notifications []*EmailNotification) error {
	return ens.producer.PublishBatchNotifications(ctx, notifications)
}

func (ens *EmailNotificationService) Producer() NotificationProducer {
	return ens.producer
}

func (ens *EmailNotificationService) Renderer() TemplateRenderer {
	return ens.renderer
}

func (ens *EmailNotificationService) HealthCheck(ctx context.Context) error {
	ens.mu.RLock()
	isRunning := ens.isRunning
	ens.mu.RUnlock()

	if !isRunning {
		return fmt.Errorf("notification service is not running")
	}

	if err := ens.producer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("producer health check failed: %w", err)
	}

	if err := ens.consumer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("consumer health check failed: %w", err)
	}

	return nil
}
