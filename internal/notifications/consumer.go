package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"cinebook/internal/shared/config"
)

// NotificationConsumer drains the booking and show topics and hands each
// queued notification to the email service for delivery.
type NotificationConsumer interface {
	StartConsumers(ctx context.Context, numWorkers int) error
	Stop() error
	HealthCheck(ctx context.Context) error
}

type ConsumerConfig struct {
	Brokers           []string
	GroupID           string
	Topics            []string
	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	RetryBackoff      time.Duration
	MaxProcessingTime time.Duration
	OffsetOldest      bool
	SendRetries       int
	SendBackoff       time.Duration
}

func NewConsumerConfig(cfg config.KafkaConfig) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:           cfg.Brokers,
		GroupID:           cfg.ConsumerGroup,
		Topics:            []string{cfg.BookingTopic, cfg.ShowTopic},
		SessionTimeout:    30 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		RetryBackoff:      100 * time.Millisecond,
		MaxProcessingTime: 5 * time.Minute,
		OffsetOldest:      false,
		SendRetries:       3,
		SendBackoff:       time.Second,
	}
}

type KafkaNotificationConsumer struct {
	group        sarama.ConsumerGroup
	config       *ConsumerConfig
	emailService EmailService
	ctx          context.Context
	cancel       context.CancelFunc
}

func NewKafkaNotificationConsumer(cfg *ConsumerConfig, emailService EmailService) (NotificationConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = cfg.SessionTimeout
	saramaConfig.Consumer.Group.Heartbeat.Interval = cfg.HeartbeatInterval
	saramaConfig.Consumer.Retry.Backoff = cfg.RetryBackoff
	saramaConfig.Consumer.MaxProcessingTime = cfg.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	if cfg.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	}

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaNotificationConsumer{
		group:        group,
		config:       cfg,
		emailService: emailService,
		ctx:          ctx,
		cancel:       cancel,
	}, nil
}

func (knc *KafkaNotificationConsumer) StartConsumers(ctx context.Context, numWorkers int) error {
	log.Printf("📥 Starting %d email delivery workers for topics %v", numWorkers, knc.config.Topics)

	go knc.drainGroupErrors()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			knc.consumeLoop(ctx, id)
		}(i)
	}
	return nil
}

func (knc *KafkaNotificationConsumer) consumeLoop(ctx context.Context, workerID int) {
	worker := &deliveryWorker{
		id:          workerID,
		email:       knc.emailService,
		maxRetries:  knc.config.SendRetries,
		baseBackoff: knc.config.SendBackoff,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("📥 Delivery worker %d shutting down", workerID)
			return
		default:
			// Consume blocks until a rebalance or error, then we rejoin.
			if err := knc.group.Consume(ctx, knc.config.Topics, worker); err != nil {
				log.Printf("📥 Delivery worker %d consume error: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (knc *KafkaNotificationConsumer) drainGroupErrors() {
	for err := range knc.group.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

func (knc *KafkaNotificationConsumer) Stop() error {
	log.Println("📥 Stopping notification consumer...")
	knc.cancel()
	if err := knc.group.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	log.Println("📥 Notification consumer stopped")
	return nil
}

func (knc *KafkaNotificationConsumer) HealthCheck(ctx context.Context) error {
	select {
	case <-knc.ctx.Done():
		return fmt.Errorf("consumer context is cancelled")
	default:
	}
	if knc.emailService == nil {
		return fmt.Errorf("email service not configured")
	}
	return nil
}

// deliveryWorker implements sarama.ConsumerGroupHandler for one worker.
type deliveryWorker struct {
	id          int
	email       EmailService
	maxRetries  int
	baseBackoff time.Duration
}

func (w *deliveryWorker) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d joined consumer group session", w.id)
	return nil
}

func (w *deliveryWorker) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d left consumer group session", w.id)
	return nil
}

func (w *deliveryWorker) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := w.deliver(session.Context(), message); err != nil {
				log.Printf("📥 Worker %d: delivery failed: %v", w.id, err)
			}
			// Marked either way: a notification that exhausted its
			// retries will not succeed on redelivery.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (w *deliveryWorker) deliver(ctx context.Context, message *sarama.ConsumerMessage) error {
	log.Printf("📥 Worker %d: notification from topic %s, partition %d, offset %d",
		w.id, message.Topic, message.Partition, message.Offset)

	var notification EmailNotification
	if err := json.Unmarshal(message.Value, &notification); err != nil {
		return fmt.Errorf("failed to unmarshal notification: %w", err)
	}

	// Reminders for shows that already started are worthless.
	if notification.IsExpired() {
		log.Printf("📥 Worker %d: notification %s expired, skipping", w.id, notification.ID)
		return nil
	}

	notification.Status = NotificationStatusSending

	if err := w.sendWithRetry(ctx, &notification); err != nil {
		notification.MarkFailed(err)
		return err
	}

	notification.MarkSent()
	log.Printf("📧 Worker %d: email sent to %s (%s)", w.id, notification.RecipientEmail, notification.Type)
	return nil
}

func (w *deliveryWorker) sendWithRetry(ctx context.Context, notification *EmailNotification) error {
	for attempt := 0; ; attempt++ {
		err := w.email.SendNotification(ctx, notification)
		if err == nil {
			if attempt > 0 {
				log.Printf("📥 Worker %d: delivered after %d retries", w.id, attempt)
			}
			return nil
		}

		if attempt == w.maxRetries {
			log.Printf("📥 Worker %d: giving up after %d attempts: %v", w.id, attempt+1, err)
			return err
		}

		delay := w.baseBackoff * time.Duration(1<<attempt)
		log.Printf("📥 Worker %d: retry %d in %v", w.id, attempt+1, delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
