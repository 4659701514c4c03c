package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/IBM/sarama"
)

// Consumer drains booking events and hands them to the email service.
type Consumer interface {
	Start(ctx context.Context, numWorkers int) error
	Stop() error
}

// ConsumerConfig contains configuration for the booking-event consumer
type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

// DefaultConsumerConfig returns a default consumer configuration
func DefaultConsumerConfig(brokers []string, groupID, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              brokers,
		GroupID:              groupID,
		Topics:               []string{topic},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// KafkaConsumer consumes booking events from Kafka and sends emails.
type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
	wg            sync.WaitGroup
}

// NewKafkaConsumer creates a new Kafka booking-event consumer
func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService) (*KafkaConsumer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
	}, nil
}

// Start launches numWorkers consumer workers. It returns immediately; the
// workers run until ctx is cancelled.
func (kc *KafkaConsumer) Start(ctx context.Context, numWorkers int) error {
	log.Printf("📥 Starting %d booking-event consumer workers for topics: %v", numWorkers, kc.config.Topics)

	go kc.handleErrors()

	for i := 0; i < numWorkers; i++ {
		kc.wg.Add(1)
		go func(workerID int) {
			defer kc.wg.Done()
			kc.runWorker(ctx, workerID)
		}(i)
	}

	return nil
}

func (kc *KafkaConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &eventHandler{
		workerID:     workerID,
		emailService: kc.emailService,
		maxRetries:   kc.config.MaxRetries,
		backoff:      kc.config.RetryBackoffDuration,
	}

	for {
		select {
		case <-ctx.Done():
			log.Printf("📥 Worker %d shutting down", workerID)
			return
		default:
			if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
				log.Printf("📥 Worker %d error consuming messages: %v", workerID, err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

// Stop closes the consumer group and waits for workers to drain.
func (kc *KafkaConsumer) Stop() error {
	log.Println("📥 Stopping booking-event consumer...")

	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	kc.wg.Wait()

	log.Println("📥 Booking-event consumer stopped")
	return nil
}

type eventHandler struct {
	workerID     int
	emailService EmailService
	maxRetries   int
	backoff      time.Duration
}

func (h *eventHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: Consumer group session started", h.workerID)
	return nil
}

func (h *eventHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("📥 Worker %d: Consumer group session ended", h.workerID)
	return nil
}

func (h *eventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("📥 Worker %d: Error processing message: %v", h.workerID, err)
			}
			// Mark regardless: a poisoned event must not wedge the partition.
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *eventHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var event BookingEvent
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal booking event: %w", err)
	}

	return h.sendWithRetry(ctx, &event)
}

func (h *eventHandler) sendWithRetry(ctx context.Context, event *BookingEvent) error {
	for attempt := 0; ; attempt++ {
		err := h.emailService.SendBookingEvent(ctx, event)
		if err == nil {
			if attempt > 0 {
				log.Printf("📥 Worker %d: Delivered booking event after %d retries", h.workerID, attempt)
			}
			return nil
		}
		if attempt == h.maxRetries {
			return fmt.Errorf("failed to deliver booking event after %d attempts: %w", h.maxRetries, err)
		}

		delay := h.backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
