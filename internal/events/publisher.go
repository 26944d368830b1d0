package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"stayride-backend/internal/logger"
)

const (
	TypeRefundApproved     = "refund.approved"
	TypeRefundRejected     = "refund.rejected"
	TypeReservationCreated = "reservation.created"
	TypePaymentRecorded    = "payment.recorded"
	TypeEarningsSnapshot   = "earnings.snapshot"
)

// Event is the JSON envelope published to Kafka for downstream consumers
// (accounting, analytics, the notification fan-out).
type Event struct {
	Type          string    `json:"type"`
	ReservationID int32     `json:"reservation_id,omitempty"`
	UserID        int32     `json:"user_id,omitempty"`
	Amount        float64   `json:"amount,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Publisher emits lifecycle events. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(event Event) error
	Close() error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects a synchronous producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string) (Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return &kafkaPublisher{producer: producer, topic: topic}, nil
}

func (p *kafkaPublisher) Publish(event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Type),
		Value: sarama.ByteEncoder(payload),
	}

	logger.ExternalServiceCall("kafka", "publish", "type", event.Type, "reservation_id", event.ReservationID)
	_, _, err = p.producer.SendMessage(msg)
	logger.ExternalServiceResult("kafka", "publish", err, "type", event.Type)
	return err
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type noopPublisher struct{}

// NewNoopPublisher returns a publisher that drops all events. Used when no
// Kafka brokers are configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(Event) error { return nil }
func (noopPublisher) Close() error        { return nil }
