package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

const (
	OrdersTopic       = "restaurant.orders"
	ReservationsTopic = "restaurant.reservations"
	ContactTopic      = "restaurant.contact"
)

type KafkaPublisher struct {
	producer sarama.SyncProducer
	logger   *logrus.Logger
}

func NewKafkaPublisher(brokers []string, logger *logrus.Logger) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Return.Successes = true
	config.Producer.Timeout = 5 * time.Second
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, err
	}
	return NewKafkaPublisherWithProducer(producer, logger), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, logger *logrus.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, logger: logger}
}

// TopicFor routes an event to its topic by the event type prefix.
func TopicFor(eventType string) string {
	switch {
	case strings.HasPrefix(eventType, "reservation."):
		return ReservationsTopic
	case strings.HasPrefix(eventType, "contact."):
		return ContactTopic
	default:
		return OrdersTopic
	}
}

func (p *KafkaPublisher) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	topic := TopicFor(event.Type)
	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(event.Reference),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.WithError(err).WithField("event_type", event.Type).Error("Failed to send event to Kafka")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"topic":      topic,
		"partition":  partition,
		"offset":     offset,
		"event_type": event.Type,
		"reference":  event.Reference,
	}).Debug("Event published to Kafka")
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
