package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestMultiFansOutAndJoinsErrors(t *testing.T) {
	ok := &recordingPublisher{}
	failing := &recordingPublisher{err: errors.New("offline")}

	err := Multi(ok, nil, failing).Publish(context.Background(), Event{Type: OrderCreated})
	require.ErrorContains(t, err, "offline")
	require.Len(t, ok.events, 1)
	require.Len(t, failing.events, 1)
}

func TestTopicFor(t *testing.T) {
	require.Equal(t, OrdersTopic, TopicFor(OrderCancelled))
	require.Equal(t, ReservationsTopic, TopicFor(ReservationCreated))
	require.Equal(t, ContactTopic, TopicFor(ContactReceived))
}

func TestKafkaPublisherSendsKeyedMessage(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != OrdersTopic {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "ORD-1" {
			return errors.New("unexpected key " + string(key))
		}
		raw, _ := msg.Value.Encode()
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			return err
		}
		if event.Status != "NEW" {
			return errors.New("unexpected status " + event.Status)
		}
		return nil
	})

	publisher := NewKafkaPublisherWithProducer(producer, logger)
	err := publisher.Publish(context.Background(), Event{
		Type:       OrderCreated,
		Reference:  "ORD-1",
		Status:     "NEW",
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}
