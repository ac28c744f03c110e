package kafka

import (
	"encoding/json"
	"testing"

	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

func TestOutboxTopicPublisher_Publish(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	publisher := NewOutboxPublisher(producer, "")

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var envelope struct {
			ID          string          `json:"id"`
			EventType   string          `json:"event_type"`
			AggregateID string          `json:"aggregate_id"`
			Payload     json.RawMessage `json:"payload"`
		}
		if err := json.Unmarshal(value, &envelope); err != nil {
			return err
		}
		if envelope.EventType != "order.created" {
			t.Errorf("unexpected event type %s", envelope.EventType)
		}
		if envelope.AggregateID != "1" {
			t.Errorf("unexpected aggregate id %s", envelope.AggregateID)
		}
		return nil
	})

	err := publisher.Publish(domain.OutboxMessage{
		ID:            "msg-1",
		AggregateType: "order",
		AggregateID:   "1",
		EventType:     "order.created",
		Payload:       []byte(`{"order_id":1}`),
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOutboxTopicPublisher_NotInitialized(t *testing.T) {
	var publisher *OutboxTopicPublisher

	if err := publisher.Publish(domain.OutboxMessage{ID: "x"}); err == nil {
		t.Fatal("expected error for uninitialized publisher")
	}
}
