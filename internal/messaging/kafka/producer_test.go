package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/elemming-specialisterne/uge8-OrderDocker/internal/domain"
)

func orderCreatedFixture(productIDs []int64) *domain.OrderCreatedEvent {
	order := &domain.Order{ID: 1, UserID: 7, CreatedAt: time.Now().UTC()}
	for _, id := range productIDs {
		order.Items = append(order.Items, &domain.OrderItem{ProductID: id, Order: order})
	}
	return domain.NewOrderCreatedEvent(order)
}

func newMockProducer(t *testing.T) (*Producer, *mocks.SyncProducer) {
	t.Helper()

	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	return producer, mockProducer
}

func TestProducer_PublishEvent(t *testing.T) {
	producer, mockProducer := newMockProducer(t)
	mockProducer.ExpectSendMessageAndSucceed()

	event := orderCreatedFixture([]int64{10, 20})

	if err := producer.PublishEvent(TopicOrderEvents, "1", event); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	producer, mockProducer := newMockProducer(t)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := orderCreatedFixture(nil)

	if err := producer.PublishEvent(TopicOrderEvents, "1", event); err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}
