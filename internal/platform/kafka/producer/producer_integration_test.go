//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"idrecon/internal/platform/kafka/producer"
	"idrecon/pkg/testutil/containers"
)

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	cfg := producer.DefaultConfig(s.kafka.Brokers)
	cfg.DeliveryTimeout = 10 * time.Second
	p, err := producer.New(cfg, nil)
	s.Require().NoError(err)
	s.producer = p
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		_ = s.producer.Close()
	}
}

func (s *ProducerIntegrationSuite) TestHealthAndEnsureTopic() {
	ctx := context.Background()
	s.Require().NoError(s.producer.Health(ctx))
	for range 2 {
		s.Require().NoError(s.producer.EnsureTopic(ctx, "idrecon.ensure", 1, 1))
	}
}

func (s *ProducerIntegrationSuite) TestProduceIsAcknowledged() {
	ctx := context.Background()
	const topic = "idrecon.produce"
	s.Require().NoError(s.producer.EnsureTopic(ctx, topic, 1, 1))

	s.Require().NoError(s.producer.Produce(ctx, &producer.Message{
		Topic:   topic,
		Key:     []byte("job-42"),
		Value:   []byte(`{"type":"reconciliation.failed"}`),
		Headers: map[string]string{"event_type": "reconciliation.failed"},
	}))

	rec, err := s.kafka.ReadOne(ctx, topic, 10*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == "job-42"
	})
	s.Require().NoError(err)
	s.Require().NotNil(rec, "record not delivered")
	s.JSONEq(`{"type":"reconciliation.failed"}`, string(rec.Value))
}
