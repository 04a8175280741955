package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
)

// Producer is a synchronous writer for the reservation handoff topic. Sends
// block until the cluster acknowledges the record.
type Producer struct {
	sync sarama.SyncProducer
}

// NewConfig builds the producer configuration for handoff delivery:
// full-acknowledgement idempotent writes. The idempotent producer requires a
// single in-flight request per broker.
func NewConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	cfg.ClientID = "temporada"
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	cfg.Net.MaxOpenRequests = 1
	return cfg
}

// NewProducer connects a synchronous producer to the given brokers. A nil cfg
// uses NewConfig.
func NewProducer(brokers []string, cfg *sarama.Config) (*Producer, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	sp, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka: connect producer: %w", err)
	}
	return &Producer{sync: sp}, nil
}

// Publish sends one record and waits for the acknowledgement. The context is
// checked before the blocking send; sarama offers no per-message deadline.
func (p *Producer) Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}
	_, _, err := p.sync.SendMessage(&sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: hs,
	})
	if err != nil {
		return fmt.Errorf("kafka: publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.sync == nil {
		return nil
	}
	return p.sync.Close()
}
