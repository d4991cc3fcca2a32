package gateway

import (
	"context"

	"github.com/twmb/franz-go/pkg/kgo"

	"libranexus/internal/library"
)

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// KafkaPublisher produces events keyed by their aggregate key so one
// record's history stays in one partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	if cfg.Topic == "" {
		cfg.Topic = "libranexus.events"
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, library.Runtime(err, "create kafka client")
	}
	return &KafkaPublisher{client: client, topic: cfg.Topic}, nil
}

func (p *KafkaPublisher) Record(event *library.DomainEvent) (*kgo.Record, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, library.Serialization(err, "encode event %s", event.EventID)
	}
	return &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Key),
		Value: data,
		Headers: []kgo.RecordHeader{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_name", Value: []byte(event.Name)},
			{Key: "event_group", Value: []byte(event.Group)},
			{Key: "event_kind", Value: []byte(event.Kind)},
		},
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *library.DomainEvent) error {
	record, err := p.Record(event)
	if err != nil {
		return err
	}
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return library.FromTransport(err, "produce event %s", event.EventID)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	p.client.Close()
	return nil
}
