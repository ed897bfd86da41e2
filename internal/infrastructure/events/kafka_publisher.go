// Package events publica los eventos de ciclo de vida de licencias en Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jhoicas/HSE-api/internal/application/license"
)

// DefaultTopic tópico por defecto de los eventos de licencia.
const DefaultTopic = "hse.license.events"

// Ensure KafkaPublisher implements license.EventPublisher.
var _ license.EventPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher produce un registro por evento. La clave es empresa/licencia para que los
// eventos de una misma licencia conserven el orden dentro de la partición.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher crea el cliente productor. Opciones extra (SASL, TLS, etc.) vía opts.
func NewKafkaPublisher(brokers []string, topic string, opts ...kgo.Opt) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka: sin brokers")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression(), kgo.NoCompression()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// EnsureTopic crea el tópico si no existe.
func (p *KafkaPublisher) EnsureTopic(ctx context.Context, partitions int32, replication int16) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, partitions, replication, nil, p.topic)
	if err != nil {
		return fmt.Errorf("kafka create topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("kafka create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Publish serializa el evento en JSON y espera la confirmación del broker.
func (p *KafkaPublisher) Publish(ctx context.Context, evt license.Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	rec := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(evt.CompanyID + "/" + strconv.FormatInt(evt.LicenseID, 10)),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "action", Value: []byte(evt.Action)},
			{Key: "event_id", Value: []byte(evt.ID)},
		},
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("kafka produce: %w", err)
	}
	return nil
}

// Close vacía los buffers pendientes y cierra el cliente.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// Ping verifica que algún broker responda (health check).
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka ping: %w", err)
	}
	return nil
}
