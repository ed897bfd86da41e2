//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/infrastructure/events"
)

func TestKafkaPublisher_PublicaEventoConClave(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := redpanda.Run(ctx, "docker.redpanda.com/redpandadata/redpanda:v24.2.4")
	if err != nil {
		t.Fatalf("failed to start redpanda container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	pub, err := events.NewKafkaPublisher([]string{broker}, "hse.license.events.test")
	require.NoError(t, err)
	t.Cleanup(pub.Close)
	require.NoError(t, pub.Ping(ctx))
	require.NoError(t, pub.EnsureTopic(ctx, 1, 1))
	// Segunda llamada: el tópico ya existe.
	require.NoError(t, pub.EnsureTopic(ctx, 1, 1))

	evt := license.Event{
		ID:            "evt-1",
		CompanyID:     "c1",
		LicenseID:     42,
		LicenseNumber: "SAF-26-0042",
		Action:        "ACTIVATED",
		Status:        "ACTIVE",
		Actor:         "Jefe HSE",
		OccurredAt:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pub.Publish(ctx, evt))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics("hse.license.events.test"),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.Empty(t, fetches.Errors())
	recs := fetches.Records()
	require.Len(t, recs, 1)

	assert.Equal(t, "c1/42", string(recs[0].Key))
	var got license.Event
	require.NoError(t, json.Unmarshal(recs[0].Value, &got))
	assert.Equal(t, evt, got)
}

func TestNewKafkaPublisher_SinBrokers(t *testing.T) {
	_, err := events.NewKafkaPublisher(nil, "")
	assert.Error(t, err)
}
