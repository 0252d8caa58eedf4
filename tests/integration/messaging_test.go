package integration

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arxiv/relations-core/internal/domain/entities"
	rediscache "github.com/arxiv/relations-core/internal/infrastructure/cache/redis"
	"github.com/arxiv/relations-core/internal/infrastructure/config"
	natsnotifier "github.com/arxiv/relations-core/internal/infrastructure/notifier/nats"
)

// These tests need live NATS and Redis servers on localhost; set
// INTEGRATION_TEST=1 to enable them.
func requireBackends(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TEST") != "1" {
		t.Skip("set INTEGRATION_TEST=1 to run against live backends")
	}
}

func TestPublisherDeliversToStream(t *testing.T) {
	requireBackends(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := config.NATSConfig{URL: nats.DefaultURL, Stream: "RELATIONS_TEST"}
	pub, err := natsnotifier.NewPublisher(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { pub.Close() })

	ev := &entities.ChangeEvent{
		AssertionID:   1,
		Action:        entities.ActionCreate,
		Relation:      entities.RelationHasDataset,
		EPrintID:      "2101.00001",
		EPrintVersion: 1,
		ResourceType:  entities.ResourceDataset,
		ResourceID:    "10.5281/zenodo.123",
		Creator:       entities.Creator{ClientID: "c", UserID: "u"},
		CreatedAt:     time.Now().UTC(),
	}
	require.NoError(t, pub.Publish(ctx, ev))

	// Read the event back from the stream.
	conn, err := nats.Connect(nats.DefaultURL)
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	js, err := jetstream.New(conn)
	require.NoError(t, err)

	cons, err := js.CreateOrUpdateConsumer(ctx, cfg.Stream, jetstream.ConsumerConfig{
		FilterSubject: "relations.assertion.create",
	})
	require.NoError(t, err)

	msg, err := cons.Next(jetstream.FetchMaxWait(5 * time.Second))
	require.NoError(t, err)
	require.NoError(t, msg.Ack())

	var got entities.ChangeEvent
	require.NoError(t, json.Unmarshal(msg.Data(), &got))
	assert.Equal(t, ev.AssertionID, got.AssertionID)
	assert.Equal(t, ev.ResourceID, got.ResourceID)

	t.Cleanup(func() { _ = js.DeleteStream(context.Background(), cfg.Stream) })
}

func TestViewCacheRoundTrip(t *testing.T) {
	requireBackends(t)
	ctx := context.Background()

	cache := rediscache.NewCache(config.RedisConfig{Addr: "localhost:6379", TTLSeconds: 60})
	t.Cleanup(func() { cache.Close() })

	views := []entities.RelationView{{
		AssertionID:   1,
		Relation:      entities.RelationHasDataset,
		EPrintID:      "2101.00001",
		EPrintVersion: 1,
		Resource: entities.Resource{
			Type:       entities.ResourceDataset,
			Identifier: "10.5281/zenodo.123",
		},
		Creator: entities.Creator{ClientID: "c", UserID: "u"},
	}}

	_, ok, err := cache.GetAggregate(ctx, "2101.00001", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetAggregate(ctx, "2101.00001", 1, views))
	require.NoError(t, cache.SetAggregate(ctx, "2101.00001", 2, views))

	got, ok, err := cache.GetAggregate(ctx, "2101.00001", 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, views, got)

	// One invalidation drops every cached version view.
	require.NoError(t, cache.InvalidateEPrint(ctx, "2101.00001"))

	_, ok, err = cache.GetAggregate(ctx, "2101.00001", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = cache.GetAggregate(ctx, "2101.00001", 2)
	require.NoError(t, err)
	assert.False(t, ok)
}
