//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"testing/fstest"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/gdd-planner/internal/adapter/static"
	"github.com/couchcryptid/gdd-planner/internal/catalog"
	"github.com/couchcryptid/gdd-planner/internal/dataset"
	"github.com/couchcryptid/gdd-planner/internal/domain"
	"github.com/couchcryptid/gdd-planner/internal/observability"
	"github.com/couchcryptid/gdd-planner/internal/planner"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

// startKafka runs a single-node KRaft broker for the test and returns its
// bootstrap address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx, kafkaImage, tckafka.WithClusterID("gdd-planner-test"))
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "start kafka container")

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

// createTopic creates a single-partition topic through the cluster controller.
func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// datasetFS publishes 90210 with a station whose base-50 series gains
// 10 GDD a day, and T5A with frost dates only.
func datasetFS(t *testing.T) fstest.MapFS {
	t.Helper()

	cum := make([]float64, domain.DaysInYear)
	for i := range cum {
		cum[i] = float64(10 * (i + 1))
	}
	series, err := json.Marshal(map[string]any{"station_id": "USW0001", "bases": map[string]any{"50": cum}})
	require.NoError(t, err)

	return fstest.MapFS{
		dataset.FrostPath: {Data: []byte(`[
			{"key":"90210","name":"Beverly Hills","region":"CA","lastFrost":"03-01","firstFrost":"10-15"},
			{"key":"T5A","name":"Edmonton","region":"AB","lastFrost":"05-10","firstFrost":"09-20"}
		]`)},
		dataset.StationIndexPath:      {Data: []byte(`{"90210":"USW0001"}`)},
		dataset.SeriesPath("USW0001"): {Data: series},
	}
}

// newPlanner wires the real planner over the fixture datasets and the
// embedded crop catalog.
func newPlanner(t *testing.T, metrics *observability.Metrics) *planner.Planner {
	t.Helper()

	crops, err := catalog.Default()
	require.NoError(t, err)

	fetcher := static.NewFS(datasetFS(t))
	logger := discardLogger()
	return planner.New(
		dataset.NewFrostDataset(fetcher, logger, metrics),
		dataset.NewStationIndex(fetcher, logger, metrics),
		dataset.NewSeriesStore(fetcher, logger, metrics),
		crops,
		logger,
		metrics,
	)
}

func planRequest(t *testing.T, req domain.PlanRequest) []byte {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return data
}
