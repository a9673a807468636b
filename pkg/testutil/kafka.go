package testutil

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

// StartKafka runs a single-node KRaft broker and returns its bootstrap
// addresses.
func StartKafka(ctx context.Context, t *testing.T) []string {
	t.Helper()

	container, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.6.1",
		kafka.WithClusterID("amortization-test"),
	)
	if err != nil {
		t.Fatalf("start kafka container: %v", err)
	}
	terminateOnCleanup(t, "kafka", container)

	brokers, err := container.Brokers(ctx)
	if err != nil {
		t.Fatalf("kafka brokers: %v", err)
	}
	return brokers
}
