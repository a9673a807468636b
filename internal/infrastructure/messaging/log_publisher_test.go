package messaging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/amortization/internal/domain/event"
	"github.com/bibbank/amortization/internal/infrastructure/messaging"
)

func TestLogEventPublisher(t *testing.T) {
	var buf bytes.Buffer
	pub := messaging.NewLogEventPublisher(slog.New(slog.NewJSONHandler(&buf, nil)))

	evt := event.NewUserRegistered("user-1", "a@example.com", time.Now())
	require.NoError(t, pub.Publish(context.Background(), evt))

	out := buf.String()
	assert.Contains(t, out, event.TypeUserRegistered)
	assert.Contains(t, out, evt.EventID())
	assert.Contains(t, out, "a@example.com")
}
