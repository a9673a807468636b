package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	pkgkafka "github.com/bibbank/amortization/pkg/kafka"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect loan domain events",
	}
	cmd.AddCommand(newEventsTailCmd())
	return cmd
}

func newEventsTailCmd() *cobra.Command {
	var (
		brokers string
		topic   string
		group   string
	)

	cmd := &cobra.Command{
		Use:     "tail",
		Short:   "Stream events from the loan topic until interrupted",
		Example: "  amortizationctl events tail --brokers localhost:9092 --topic amortization.events",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg := pkgkafka.Config{
				Brokers:       splitBrokers(brokers),
				ConsumerGroup: group,
			}
			if len(cfg.Brokers) == 0 {
				return fmt.Errorf("--brokers must name at least one broker")
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
			consumer, err := pkgkafka.NewConsumer(cfg, topic, eventPrinter(cmd.OutOrStdout(), getOutputFormat(cmd)), logger)
			if err != nil {
				return fmt.Errorf("create consumer: %w", err)
			}
			defer consumer.Close()

			return consumer.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&brokers, "brokers", envOr("KAFKA_BROKERS", "localhost:9092"), "Comma-separated Kafka brokers")
	cmd.Flags().StringVar(&topic, "topic", envOr("KAFKA_TOPIC", "amortization.events"), "Topic to tail")
	cmd.Flags().StringVar(&group, "group", "", "Consumer group; empty tails from the newest offset without committing")
	return cmd
}

// eventPrinter renders each message as one line, or as the raw JSON payload.
func eventPrinter(w io.Writer, output string) pkgkafka.Handler {
	return func(_ context.Context, msg pkgkafka.Message) error {
		if output == "json" {
			if !json.Valid(msg.Value) {
				return fmt.Errorf("event %s: payload is not JSON", msg.Headers["event_id"])
			}
			_, err := fmt.Fprintln(w, string(msg.Value))
			return err
		}
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			msg.Headers["event_type"], msg.Headers["aggregate_type"], string(msg.Key), msg.Headers["event_id"])
		return err
	}
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
