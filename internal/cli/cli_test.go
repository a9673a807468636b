package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/amortization/internal/application/dto"
	pkgkafka "github.com/bibbank/amortization/pkg/kafka"
)

// runCmd executes the root command with args and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		wantErr bool
	}{
		{name: "empty ok", output: "", wantErr: false},
		{name: "table ok", output: "table", wantErr: false},
		{name: "json ok", output: "json", wantErr: false},
		{name: "yaml rejected", output: "yaml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOutputFormat(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPaymentCmd(t *testing.T) {
	out, err := runCmd(t, "payment", "--principal", "200000", "--rate", "0.06", "--term", "360")
	require.NoError(t, err)
	assert.Equal(t, "1199.10\n", out)

	out, err = runCmd(t, "payment", "--principal", "1000", "--rate", "0", "--term", "10", "-o", "json")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "100.00", got["monthly_payment"])
}

func TestScheduleCmd_JSON(t *testing.T) {
	out, err := runCmd(t, "schedule", "--principal", "1200.00", "--rate", "0.12", "--term", "12", "-o", "json")
	require.NoError(t, err)

	var entries []dto.ScheduleEntryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 12)
	assert.Equal(t, "106.62", entries[0].Payment)
	assert.Equal(t, "12.00", entries[0].Interest)
	assert.Equal(t, "0.00", entries[11].RemainingBalance)
}

func TestScheduleCmd_Table(t *testing.T) {
	out, err := runCmd(t, "schedule", "--principal", "1000", "--rate", "0", "--term", "3")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "MONTH")
	assert.Contains(t, lines[3], "333.34")
}

func TestSummaryCmd(t *testing.T) {
	out, err := runCmd(t, "summary", "--principal", "1200.00", "--rate", "0.12", "--term", "12", "--month", "12", "-o", "json")
	require.NoError(t, err)

	var got dto.MonthSummaryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 12, got.Month)
	assert.Equal(t, "1200.00", got.TotalPrincipalPaid)
	assert.Equal(t, "0.00", got.PrincipalBalance)

	out, err = runCmd(t, "summary", "--principal", "1200.00", "--rate", "0.12", "--term", "12", "--month", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Principal paid:")
	assert.Contains(t, out, "94.62")
}

func TestCalcCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"bad principal", []string{"payment", "--principal", "abc", "--rate", "0.1", "--term", "12"}, "invalid --principal"},
		{"bad rate", []string{"schedule", "--principal", "100", "--rate", "x", "--term", "12"}, "invalid --rate"},
		{"zero term", []string{"payment", "--principal", "100", "--rate", "0.1", "--term", "0"}, "term months"},
		{"month out of range", []string{"summary", "--principal", "100", "--rate", "0.1", "--term", "12", "--month", "13"}, "month"},
		{"missing month", []string{"summary", "--principal", "100", "--rate", "0.1", "--term", "12"}, "month"},
		{"missing principal", []string{"payment", "--rate", "0.1", "--term", "12"}, "principal"},
		{"bad output", []string{"payment", "--principal", "100", "--rate", "0.1", "--term", "12", "-o", "yaml"}, "unsupported output format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCmd(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDevCertsCmd(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, "dev-certs", "--out", dir, "--host", "localhost", "-o", "json")
	require.NoError(t, err)

	var files map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &files))
	for _, key := range []string{"ca_cert", "server_cert", "server_key"} {
		_, statErr := os.Stat(files[key])
		assert.NoError(t, statErr, key)
		assert.Equal(t, dir, filepath.Dir(files[key]))
	}
}

func TestEventPrinter(t *testing.T) {
	msg := pkgkafka.Message{
		Key:   []byte("loan-1"),
		Value: []byte(`{"loan_id":"loan-1"}`),
		Headers: map[string]string{
			"event_type":     "loan.created",
			"event_id":       "evt-1",
			"aggregate_type": "Loan",
		},
	}

	var table bytes.Buffer
	require.NoError(t, eventPrinter(&table, "table")(context.Background(), msg))
	assert.Equal(t, "loan.created\tLoan\tloan-1\tevt-1\n", table.String())

	var raw bytes.Buffer
	require.NoError(t, eventPrinter(&raw, "json")(context.Background(), msg))
	assert.JSONEq(t, `{"loan_id":"loan-1"}`, raw.String())

	msg.Value = []byte("not json")
	assert.Error(t, eventPrinter(&raw, "json")(context.Background(), msg))
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, splitBrokers(""))
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "amortizationctl version dev")
}
