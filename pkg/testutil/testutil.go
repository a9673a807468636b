// Package testutil starts throwaway containers for integration tests. Every
// helper registers its own teardown with t.Cleanup.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

const terminateTimeout = 10 * time.Second

// RequireIntegration skips the test unless INTEGRATION_TESTS=1, since the
// container-backed tests need a Docker daemon.
func RequireIntegration(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run container-backed tests")
	}
}

// terminateOnCleanup stops c when the test finishes.
func terminateOnCleanup(t *testing.T, name string, c testcontainers.Container) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
		defer cancel()
		if err := c.Terminate(ctx); err != nil {
			t.Logf("warning: failed to terminate %s container: %v", name, err)
		}
	})
}
