// Package common holds test infrastructure shared across packages.
package common

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const defaultSurrealImage = "surrealdb/surrealdb:v3.0.0"

var (
	surrealOnce   sync.Once
	surrealShared *SurrealDB
	surrealErr    error
)

// SurrealDB is a running SurrealDB test container.
type SurrealDB struct {
	container testcontainers.Container
	host      string
	port      string
}

// StartSurrealDB returns the process-wide SurrealDB container, starting it on
// first use. CARTEIRA_TEST_SURREAL_IMAGE overrides the image.
// Tests are skipped when the container cannot be started (no Docker daemon).
func StartSurrealDB(t *testing.T) *SurrealDB {
	t.Helper()

	surrealOnce.Do(func() {
		surrealShared, surrealErr = startSurrealDB(context.Background())
	})
	if surrealErr != nil {
		t.Skipf("SurrealDB container unavailable: %v", surrealErr)
	}
	return surrealShared
}

func startSurrealDB(ctx context.Context) (*SurrealDB, error) {
	image := os.Getenv("CARTEIRA_TEST_SURREAL_IMAGE")
	if image == "" {
		image = defaultSurrealImage
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"8000/tcp"},
			Cmd:          []string{"start", "--user", "root", "--pass", "root"},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("8000/tcp"),
				wait.ForLog("Started web server"),
			).WithDeadline(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start %s: %w", image, err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "8000/tcp")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("container port: %w", err)
	}

	return &SurrealDB{container: container, host: host, port: port.Port()}, nil
}

// Address returns the WebSocket RPC endpoint.
func (c *SurrealDB) Address() string {
	return fmt.Sprintf("ws://%s:%s/rpc", c.host, c.port)
}

// Terminate stops the container. Call from TestMain when needed.
func (c *SurrealDB) Terminate() {
	if c != nil && c.container != nil {
		c.container.Terminate(context.Background())
	}
}
