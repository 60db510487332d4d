package teardown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesLIFO(t *testing.T) {
	m := NewManager()
	var order []string

	for _, name := range []string{"workspace", "telemetry", "notification group"} {
		name := name
		m.Push("run-1", name, func(ctx context.Context) error {
			order = append(order, name)
			return nil
		})
	}

	results := m.Run(context.Background(), "run-1")

	require.Len(t, results, 3)
	assert.Equal(t, []string{"notification group", "telemetry", "workspace"}, order)
	for _, r := range results {
		assert.Equal(t, "success", r.Status)
		assert.Empty(t, r.Error)
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	m := NewManager()
	var executed []string

	m.Push("run-1", "first", func(ctx context.Context) error {
		executed = append(executed, "first")
		return nil
	})
	m.Push("run-1", "second", func(ctx context.Context) error {
		executed = append(executed, "second")
		return errors.New("delete denied")
	})
	m.Push("run-1", "third", func(ctx context.Context) error {
		executed = append(executed, "third")
		return nil
	})

	results := m.Run(context.Background(), "run-1")

	require.Len(t, results, 3)
	assert.Equal(t, []string{"third", "second", "first"}, executed)
	assert.Equal(t, "success", results[0].Status)
	assert.Equal(t, "failed", results[1].Status)
	assert.Equal(t, "delete denied", results[1].Error)
	assert.Equal(t, "success", results[2].Status)
}

func TestRunClearsStack(t *testing.T) {
	m := NewManager()
	m.Push("run-1", "workspace", func(ctx context.Context) error { return nil })

	assert.Equal(t, 1, m.StackSize("run-1"))
	m.Run(context.Background(), "run-1")
	assert.Equal(t, 0, m.StackSize("run-1"))

	// A second run finds nothing to do
	assert.Empty(t, m.Run(context.Background(), "run-1"))
}

func TestRunsAreIsolated(t *testing.T) {
	m := NewManager()
	m.Push("run-a", "workspace", func(ctx context.Context) error { return nil })
	m.Push("run-b", "workspace", func(ctx context.Context) error { return nil })
	m.Push("run-b", "telemetry", func(ctx context.Context) error { return nil })

	assert.Equal(t, 1, m.StackSize("run-a"))
	assert.Equal(t, 2, m.StackSize("run-b"))

	m.Run(context.Background(), "run-a")
	assert.Equal(t, 0, m.StackSize("run-a"))
	assert.Equal(t, 2, m.StackSize("run-b"))
}

func TestActiveRuns(t *testing.T) {
	m := NewManager()
	assert.Empty(t, m.ActiveRuns())

	m.Push("run-a", "workspace", func(ctx context.Context) error { return nil })
	m.Push("run-b", "telemetry", func(ctx context.Context) error { return nil })

	assert.ElementsMatch(t, []string{"run-a", "run-b"}, m.ActiveRuns())

	m.Run(context.Background(), "run-a")
	assert.Equal(t, []string{"run-b"}, m.ActiveRuns())
}
