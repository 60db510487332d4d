// Package teardown keeps per-run stacks of compensating delete functions.
// The workflow records an undo entry for every resource it created (never
// for ones it found); the stack only runs on explicit operator request.
// There is no automatic rollback on failure.
package teardown

import (
	"context"
	"log"
	"sync"
)

// UndoFunc deletes one provisioned resource
type UndoFunc func(ctx context.Context) error

type undoEntry struct {
	Description string
	Fn          UndoFunc
}

// Result describes the outcome of a single undo operation
type Result struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// Manager maintains per-run LIFO teardown stacks
type Manager struct {
	mu     sync.Mutex
	stacks map[string][]undoEntry
}

// NewManager creates an empty Manager
func NewManager() *Manager {
	return &Manager{
		stacks: make(map[string][]undoEntry),
	}
}

// Push adds an undo function to the run's stack
func (m *Manager) Push(runID, description string, fn UndoFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stacks[runID] = append(m.stacks[runID], undoEntry{
		Description: description,
		Fn:          fn,
	})
	log.Printf("Teardown recorded for %s: %s (stack size: %d)",
		runID, description, len(m.stacks[runID]))
}

// Run executes all undo functions for a run in LIFO order and clears the
// stack. Failures do not stop the remaining entries.
func (m *Manager) Run(ctx context.Context, runID string) []Result {
	m.mu.Lock()
	stack := m.stacks[runID]
	delete(m.stacks, runID)
	m.mu.Unlock()

	var results []Result
	for i := len(stack) - 1; i >= 0; i-- {
		entry := stack[i]
		if err := entry.Fn(ctx); err != nil {
			results = append(results, Result{
				Description: entry.Description,
				Status:      "failed",
				Error:       err.Error(),
			})
			log.Printf("Teardown failed: %s - %v", entry.Description, err)
		} else {
			results = append(results, Result{
				Description: entry.Description,
				Status:      "success",
			})
			log.Printf("Teardown success: %s", entry.Description)
		}
	}
	return results
}

// StackSize returns the number of undo entries for a run
func (m *Manager) StackSize(runID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stacks[runID])
}

// ActiveRuns returns IDs of runs with pending teardown entries
func (m *Manager) ActiveRuns() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.stacks))
	for id := range m.stacks {
		ids = append(ids, id)
	}
	return ids
}
