// Package memory provides an in-memory storage.Storage for tests and
// for running the console without a database file. Data lives only as
// long as the process.
package memory

import (
	"context"
	"sync"

	"github.com/aanand-mishra/student-management/internal/types"
)

// Memory keeps the last saved roster in a map guarded by a mutex.
type Memory struct {
	mu       sync.Mutex
	students map[string]types.Student
}

// New returns an empty in-memory store.
func New() *Memory {
	return &Memory{students: make(map[string]types.Student)}
}

// Load returns a copy of the last saved roster. The copy keeps callers
// from mutating the store's internal map through the returned value.
func (m *Memory) Load(_ context.Context) (map[string]types.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]types.Student, len(m.students))
	for sid, student := range m.students {
		out[sid] = student
	}
	return out, nil
}

// Save replaces the stored roster with a copy of the given one.
func (m *Memory) Save(_ context.Context, students map[string]types.Student) error {
	cp := make(map[string]types.Student, len(students))
	for sid, student := range students {
		cp[sid] = student
	}

	m.mu.Lock()
	m.students = cp
	m.mu.Unlock()
	return nil
}
