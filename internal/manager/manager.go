// Package manager implements the business layer: it owns the in-memory
// student roster and every operation on it. Persistence and query
// parsing are injected as interfaces, so this package never touches a
// database driver or an LLM client directly.
package manager

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aanand-mishra/student-management/internal/query"
	"github.com/aanand-mishra/student-management/internal/storage"
	"github.com/aanand-mishra/student-management/internal/types"
	"github.com/go-playground/validator/v10"
)

// Manager owns the roster map keyed by SID.
//
// The console runs it from a single goroutine, but the HTTP API serves
// requests concurrently, so every roster access goes through the
// RWMutex. Reads take the shared lock, mutations the exclusive one.
type Manager struct {
	store    storage.Storage
	agent    query.Agent
	validate *validator.Validate

	mu       sync.RWMutex
	students map[string]types.Student
}

// New builds a Manager and loads the roster from storage.
func New(ctx context.Context, store storage.Storage, agent query.Agent) (*Manager, error) {
	students, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("manager.New: load roster: %w", err)
	}
	if students == nil {
		students = make(map[string]types.Student)
	}

	return &Manager{
		store:    store,
		agent:    agent,
		validate: validator.New(),
		students: students,
	}, nil
}

// Add inserts a new student after validating it. Returns
// types.ErrStudentExists if the SID is already taken and
// types.ErrInvalidStudent if the record breaks a business rule.
func (m *Manager) Add(student types.Student) error {
	if err := m.checkStudent(student); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[student.SID]; ok {
		return fmt.Errorf("student ID %s: %w", student.SID, types.ErrStudentExists)
	}
	m.students[student.SID] = student
	return nil
}

// Get fetches one student by SID.
func (m *Manager) Get(sid string) (types.Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	student, ok := m.students[sid]
	if !ok {
		return types.Student{}, fmt.Errorf("student ID %s: %w", sid, types.ErrStudentNotFound)
	}
	return student, nil
}

// List returns every student sorted by SID. The slice is always
// non-nil so it encodes to [] rather than null in JSON.
func (m *Manager) List() []types.Student {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Student, 0, len(m.students))
	for _, student := range m.students {
		out = append(out, student)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SID < out[j].SID })
	return out
}

// Count reports the roster size.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.students)
}

// Update replaces the fields of an existing student. The SID itself
// cannot change; upd.SID is overwritten with the addressed one. The
// merged record is validated before anything is committed, so a failed
// update leaves the stored record untouched.
func (m *Manager) Update(sid string, upd types.Student) error {
	upd.SID = sid
	if err := m.checkStudent(upd); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[sid]; !ok {
		return fmt.Errorf("student ID %s: %w", sid, types.ErrStudentNotFound)
	}
	m.students[sid] = upd
	return nil
}

// Delete removes a student by SID. Returns types.ErrStudentNotFound if
// the SID is absent; the roster is never mutated on that path.
func (m *Manager) Delete(sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[sid]; !ok {
		return fmt.Errorf("student ID %s: %w", sid, types.ErrStudentNotFound)
	}
	delete(m.students, sid)
	return nil
}

// QueryNatural delegates the free text to the query agent and applies
// the resulting filters to the roster. The parsed filters are returned
// alongside the matches so callers can show what was understood.
// Parsing failures (query.ErrUnparseable) propagate to the caller.
func (m *Manager) QueryNatural(ctx context.Context, text string) ([]types.Student, query.Filters, error) {
	filters, err := m.agent.ParseQuery(ctx, text)
	if err != nil {
		return nil, query.Filters{}, fmt.Errorf("parse query: %w", err)
	}

	results := make([]types.Student, 0)
	for _, student := range m.List() {
		if matches(student, filters) {
			results = append(results, student)
		}
	}
	return results, filters, nil
}

// Save snapshots the roster to storage.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.RLock()
	snapshot := make(map[string]types.Student, len(m.students))
	for sid, student := range m.students {
		snapshot[sid] = student
	}
	m.mu.RUnlock()

	if err := m.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("manager.Save: %w", err)
	}
	return nil
}

// checkStudent runs the validate tags on the record and wraps any
// failure in types.ErrInvalidStudent with a readable field list.
func (m *Manager) checkStudent(student types.Student) error {
	err := m.validate.Struct(student)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate student: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "alphanum":
			msgs = append(msgs, fmt.Sprintf("field %s must be alphanumeric", e.Field()))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("field %s must be between 1 and 150", e.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of: %s", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, ", "), types.ErrInvalidStudent)
}

// matches applies every set filter; an unset field constrains nothing.
func matches(s types.Student, f query.Filters) bool {
	if f.Major != "" && s.Major != f.Major {
		return false
	}
	if f.Gender != "" && s.Gender != f.Gender {
		return false
	}
	if f.AgeMin != 0 && s.Age < f.AgeMin {
		return false
	}
	if f.AgeMax != 0 && s.Age > f.AgeMax {
		return false
	}
	if f.NamePart != "" &&
		!strings.Contains(strings.ToLower(s.Name), strings.ToLower(f.NamePart)) {
		return false
	}
	return true
}
