package store

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"boardsync/domain"
	"boardsync/gateway"
)

// TaskGateway is the slice of the gateway the task store needs.
type TaskGateway interface {
	Tasks(ctx context.Context, projectID string) ([]domain.Task, error)
	CreateTask(ctx context.Context, input gateway.CreateTaskInput) (domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Tasks is the client-side task cache for the open project. It owns a single
// mutable snapshot; concurrent List and mutations race on last-write-wins.
type Tasks struct {
	gw     TaskGateway
	logger *log.Logger

	mu      sync.Mutex
	tasks   []domain.Task
	current *domain.Task
}

// NewTasks creates an empty task store backed by gw.
func NewTasks(gw TaskGateway, logger *log.Logger) *Tasks {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Tasks{gw: gw, logger: logger}
}

// List replaces the whole snapshot with the gateway's task collection for the
// project. On failure the snapshot is left unchanged.
func (s *Tasks) List(ctx context.Context, projectID string) ([]domain.Task, error) {
	tasks, err := s.gw.Tasks(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// Create sends a creation request and appends the returned task, with its
// server-assigned identifier and timestamps, to the snapshot.
func (s *Tasks) Create(ctx context.Context, input gateway.CreateTaskInput) (domain.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return domain.Task{}, ErrEmptyTitle
	}
	if !input.Status.Valid() {
		return domain.Task{}, ErrInvalidStatus
	}
	if input.ProjectID == "" {
		return domain.Task{}, ErrMissingProject
	}
	if input.AssigneeID == "" {
		return domain.Task{}, ErrMissingAssignee
	}
	task, err := s.gw.CreateTask(ctx, input)
	if err != nil {
		return domain.Task{}, err
	}
	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return task, nil
}

// Update sends a partial update and, on success, shallow-merges the patch
// into the matching cached task and the current pointer. On failure nothing
// is mutated.
func (s *Tasks) Update(ctx context.Context, id string, patch domain.TaskPatch) error {
	if patch.Status != nil && !patch.Status.Valid() {
		return ErrInvalidStatus
	}
	if _, err := s.gw.UpdateTask(ctx, id, patch); err != nil {
		return err
	}
	s.ApplyLocal(id, patch)
	return nil
}

// Remove deletes the task at the gateway, drops it from the snapshot and
// clears the current pointer when it referenced the same identifier.
func (s *Tasks) Remove(ctx context.Context, id string) error {
	if err := s.gw.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return nil
}

// ApplyLocal merges a patch into the snapshot without a gateway round-trip.
// The board engine uses it for optimistic moves and their rollbacks.
func (s *Tasks) ApplyLocal(id string, patch domain.TaskPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			patch.Apply(&s.tasks[i])
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		patch.Apply(s.current)
	}
}

// MoveLocal repositions the active task within the snapshot: it is removed,
// given the new status and spliced back in before the task identified by
// overTaskID, or appended when that task is absent. Ordering is a client-side
// view only; it is never persisted.
func (s *Tasks) MoveLocal(activeID, overTaskID string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.tasks {
		if s.tasks[i].ID == activeID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	moved := s.tasks[idx]
	moved.Status = status
	rest := append(append([]domain.Task{}, s.tasks[:idx]...), s.tasks[idx+1:]...)

	overIdx := -1
	if overTaskID != "" {
		for i := range rest {
			if rest[i].ID == overTaskID {
				overIdx = i
				break
			}
		}
	}
	if overIdx == -1 {
		s.tasks = append(rest, moved)
	} else {
		s.tasks = append(rest[:overIdx], append([]domain.Task{moved}, rest[overIdx:]...)...)
	}
	if s.current != nil && s.current.ID == activeID {
		s.current.Status = status
	}
}

// Get returns the cached task with the given identifier.
func (s *Tasks) Get(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

// Snapshot returns a copy of the cached collection in its current order.
func (s *Tasks) Snapshot() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Task(nil), s.tasks...)
}

// Replace swaps the whole snapshot. The board page seeds the store with the
// task collection embedded in a fetched project.
func (s *Tasks) Replace(tasks []domain.Task) {
	s.mu.Lock()
	s.tasks = append([]domain.Task(nil), tasks...)
	s.mu.Unlock()
}

// SetCurrent points the store at the task open in a detail view.
func (s *Tasks) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			t := s.tasks[i]
			s.current = &t
			return true
		}
	}
	return false
}

// Current returns the task open in a detail view, if any.
func (s *Tasks) Current() (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Task{}, false
	}
	return *s.current, true
}

// ClearCurrent drops the detail-view pointer.
func (s *Tasks) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
