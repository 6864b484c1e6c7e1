package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"boardsync/domain"
	"boardsync/gateway"
)

type stubTaskGateway struct {
	tasksFn  func(ctx context.Context, projectID string) ([]domain.Task, error)
	createFn func(ctx context.Context, input gateway.CreateTaskInput) (domain.Task, error)
	updateFn func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error)
	deleteFn func(ctx context.Context, id string) error
	calls    int
}

func (s *stubTaskGateway) Tasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	s.calls++
	if s.tasksFn == nil {
		return nil, errors.New("unexpected Tasks call")
	}
	return s.tasksFn(ctx, projectID)
}

func (s *stubTaskGateway) CreateTask(ctx context.Context, input gateway.CreateTaskInput) (domain.Task, error) {
	s.calls++
	if s.createFn == nil {
		return domain.Task{}, errors.New("unexpected CreateTask call")
	}
	return s.createFn(ctx, input)
}

func (s *stubTaskGateway) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	s.calls++
	if s.updateFn == nil {
		return domain.Task{}, errors.New("unexpected UpdateTask call")
	}
	return s.updateFn(ctx, id, patch)
}

func (s *stubTaskGateway) DeleteTask(ctx context.Context, id string) error {
	s.calls++
	if s.deleteFn == nil {
		return errors.New("unexpected DeleteTask call")
	}
	return s.deleteFn(ctx, id)
}

func TestTasksListReplacesSnapshot(t *testing.T) {
	fresh := []domain.Task{{ID: "t2", Title: "new"}}
	gw := &stubTaskGateway{
		tasksFn: func(ctx context.Context, projectID string) ([]domain.Task, error) {
			if projectID != "p1" {
				t.Fatalf("unexpected project id: %s", projectID)
			}
			return fresh, nil
		},
	}
	s := NewTasks(gw, nil)
	s.Replace([]domain.Task{{ID: "t1", Title: "stale"}})

	got, err := s.List(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !reflect.DeepEqual(got, fresh) {
		t.Fatalf("unexpected list result: %+v", got)
	}
	if !reflect.DeepEqual(s.Snapshot(), fresh) {
		t.Fatalf("snapshot not replaced: %+v", s.Snapshot())
	}
}

func TestTasksListFailureLeavesCache(t *testing.T) {
	gw := &stubTaskGateway{
		tasksFn: func(ctx context.Context, projectID string) ([]domain.Task, error) {
			return nil, errors.New("gateway down")
		},
	}
	s := NewTasks(gw, nil)
	seed := []domain.Task{{ID: "t1"}}
	s.Replace(seed)

	if _, err := s.List(context.Background(), "p1"); err == nil {
		t.Fatal("expected error")
	}
	if !reflect.DeepEqual(s.Snapshot(), seed) {
		t.Fatalf("cache mutated on failure: %+v", s.Snapshot())
	}
}

func TestTasksCreateAppendsServerEntity(t *testing.T) {
	created := domain.Task{ID: "server-id", Title: "task", Status: domain.StatusTodo, ProjectID: "p1", AssigneeID: "u1"}
	gw := &stubTaskGateway{
		createFn: func(ctx context.Context, input gateway.CreateTaskInput) (domain.Task, error) {
			return created, nil
		},
	}
	s := NewTasks(gw, nil)

	got, err := s.Create(context.Background(), gateway.CreateTaskInput{
		ProjectID: "p1", Title: "task", AssigneeID: "u1", Status: domain.StatusTodo,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.ID != "server-id" {
		t.Fatalf("expected server-assigned id, got %s", got.ID)
	}
	snap := s.Snapshot()
	if len(snap) != 1 || snap[0].ID != "server-id" {
		t.Fatalf("created task not appended: %+v", snap)
	}
}

func TestTasksCreateValidatesBeforeNetwork(t *testing.T) {
	gw := &stubTaskGateway{}
	s := NewTasks(gw, nil)

	cases := []struct {
		input gateway.CreateTaskInput
		want  error
	}{
		{gateway.CreateTaskInput{Title: "  ", Status: domain.StatusTodo, ProjectID: "p", AssigneeID: "u"}, ErrEmptyTitle},
		{gateway.CreateTaskInput{Title: "x", Status: "bogus", ProjectID: "p", AssigneeID: "u"}, ErrInvalidStatus},
		{gateway.CreateTaskInput{Title: "x", Status: domain.StatusTodo, AssigneeID: "u"}, ErrMissingProject},
		{gateway.CreateTaskInput{Title: "x", Status: domain.StatusTodo, ProjectID: "p"}, ErrMissingAssignee},
	}
	for _, tc := range cases {
		if _, err := s.Create(context.Background(), tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("input %+v: got %v, want %v", tc.input, err, tc.want)
		}
	}
	if gw.calls != 0 {
		t.Fatalf("validation errors must not reach the gateway, got %d calls", gw.calls)
	}
}

func TestTasksUpdateMergesShallow(t *testing.T) {
	gw := &stubTaskGateway{
		updateFn: func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
			return domain.Task{}, nil
		},
	}
	s := NewTasks(gw, nil)
	s.Replace([]domain.Task{{ID: "t1", Title: "old", Description: "keep", Status: domain.StatusTodo}})
	s.SetCurrent("t1")

	title := "new"
	if err := s.Update(context.Background(), "t1", domain.TaskPatch{Title: &title}); err != nil {
		t.Fatalf("update: %v", err)
	}
	task, _ := s.Get("t1")
	if task.Title != "new" || task.Description != "keep" || task.Status != domain.StatusTodo {
		t.Fatalf("merge not shallow: %+v", task)
	}
	current, ok := s.Current()
	if !ok || current.Title != "new" {
		t.Fatalf("current pointer not updated: %+v", current)
	}
}

func TestTasksUpdateFailureLeavesCache(t *testing.T) {
	gw := &stubTaskGateway{
		updateFn: func(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
			return domain.Task{}, errors.New("gateway down")
		},
	}
	s := NewTasks(gw, nil)
	s.Replace([]domain.Task{{ID: "t1", Title: "old"}})

	title := "new"
	if err := s.Update(context.Background(), "t1", domain.TaskPatch{Title: &title}); err == nil {
		t.Fatal("expected error")
	}
	task, _ := s.Get("t1")
	if task.Title != "old" {
		t.Fatalf("cache mutated on failure: %+v", task)
	}
}

func TestTasksRemoveClearsCurrent(t *testing.T) {
	gw := &stubTaskGateway{
		deleteFn: func(ctx context.Context, id string) error { return nil },
		tasksFn: func(ctx context.Context, projectID string) ([]domain.Task, error) {
			return []domain.Task{{ID: "t2"}}, nil
		},
	}
	s := NewTasks(gw, nil)
	s.Replace([]domain.Task{{ID: "t1"}, {ID: "t2"}})
	s.SetCurrent("t1")

	if err := s.Remove(context.Background(), "t1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	for _, task := range s.Snapshot() {
		if task.ID == "t1" {
			t.Fatal("removed task still cached")
		}
	}
	if _, ok := s.Current(); ok {
		t.Fatal("current pointer not cleared")
	}

	// A follow-up list must agree with the delete.
	got, err := s.List(context.Background(), "p1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, task := range got {
		if task.ID == "t1" {
			t.Fatal("removed task returned by list")
		}
	}
}

func TestTasksMoveLocalSplices(t *testing.T) {
	s := NewTasks(&stubTaskGateway{}, nil)
	s.Replace([]domain.Task{
		{ID: "a", Status: domain.StatusTodo},
		{ID: "b", Status: domain.StatusTodo},
		{ID: "c", Status: domain.StatusDone},
	})

	s.MoveLocal("a", "c", domain.StatusDone)
	snap := s.Snapshot()
	got := []string{snap[0].ID, snap[1].ID, snap[2].ID}
	if !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("unexpected order: %v", got)
	}
	if snap[1].Status != domain.StatusDone {
		t.Fatalf("moved task status not applied: %+v", snap[1])
	}

	// Unknown over task appends at the end.
	s.MoveLocal("b", "ghost", domain.StatusDone)
	snap = s.Snapshot()
	if snap[len(snap)-1].ID != "b" {
		t.Fatalf("expected b appended, got %+v", snap)
	}
}
