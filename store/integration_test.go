package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"boardsync/board"
	"boardsync/domain"
	"boardsync/gateway"
	"boardsync/internal/gatewaytest"
	"boardsync/live"
	"boardsync/store"
)

// funnelSource feeds the fake gateway's publish hook into a listener,
// filtering on the subscribed project the way the real channels do.
type funnelSource struct {
	mu     sync.Mutex
	target string
	handle func(context.Context, domain.Notification)
	ctx    context.Context
}

func (f *funnelSource) Subscribe(ctx context.Context, projectID string, handle func(context.Context, domain.Notification)) {
	f.mu.Lock()
	f.target, f.handle, f.ctx = projectID, handle, ctx
	f.mu.Unlock()
	<-ctx.Done()
}

func (f *funnelSource) deliver(projectID string, n domain.Notification) {
	f.mu.Lock()
	target, handle, ctx := f.target, f.handle, f.ctx
	f.mu.Unlock()
	if handle == nil || target != projectID || ctx.Err() != nil {
		return
	}
	handle(ctx, n)
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// TestBoardRoundTrip drives the whole client stack against the in-process
// gateway: log in, open a project, drag a task across columns and observe a
// second session converge through push notifications.
func TestBoardRoundTrip(t *testing.T) {
	srv := gatewaytest.New()
	defer srv.Close()
	srv.Seed("owner@example.com", "pw")
	source := &funnelSource{}
	srv.Publish = source.deliver

	ctx := context.Background()

	client, err := gateway.New(srv.URL(), nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	session := store.NewSession(client)
	if err := session.Login(ctx, "owner@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	me, err := session.Me(ctx)
	if err != nil {
		t.Fatalf("me: %v", err)
	}

	projects := store.NewProjects(client, nil)
	created, err := projects.Create(ctx, "Release Train")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	opened, err := projects.GetBySlug(ctx, "release-train")
	if err != nil {
		t.Fatalf("open project: %v", err)
	}
	if opened.ID != created.ID || projects.CurrentID() != created.ID {
		t.Fatalf("open project did not become current")
	}

	tasks := store.NewTasks(client, nil)
	first, err := tasks.Create(ctx, gateway.CreateTaskInput{
		ProjectID: opened.ID, Title: "Cut branch", AssigneeID: me.ID, Status: domain.StatusTodo,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := tasks.Create(ctx, gateway.CreateTaskInput{
		ProjectID: opened.ID, Title: "Tag release", AssigneeID: me.ID, Status: domain.StatusTodo,
	}); err != nil {
		t.Fatalf("create task: %v", err)
	}

	// A second session watching the same project through the push channel.
	watcherClient, err := gateway.New(srv.URL(), nil)
	if err != nil {
		t.Fatalf("new watcher client: %v", err)
	}
	if err := watcherClient.Login(ctx, "owner@example.com", "pw"); err != nil {
		t.Fatalf("watcher login: %v", err)
	}
	watcherProjects := store.NewProjects(watcherClient, nil)
	if _, err := watcherProjects.GetBySlug(ctx, "release-train"); err != nil {
		t.Fatalf("watcher open project: %v", err)
	}
	watcherTasks := store.NewTasks(watcherClient, nil)
	if _, err := watcherTasks.List(ctx, opened.ID); err != nil {
		t.Fatalf("watcher list tasks: %v", err)
	}
	listener := live.NewListener(watcherTasks, watcherProjects, store.NewMembers(watcherClient, nil), source, nil)
	listener.SetProject(ctx, opened.ID)
	defer listener.Close()
	waitFor(t, "subscription", func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.handle != nil
	})

	engine := board.New(tasks, nil)
	if err := engine.Move(ctx, first.ID, board.ColumnTarget(domain.StatusDone)); err != nil {
		t.Fatalf("move: %v", err)
	}
	moved, ok := tasks.Get(first.ID)
	if !ok || moved.Status != domain.StatusDone {
		t.Fatalf("move not applied locally: %+v", moved)
	}

	waitFor(t, "watcher convergence", func() bool {
		got, ok := watcherTasks.Get(first.ID)
		return ok && got.Status == domain.StatusDone
	})
	if got := engine.Columns(); len(got.Done) != 1 || len(got.Todo) != 1 {
		t.Fatalf("unexpected columns %+v", got)
	}
}
