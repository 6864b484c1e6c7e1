// Package live turns payload-free push notifications into targeted cache
// refreshes, collapsing divergence between clients looking at the same
// project.
package live

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"

	"boardsync/domain"
)

// TaskRefresher re-fetches the task list of a project.
type TaskRefresher interface {
	List(ctx context.Context, projectID string) ([]domain.Task, error)
}

// MemberRefresher re-fetches the membership list of a project.
type MemberRefresher interface {
	List(ctx context.Context, projectID string) ([]domain.ProjectMember, error)
}

// ProjectCache re-fetches the project list and knows which project is open.
type ProjectCache interface {
	List(ctx context.Context) ([]domain.Project, error)
	CurrentID() string
}

// Source delivers notifications for one project until ctx is cancelled.
type Source interface {
	Subscribe(ctx context.Context, projectID string, handle func(context.Context, domain.Notification))
}

// Listener subscribes to the push channel of the open project and triggers
// store refreshes when a remote change is observed. Refresh failures are
// logged and swallowed: the cache simply stays stale until the next event or
// a manual reload.
type Listener struct {
	tasks    TaskRefresher
	projects ProjectCache
	members  MemberRefresher
	source   Source
	logger   *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewListener wires a listener over the given stores and notification source.
func NewListener(tasks TaskRefresher, projects ProjectCache, members MemberRefresher, source Source, logger *log.Logger) *Listener {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Listener{tasks: tasks, projects: projects, members: members, source: source, logger: logger}
}

// SetProject re-scopes the subscription to the given project, tearing down
// the previous one first so a stale subscription can never deliver events for
// a project the user has navigated away from. An empty id just unsubscribes.
func (l *Listener) SetProject(ctx context.Context, projectID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	if projectID == "" {
		return
	}
	subCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	go l.source.Subscribe(subCtx, projectID, l.Handle)
}

// Close tears down the active subscription.
func (l *Listener) Close() {
	l.SetProject(context.Background(), "")
}

// Handle reacts to one notification. The notification is an invalidation
// signal only; whatever it may carry is ignored and the gateway is asked for
// the authoritative state.
func (l *Listener) Handle(ctx context.Context, n domain.Notification) {
	switch n.Entity {
	case domain.EntityTask:
		projectID := l.projects.CurrentID()
		if projectID == "" {
			return
		}
		if _, err := l.tasks.List(ctx, projectID); err != nil {
			l.logger.WithFields(log.Fields{"event": n.EventName(), "error": err.Error()}).Error("task refresh failed")
		}
	case domain.EntityProject:
		if _, err := l.projects.List(ctx); err != nil {
			l.logger.WithFields(log.Fields{"event": n.EventName(), "error": err.Error()}).Error("project refresh failed")
		}
	case domain.EntityProjectMember:
		if projectID := l.projects.CurrentID(); projectID != "" {
			if _, err := l.members.List(ctx, projectID); err != nil {
				l.logger.WithFields(log.Fields{"event": n.EventName(), "error": err.Error()}).Error("member refresh failed")
			}
		}
		if _, err := l.projects.List(ctx); err != nil {
			l.logger.WithFields(log.Fields{"event": n.EventName(), "error": err.Error()}).Error("project refresh failed")
		}
	}
}
