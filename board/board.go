// Package board translates drag gestures over the three-column kanban view
// into task status changes, applied optimistically against the local cache
// and reconciled with the gateway afterwards.
package board

import (
	"context"

	log "github.com/sirupsen/logrus"

	"boardsync/domain"
)

// TargetKind discriminates what a drag landed on. Column and task identifiers
// share a namespace on the wire; the tagged Target keeps them apart.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetColumn
	TargetTask
)

// Target is a drop destination: one of the three columns, another task, or
// nothing (cancelled drag).
type Target struct {
	Kind TargetKind
	ID   string
}

// ColumnTarget is a drop onto a column, including an empty one.
func ColumnTarget(status domain.Status) Target {
	return Target{Kind: TargetColumn, ID: string(status)}
}

// TaskTarget is a drop adjacent to another task, inheriting its column.
func TaskTarget(id string) Target {
	return Target{Kind: TargetTask, ID: id}
}

// TaskCache is the slice of the task store the engine drives.
type TaskCache interface {
	Get(id string) (domain.Task, bool)
	Snapshot() []domain.Task
	MoveLocal(activeID, overTaskID string, status domain.Status)
	ApplyLocal(id string, patch domain.TaskPatch)
	Update(ctx context.Context, id string, patch domain.TaskPatch) error
}

// Engine reconciles board moves for one project's task cache.
type Engine struct {
	cache  TaskCache
	logger *log.Logger
}

// New creates an engine over the given cache.
func New(cache TaskCache, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Engine{cache: cache, logger: logger}
}

// Move applies a finished drag of the task activeID onto over.
//
// The cache is updated before the gateway round-trip so the board never waits
// on the network to show a column move. When the persist fails the status is
// reverted to the value recorded at the start of the move and the error is
// returned for the caller to surface. When two clients drag the same task
// concurrently the last write to complete wins; no merge is attempted.
func (e *Engine) Move(ctx context.Context, activeID string, over Target) error {
	if over.Kind == TargetNone || (over.Kind == TargetTask && over.ID == activeID) {
		return nil
	}
	active, ok := e.cache.Get(activeID)
	if !ok {
		return nil
	}

	next := active.Status
	overTaskID := ""
	switch over.Kind {
	case TargetColumn:
		if st := domain.Status(over.ID); st.Valid() {
			next = st
		}
	case TargetTask:
		overTaskID = over.ID
		if overTask, ok := e.cache.Get(over.ID); ok {
			next = overTask.Status
		}
	}

	if next == active.Status {
		// Same-column reorder. Ordering has no persisted field, so the
		// splice stays local and no round-trip happens.
		e.cache.MoveLocal(activeID, overTaskID, next)
		return nil
	}

	prev := active.Status
	e.cache.MoveLocal(activeID, overTaskID, next)

	if err := e.cache.Update(ctx, activeID, domain.TaskPatch{Status: &next}); err != nil {
		e.cache.ApplyLocal(activeID, domain.TaskPatch{Status: &prev})
		e.logger.WithFields(log.Fields{
			"task":  activeID,
			"from":  string(prev),
			"to":    string(next),
			"error": err.Error(),
		}).Warn("board move rolled back")
		return err
	}
	return nil
}

// Columns is the status-partitioned board view.
type Columns struct {
	Todo       []domain.Task
	InProgress []domain.Task
	Done       []domain.Task
}

// Column returns the sequence for one status.
func (c Columns) Column(status domain.Status) []domain.Task {
	switch status {
	case domain.StatusTodo:
		return c.Todo
	case domain.StatusInProgress:
		return c.InProgress
	case domain.StatusDone:
		return c.Done
	}
	return nil
}

// Columns rebuilds the board view from the cache snapshot, preserving the
// snapshot's order within each column.
func (e *Engine) Columns() Columns {
	var c Columns
	for _, t := range e.cache.Snapshot() {
		switch t.Status {
		case domain.StatusTodo:
			c.Todo = append(c.Todo, t)
		case domain.StatusInProgress:
			c.InProgress = append(c.InProgress, t)
		case domain.StatusDone:
			c.Done = append(c.Done, t)
		}
	}
	return c
}
