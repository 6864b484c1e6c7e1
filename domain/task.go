package domain

import "time"

// Status is the board column a task lives in. Column identifiers on the wire
// are exactly these values.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses returns the columns in board order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// Valid reports whether s is one of the three known columns.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// UserRef is the embedded assignee/owner reference returned by the gateway.
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProjectRef is the embedded project reference returned on tasks.
type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Task represents a single board item. A task always belongs to exactly one
// project and has exactly one assignee; the assignee reference may go stale
// when membership changes later.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      Status     `json:"status"`
	ProjectID   string     `json:"projectId"`
	AssigneeID  string     `json:"assigneeId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Assignee    UserRef    `json:"assignee"`
	Project     ProjectRef `json:"project"`
}

// TaskPatch is a partial task update. Nil fields are left untouched both on
// the wire and when merged into a cached task.
type TaskPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *Status `json:"status,omitempty"`
	AssigneeID  *string `json:"assigneeId,omitempty"`
}

// Apply merges the set fields of the patch into t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
}
