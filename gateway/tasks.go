package gateway

import (
	"context"
	"net/http"
	"net/url"

	"boardsync/domain"
)

// CreateTaskInput is the payload for task creation. The assignee must be the
// project owner or a current member; the gateway enforces this.
type CreateTaskInput struct {
	ProjectID   string        `json:"projectId"`
	Title       string        `json:"title"`
	AssigneeID  string        `json:"assigneeId"`
	Status      domain.Status `json:"status"`
	Description string        `json:"description,omitempty"`
}

// Tasks lists every task in a project.
func (c *Client) Tasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	return doJSON[[]domain.Task](ctx, c, http.MethodGet, "/tasks/"+url.PathEscape(projectID), nil, "Failed to fetch tasks.")
}

// CreateTask creates a task and returns it with server-assigned identifier
// and timestamps.
func (c *Client) CreateTask(ctx context.Context, input CreateTaskInput) (domain.Task, error) {
	return doJSON[domain.Task](ctx, c, http.MethodPost, "/task", input, "Failed to create task.")
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, error) {
	return doJSON[domain.Task](ctx, c, http.MethodPut, "/task/"+url.PathEscape(id), patch, "Failed to update task.")
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, "/task/"+url.PathEscape(id), nil, "Failed to delete task.")
	return err
}
