package gateway

import (
	"context"
	"net/http"
	"net/url"

	"boardsync/domain"
)

// Projects lists every project visible to the session user.
func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	return doJSON[[]domain.Project](ctx, c, http.MethodGet, "/projects", nil, "Failed to fetch projects.")
}

// CreateProject creates a project owned by the session user.
func (c *Client) CreateProject(ctx context.Context, name string) (domain.Project, error) {
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	return doJSON[domain.Project](ctx, c, http.MethodPost, "/project", body, "Failed to create project.")
}

// ProjectBySlug fetches one project, tasks and memberships included.
func (c *Client) ProjectBySlug(ctx context.Context, slug string) (domain.Project, error) {
	return doJSON[domain.Project](ctx, c, http.MethodGet, "/project/"+url.PathEscape(slug), nil, "Failed to fetch project.")
}

// UpdateProject applies a partial update and returns the affected project.
func (c *Client) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, error) {
	return doJSON[domain.Project](ctx, c, http.MethodPut, "/project/"+url.PathEscape(id), patch, "Failed to update project.")
}

// DeleteProject removes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, "/project/"+url.PathEscape(id), nil, "Failed to delete project.")
	return err
}
