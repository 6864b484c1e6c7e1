package gateway

import (
	"context"
	"net/http"
	"net/url"

	"boardsync/domain"
)

// Members lists the explicit memberships of a project. The owner is implied
// and not part of this collection.
func (c *Client) Members(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	path := "/project-members?projectId=" + url.QueryEscape(projectID)
	return doJSON[[]domain.ProjectMember](ctx, c, http.MethodGet, path, nil, "Failed to fetch project members.")
}

// CreateMember invites a user to a project by email.
func (c *Client) CreateMember(ctx context.Context, projectID, email string) (domain.ProjectMember, error) {
	body := struct {
		ProjectID string `json:"projectId"`
		Email     string `json:"email"`
	}{ProjectID: projectID, Email: email}
	return doJSON[domain.ProjectMember](ctx, c, http.MethodPost, "/project-member", body, "Failed to add project member.")
}

// MemberByID fetches a single membership.
func (c *Client) MemberByID(ctx context.Context, id string) (domain.ProjectMember, error) {
	return doJSON[domain.ProjectMember](ctx, c, http.MethodGet, "/project-member/"+url.PathEscape(id), nil, "Failed to fetch project member.")
}

// DeleteMember removes a membership.
func (c *Client) DeleteMember(ctx context.Context, id string) error {
	_, err := doJSON[struct{}](ctx, c, http.MethodDelete, "/project-member/"+url.PathEscape(id), nil, "Failed to remove project member.")
	return err
}
