package gatewaytest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"boardsync/domain"
)

func (s *Server) listMembers(c echo.Context, _ domain.User) error {
	projectID := c.QueryParam("projectId")
	if projectID == "" {
		return fail(c, http.StatusBadRequest, "projectId is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.ProjectMember{}
	for _, m := range s.members {
		if m.ProjectID == projectID {
			out = append(out, *m)
		}
	}
	return respond(c, http.StatusOK, "OK", out)
}

func (s *Server) createMember(c echo.Context, _ domain.User) error {
	var body struct {
		ProjectID string `json:"projectId"`
		Email     string `json:"email"`
	}
	if err := c.Bind(&body); err != nil || body.ProjectID == "" || body.Email == "" {
		return fail(c, http.StatusBadRequest, "projectId and email are required")
	}
	s.mu.Lock()
	invited, ok := s.users[body.Email]
	if !ok {
		s.mu.Unlock()
		return fail(c, http.StatusNotFound, "No user with this email")
	}
	for _, m := range s.members {
		if m.ProjectID == body.ProjectID && m.UserID == invited.ID {
			s.mu.Unlock()
			return fail(c, http.StatusConflict, "User is already a member")
		}
	}
	now := time.Now().UTC()
	m := &domain.ProjectMember{
		ID:        uuid.NewString(),
		ProjectID: body.ProjectID,
		UserID:    invited.ID,
		User:      domain.UserRef{ID: invited.ID, Email: invited.Email},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.members = append(s.members, m)
	out := *m
	s.mu.Unlock()
	s.publish(body.ProjectID, domain.EntityProjectMember, domain.MutationCreated)
	return respond(c, http.StatusCreated, "Member added", out)
}

func (s *Server) memberByID(c echo.Context, _ domain.User) error {
	id := c.Param("id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.ID == id {
			return respond(c, http.StatusOK, "OK", *m)
		}
	}
	return fail(c, http.StatusNotFound, "Member not found")
}

func (s *Server) deleteMember(c echo.Context, _ domain.User) error {
	id := c.Param("id")
	s.mu.Lock()
	for i, m := range s.members {
		if m.ID == id {
			projectID := m.ProjectID
			s.members = append(s.members[:i], s.members[i+1:]...)
			s.mu.Unlock()
			s.publish(projectID, domain.EntityProjectMember, domain.MutationDeleted)
			return respond(c, http.StatusOK, "Member removed", nil)
		}
	}
	s.mu.Unlock()
	return fail(c, http.StatusNotFound, "Member not found")
}
