package gatewaytest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"boardsync/domain"
)

func (s *Server) listTasks(c echo.Context, _ domain.User) error {
	projectID := c.Param("projectId")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Task{}
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, *t)
		}
	}
	return respond(c, http.StatusOK, "OK", out)
}

func (s *Server) createTask(c echo.Context, _ domain.User) error {
	var body struct {
		ProjectID   string        `json:"projectId"`
		Title       string        `json:"title"`
		AssigneeID  string        `json:"assigneeId"`
		Status      domain.Status `json:"status"`
		Description string        `json:"description"`
	}
	if err := c.Bind(&body); err != nil || body.Title == "" {
		return fail(c, http.StatusBadRequest, "Task title is required")
	}
	if !body.Status.Valid() {
		return fail(c, http.StatusBadRequest, "Unknown task status")
	}

	s.mu.Lock()
	var project *domain.Project
	for _, p := range s.projects {
		if p.ID == body.ProjectID {
			project = p
			break
		}
	}
	if project == nil {
		s.mu.Unlock()
		return fail(c, http.StatusNotFound, "Project not found")
	}
	assignable := project.OwnerID == body.AssigneeID
	var assignee domain.UserRef
	if assignable {
		assignee = project.Owner
	} else {
		for _, m := range s.members {
			if m.ProjectID == project.ID && m.UserID == body.AssigneeID {
				assignable = true
				assignee = m.User
				break
			}
		}
	}
	if !assignable {
		s.mu.Unlock()
		return fail(c, http.StatusUnprocessableEntity, "Assignee must be the project owner or a member")
	}
	now := time.Now().UTC()
	t := &domain.Task{
		ID:          uuid.NewString(),
		Title:       body.Title,
		Description: body.Description,
		Status:      body.Status,
		ProjectID:   project.ID,
		AssigneeID:  body.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Assignee:    assignee,
		Project:     domain.ProjectRef{ID: project.ID, Name: project.Name},
	}
	s.tasks = append(s.tasks, t)
	out := *t
	s.mu.Unlock()
	s.publish(project.ID, domain.EntityTask, domain.MutationCreated)
	return respond(c, http.StatusCreated, "Task created", out)
}

func (s *Server) updateTask(c echo.Context, _ domain.User) error {
	id := c.Param("id")
	var patch domain.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return fail(c, http.StatusBadRequest, "Unknown task status")
	}
	s.mu.Lock()
	for _, t := range s.tasks {
		if t.ID == id {
			patch.Apply(t)
			t.UpdatedAt = time.Now().UTC()
			out := *t
			s.mu.Unlock()
			s.publish(out.ProjectID, domain.EntityTask, domain.MutationUpdated)
			return respond(c, http.StatusOK, "Task updated", out)
		}
	}
	s.mu.Unlock()
	return fail(c, http.StatusNotFound, "Task not found")
}

func (s *Server) deleteTask(c echo.Context, _ domain.User) error {
	id := c.Param("id")
	s.mu.Lock()
	for i, t := range s.tasks {
		if t.ID == id {
			projectID := t.ProjectID
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.mu.Unlock()
			s.publish(projectID, domain.EntityTask, domain.MutationDeleted)
			return respond(c, http.StatusOK, "Task deleted", nil)
		}
	}
	s.mu.Unlock()
	return fail(c, http.StatusNotFound, "Task not found")
}
