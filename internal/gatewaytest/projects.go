package gatewaytest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"boardsync/domain"
)

// view fills a project's derived collections. Callers hold s.mu.
func (s *Server) view(p *domain.Project) domain.Project {
	out := *p
	out.Tasks = nil
	out.Memberships = nil
	for _, t := range s.tasks {
		if t.ProjectID == p.ID {
			out.Tasks = append(out.Tasks, *t)
		}
	}
	for _, m := range s.members {
		if m.ProjectID == p.ID {
			for _, u := range s.users {
				if u.ID == m.UserID {
					out.Memberships = append(out.Memberships, u.User)
					break
				}
			}
		}
	}
	return out
}

// visible reports whether u owns or is a member of p. Callers hold s.mu.
func (s *Server) visible(p *domain.Project, u domain.User) bool {
	if p.OwnerID == u.ID {
		return true
	}
	for _, m := range s.members {
		if m.ProjectID == p.ID && m.UserID == u.ID {
			return true
		}
	}
	return false
}

func (s *Server) listProjects(c echo.Context, u domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Project{}
	for _, p := range s.projects {
		if s.visible(p, u) {
			out = append(out, s.view(p))
		}
	}
	return respond(c, http.StatusOK, "OK", out)
}

func (s *Server) createProject(c echo.Context, u domain.User) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil || body.Name == "" {
		return fail(c, http.StatusBadRequest, "Project name is required")
	}
	s.mu.Lock()
	for _, p := range s.projects {
		if domain.Slug(p.Name) == domain.Slug(body.Name) {
			s.mu.Unlock()
			return fail(c, http.StatusConflict, "A project with this name already exists")
		}
	}
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.NewString(),
		Name:      body.Name,
		OwnerID:   u.ID,
		Owner:     domain.UserRef{ID: u.ID, Email: u.Email},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.projects = append(s.projects, p)
	out := s.view(p)
	s.mu.Unlock()
	return respond(c, http.StatusCreated, "Project created", out)
}

func (s *Server) projectBySlug(c echo.Context, u domain.User) error {
	slug := c.Param("slug")
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if domain.Slug(p.Name) == slug && s.visible(p, u) {
			return respond(c, http.StatusOK, "OK", s.view(p))
		}
	}
	return fail(c, http.StatusNotFound, "Project not found")
}

func (s *Server) updateProject(c echo.Context, u domain.User) error {
	id := c.Param("id")
	var patch domain.ProjectPatch
	if err := c.Bind(&patch); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	s.mu.Lock()
	for _, p := range s.projects {
		if p.ID == id {
			if p.OwnerID != u.ID {
				s.mu.Unlock()
				return fail(c, http.StatusForbidden, "Only the owner may update a project")
			}
			patch.Apply(p)
			p.UpdatedAt = time.Now().UTC()
			out := s.view(p)
			s.mu.Unlock()
			s.publish(id, domain.EntityProject, domain.MutationUpdated)
			return respond(c, http.StatusOK, "Project updated", out)
		}
	}
	s.mu.Unlock()
	return fail(c, http.StatusNotFound, "Project not found")
}

func (s *Server) deleteProject(c echo.Context, u domain.User) error {
	id := c.Param("id")
	s.mu.Lock()
	idx := -1
	for i, p := range s.projects {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return fail(c, http.StatusNotFound, "Project not found")
	}
	if s.projects[idx].OwnerID != u.ID {
		s.mu.Unlock()
		return fail(c, http.StatusForbidden, "Only the owner may delete a project")
	}
	s.projects = append(s.projects[:idx], s.projects[idx+1:]...)
	keptTasks := s.tasks[:0]
	for _, t := range s.tasks {
		if t.ProjectID != id {
			keptTasks = append(keptTasks, t)
		}
	}
	s.tasks = keptTasks
	keptMembers := s.members[:0]
	for _, m := range s.members {
		if m.ProjectID != id {
			keptMembers = append(keptMembers, m)
		}
	}
	s.members = keptMembers
	s.mu.Unlock()
	s.publish(id, domain.EntityProject, domain.MutationDeleted)
	return respond(c, http.StatusOK, "Project deleted", nil)
}
