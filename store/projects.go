package store

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"boardsync/domain"
)

// ProjectGateway is the slice of the gateway the project store needs.
type ProjectGateway interface {
	Projects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, name string) (domain.Project, error)
	ProjectBySlug(ctx context.Context, slug string) (domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// Projects caches the session user's project list and the project currently
// open in the UI.
type Projects struct {
	gw     ProjectGateway
	logger *log.Logger

	mu       sync.Mutex
	projects []domain.Project
	current  *domain.Project
}

// NewProjects creates an empty project store backed by gw.
func NewProjects(gw ProjectGateway, logger *log.Logger) *Projects {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Projects{gw: gw, logger: logger}
}

// List replaces the cached project list with the gateway's response.
func (s *Projects) List(ctx context.Context) ([]domain.Project, error) {
	projects, err := s.gw.Projects(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.projects = projects
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// Create creates a project and refreshes the full list so the new entry
// carries whatever the server derived for it. Names whose slug collides with
// a cached project are rejected before any network call; the gateway is the
// final authority for collisions with projects this client has not seen.
func (s *Projects) Create(ctx context.Context, name string) (domain.Project, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Project{}, ErrEmptyProjectName
	}
	slug := domain.Slug(name)
	s.mu.Lock()
	for _, p := range s.projects {
		if domain.Slug(p.Name) == slug {
			s.mu.Unlock()
			return domain.Project{}, ErrDuplicateSlug
		}
	}
	s.mu.Unlock()

	project, err := s.gw.CreateProject(ctx, name)
	if err != nil {
		return domain.Project{}, err
	}
	if _, err := s.List(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Warn("project list refresh after create failed")
	}
	return project, nil
}

// GetBySlug fetches one project with its tasks and memberships and marks it
// as the currently open project.
func (s *Projects) GetBySlug(ctx context.Context, slug string) (domain.Project, error) {
	project, err := s.gw.ProjectBySlug(ctx, slug)
	if err != nil {
		return domain.Project{}, err
	}
	s.mu.Lock()
	s.current = &project
	s.mu.Unlock()
	return project, nil
}

// Update applies a partial update, merging it into the cached entry and the
// current pointer on success, then refreshes the list in the background
// manner of the dashboard: a refresh failure is logged, not surfaced.
func (s *Projects) Update(ctx context.Context, id string, patch domain.ProjectPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ErrEmptyProjectName
	}
	if _, err := s.gw.UpdateProject(ctx, id, patch); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			patch.Apply(&s.projects[i])
			break
		}
	}
	if s.current != nil && s.current.ID == id {
		patch.Apply(s.current)
	}
	s.mu.Unlock()
	if _, err := s.List(ctx); err != nil {
		s.logger.WithField("error", err.Error()).Warn("project list refresh after update failed")
	}
	return nil
}

// Remove deletes a project and drops it from the cache, clearing the current
// pointer when it referenced the same identifier.
func (s *Projects) Remove(ctx context.Context, id string) error {
	if err := s.gw.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return nil
}

// Snapshot returns a copy of the cached project list.
func (s *Projects) Snapshot() []domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Project(nil), s.projects...)
}

// Current returns the project currently open in the UI.
func (s *Projects) Current() (domain.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.Project{}, false
	}
	return *s.current, true
}

// CurrentID returns the open project's identifier, empty when none is open.
// The live-update listener scopes its re-fetches with it.
func (s *Projects) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.ID
}

// ClearCurrent marks no project as open, e.g. after navigating away.
func (s *Projects) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
