package store

import (
	"context"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"boardsync/domain"
)

// MemberGateway is the slice of the gateway the membership store needs.
type MemberGateway interface {
	Members(ctx context.Context, projectID string) ([]domain.ProjectMember, error)
	CreateMember(ctx context.Context, projectID, email string) (domain.ProjectMember, error)
	MemberByID(ctx context.Context, id string) (domain.ProjectMember, error)
	DeleteMember(ctx context.Context, id string) error
}

// Members caches the membership list of the open project.
type Members struct {
	gw     MemberGateway
	logger *log.Logger

	mu      sync.Mutex
	members []domain.ProjectMember
	current *domain.ProjectMember
}

// NewMembers creates an empty membership store backed by gw.
func NewMembers(gw MemberGateway, logger *log.Logger) *Members {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Members{gw: gw, logger: logger}
}

// List replaces the cached membership list for the project.
func (s *Members) List(ctx context.Context, projectID string) ([]domain.ProjectMember, error) {
	members, err := s.gw.Members(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.members = members
	s.mu.Unlock()
	return s.Snapshot(), nil
}

// Create invites a user by email and appends the returned membership.
func (s *Members) Create(ctx context.Context, projectID, email string) (domain.ProjectMember, error) {
	if strings.TrimSpace(email) == "" {
		return domain.ProjectMember{}, ErrEmptyEmail
	}
	member, err := s.gw.CreateMember(ctx, projectID, email)
	if err != nil {
		return domain.ProjectMember{}, err
	}
	s.mu.Lock()
	s.members = append(s.members, member)
	s.mu.Unlock()
	return member, nil
}

// GetByID fetches a single membership and marks it as selected.
func (s *Members) GetByID(ctx context.Context, id string) (domain.ProjectMember, error) {
	member, err := s.gw.MemberByID(ctx, id)
	if err != nil {
		return domain.ProjectMember{}, err
	}
	s.mu.Lock()
	s.current = &member
	s.mu.Unlock()
	return member, nil
}

// Remove deletes a membership and drops it from the cache.
func (s *Members) Remove(ctx context.Context, id string) error {
	if err := s.gw.DeleteMember(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.members[:0]
	for _, m := range s.members {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.members = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	return nil
}

// Snapshot returns a copy of the cached membership list.
func (s *Members) Snapshot() []domain.ProjectMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ProjectMember(nil), s.members...)
}

// Current returns the selected membership, if any.
func (s *Members) Current() (domain.ProjectMember, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return domain.ProjectMember{}, false
	}
	return *s.current, true
}
