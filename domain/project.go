package domain

import (
	"regexp"
	"strings"
	"time"
)

// Project owns an ordered membership collection and a task collection. The
// owner is implicitly a full member even when absent from Memberships.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Owner       UserRef   `json:"owner"`
	Tasks       []Task    `json:"tasks"`
	Memberships []User    `json:"memberships"`
}

// ProjectPatch is a partial project update.
type ProjectPatch struct {
	Name *string `json:"name,omitempty"`
}

// Apply merges the set fields of the patch into p.
func (pp ProjectPatch) Apply(p *Project) {
	if pp.Name != nil {
		p.Name = *pp.Name
	}
}

var slugSeparators = regexp.MustCompile(`\s+`)

// Slug derives the URL-safe identifier used to address a project: lowercase,
// whitespace runs replaced with hyphens. Distinct names may normalize to the
// same slug; callers that need uniqueness must check before creating.
func Slug(name string) string {
	return slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
}

// Assignable lists everyone a task may be assigned to: the owner plus the
// current members, owner first, without duplicates.
func (p Project) Assignable() []UserRef {
	refs := []UserRef{p.Owner}
	for _, m := range p.Memberships {
		if m.ID == p.Owner.ID {
			continue
		}
		refs = append(refs, UserRef{ID: m.ID, Email: m.Email})
	}
	return refs
}
