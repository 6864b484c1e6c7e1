package domain

import (
	"fmt"
	"strings"
)

// EntityKind names the entity class a push notification refers to.
type EntityKind string

const (
	EntityTask          EntityKind = "task"
	EntityProject       EntityKind = "project"
	EntityProjectMember EntityKind = "projectMember"
)

// MutationKind names the mutation a push notification reports.
type MutationKind string

const (
	MutationCreated MutationKind = "created"
	MutationUpdated MutationKind = "updated"
	MutationDeleted MutationKind = "deleted"
)

// Notification is a cache-invalidation signal. It carries no entity data; the
// receiver re-fetches from the gateway instead of trusting any payload.
type Notification struct {
	Entity EntityKind
	Kind   MutationKind
}

// EventName returns the wire form, e.g. "task:created".
func (n Notification) EventName() string {
	return string(n.Entity) + ":" + string(n.Kind)
}

// ParseNotification decodes a wire event name into a Notification. Only the
// combinations the gateway actually emits are accepted.
func ParseNotification(event string) (Notification, error) {
	entity, kind, ok := strings.Cut(event, ":")
	if !ok {
		return Notification{}, fmt.Errorf("malformed event name %q", event)
	}
	n := Notification{Entity: EntityKind(entity), Kind: MutationKind(kind)}
	switch n {
	case Notification{EntityTask, MutationCreated},
		Notification{EntityTask, MutationUpdated},
		Notification{EntityTask, MutationDeleted},
		Notification{EntityProject, MutationUpdated},
		Notification{EntityProject, MutationDeleted},
		Notification{EntityProjectMember, MutationCreated},
		Notification{EntityProjectMember, MutationDeleted}:
		return n, nil
	}
	return Notification{}, fmt.Errorf("unknown event name %q", event)
}
