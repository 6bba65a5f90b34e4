// Package registry holds the in-memory activity roster: every
// extracurricular activity offered by the school, keyed by name, with its
// ordered participant list. The registry is process-lifetime state; it is
// seeded once at startup and mutated only through Signup and Unregister.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

type ErrorKind string

const (
	ErrKindActivityNotFound ErrorKind = "ACTIVITY_NOT_FOUND"
	ErrKindAlreadySignedUp  ErrorKind = "ALREADY_SIGNED_UP"
	ErrKindNotRegistered    ErrorKind = "NOT_REGISTERED"
)

type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return string(e.Kind)
}

func IsKind(err error, kind ErrorKind) bool {
	var rerr *Error
	return errors.As(err, &rerr) && rerr.Kind == kind
}

// Activity is the wire and seed representation of a single activity.
// Participants are listed in signup order.
type Activity struct {
	Description     string   `json:"description" toml:"description"`
	Schedule        string   `json:"schedule" toml:"schedule"`
	MaxParticipants int      `json:"max_participants" toml:"max_participants"`
	Participants    []string `json:"participants" toml:"participants"`
}

// record is the internal mutable form of an activity. The members set
// mirrors the participants slice for O(1) membership checks; the slice
// stays authoritative for ordering.
type record struct {
	description     string
	schedule        string
	maxParticipants int
	participants    []string
	members         map[string]struct{}
}

type Registry struct {
	mu         sync.RWMutex
	activities map[string]*record
}

// New builds a registry from seed data. Duplicate participant entries in the
// seed are collapsed, keeping the first occurrence.
func New(seed map[string]Activity) *Registry {
	activities := make(map[string]*record, len(seed))
	for name, a := range seed {
		rec := &record{
			description:     a.Description,
			schedule:        a.Schedule,
			maxParticipants: a.MaxParticipants,
			participants:    make([]string, 0, len(a.Participants)),
			members:         make(map[string]struct{}, len(a.Participants)),
		}
		for _, email := range a.Participants {
			if _, ok := rec.members[email]; ok {
				continue
			}
			rec.members[email] = struct{}{}
			rec.participants = append(rec.participants, email)
		}
		activities[name] = rec
	}
	return &Registry{activities: activities}
}

// Snapshot returns a deep copy of the registry. Mutating the result does not
// affect the registry.
func (r *Registry) Snapshot() map[string]Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Activity, len(r.activities))
	for name, rec := range r.activities {
		participants := make([]string, len(rec.participants))
		copy(participants, rec.participants)
		out[name] = Activity{
			Description:     rec.description,
			Schedule:        rec.schedule,
			MaxParticipants: rec.maxParticipants,
			Participants:    participants,
		}
	}
	return out
}

// Signup appends email to the activity's participant list. Capacity is
// advisory: no max_participants check is made before appending.
func (r *Registry) Signup(activity, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.activities[activity]
	if !ok {
		return &Error{Kind: ErrKindActivityNotFound, Msg: "Activity not found"}
	}
	if _, ok := rec.members[email]; ok {
		return &Error{
			Kind: ErrKindAlreadySignedUp,
			Msg:  fmt.Sprintf("%s is already signed up for %s", email, activity),
		}
	}
	rec.members[email] = struct{}{}
	rec.participants = append(rec.participants, email)
	return nil
}

// Unregister removes email from the activity's participant list.
func (r *Registry) Unregister(activity, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.activities[activity]
	if !ok {
		return &Error{Kind: ErrKindActivityNotFound, Msg: "Activity not found"}
	}
	if _, ok := rec.members[email]; !ok {
		return &Error{
			Kind: ErrKindNotRegistered,
			Msg:  fmt.Sprintf("%s is not registered for %s", email, activity),
		}
	}
	delete(rec.members, email)
	for i, p := range rec.participants {
		if p == email {
			rec.participants = append(rec.participants[:i], rec.participants[i+1:]...)
			break
		}
	}
	return nil
}
