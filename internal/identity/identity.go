package identity

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Role is a closed set, every consumer switches over it exhaustively instead
// of comparing raw strings.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleSeller, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// CanManageOrders reports whether the role may change order status.
func (r Role) CanManageOrders() bool {
	switch r {
	case RoleSeller, RoleAdmin:
		return true
	case RoleUser:
		return false
	default:
		return false
	}
}

type Identity struct {
	ID   string
	Role Role
}

type EventKind string

const (
	KindActivated   EventKind = "activated"
	KindDeactivated EventKind = "deactivated"
)

type Event struct {
	Kind     EventKind
	Identity Identity
}

// Sessions tracks the single active identity and broadcasts transitions to
// subscribers. The cart engine subscribes to hydrate on activation and clear
// on deactivation.
type Sessions struct {
	mu      sync.RWMutex
	current *Identity
	subs    map[int]chan Event
	nextID  int
}

func NewSessions() *Sessions {
	return &Sessions{subs: make(map[int]chan Event)}
}

func (s *Sessions) Current() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

// Activate replaces any active identity. A previous identity is deactivated
// first so subscribers always see pairwise transitions.
func (s *Sessions) Activate(id Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.broadcast(Event{Kind: KindDeactivated, Identity: *s.current})
	}
	s.current = &id
	s.broadcast(Event{Kind: KindActivated, Identity: id})
}

func (s *Sessions) Deactivate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return
	}
	prev := *s.current
	s.current = nil
	s.broadcast(Event{Kind: KindDeactivated, Identity: prev})
}

// Subscribe returns a buffered event channel and an unsubscribe func. The
// channel is closed on unsubscribe.
func (s *Sessions) Subscribe() (<-chan Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Event, 8)
	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// broadcast must be called with the lock held. A full subscriber drops the
// event rather than blocking session transitions.
func (s *Sessions) broadcast(e Event) {
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
			slog.Warn("identity subscriber full, dropping event", "kind", e.Kind)
		}
	}
}
