package metrics

import (
	"fmt"
	"sync"
)

const (
	// DefaultCapacity is the shared history length on startup.
	DefaultCapacity = 1000

	// DefaultMinCapacity and DefaultMaxCapacity bound the values accepted
	// by SetSharedCapacity unless the group is built with another range.
	DefaultMinCapacity = 1000
	DefaultMaxCapacity = 10000
)

// Group owns a set of series that share one capacity. Changing the
// capacity re-trims every member while holding all member locks, so no
// reader observes a partially applied change.
type Group struct {
	mu       sync.Mutex
	members  []*Series
	capacity int
	min      int
	max      int
}

// NewGroup creates a group with the given initial capacity and accepted
// range. min is raised to 1 if lower.
func NewGroup(capacity, min, max int) (*Group, error) {
	if min < 1 {
		min = 1
	}
	if max < min {
		return nil, fmt.Errorf("metrics: capacity range [%d, %d]: %w", min, max, ErrInvalidArgument)
	}
	if capacity < min || capacity > max {
		return nil, fmt.Errorf("metrics: capacity %d outside [%d, %d]: %w", capacity, min, max, ErrInvalidArgument)
	}
	return &Group{capacity: capacity, min: min, max: max}, nil
}

// NewSeries creates a series at the group capacity and registers it.
func (g *Group) NewSeries() *Series {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := &Series{capacity: g.capacity}
	g.members = append(g.members, s)
	return s
}

// Register adds an existing series, trimming it to the group capacity.
func (g *Group) Register(s *Series) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s.mu.Lock()
	s.setCapacityLocked(g.capacity)
	s.mu.Unlock()

	g.members = append(g.members, s)
}

// SetSharedCapacity applies capacity to every member. Values outside the
// group range are rejected with ErrInvalidArgument and the prior
// capacity is retained.
func (g *Group) SetSharedCapacity(capacity int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if capacity < 1 || capacity < g.min || capacity > g.max {
		return fmt.Errorf("metrics: shared capacity %d outside [%d, %d]: %w", capacity, g.min, g.max, ErrInvalidArgument)
	}

	for _, s := range g.members {
		s.mu.Lock()
	}
	for _, s := range g.members {
		s.setCapacityLocked(capacity)
	}
	for i := len(g.members) - 1; i >= 0; i-- {
		g.members[i].mu.Unlock()
	}

	g.capacity = capacity
	return nil
}

// SharedCapacity returns the capacity currently applied to all members.
func (g *Group) SharedCapacity() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.capacity
}

// Range returns the accepted capacity bounds.
func (g *Group) Range() (min, max int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.min, g.max
}

// Len returns the number of registered series.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}
