package store

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	dom "github.com/shovanmaity/chaos-demo-app/internal/domain"
)

// DefaultTTL is how long a todo stays visible after creation.
const DefaultTTL = 5 * time.Minute

var (
	// ErrNotFound is returned for ids that were never created, were deleted,
	// or have expired. Expired records are indistinguishable from absent ones.
	ErrNotFound = errors.New("todo not found")

	// ErrTitleRequired is returned when a create or update supplies an
	// empty or blank title.
	ErrTitleRequired = errors.New("title is required")
)

// Patch is a partial update. Nil fields are left untouched, so callers can
// distinguish "not supplied" from "explicitly set".
type Patch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Store is the thread-safe in-memory todo store. IDs are assigned
// sequentially starting at 1 and never reused. Every access re-checks the
// TTL, so no caller ever observes an expired record; a record found expired
// is deleted on the spot. A background loop (Run) additionally sweeps the
// whole map so dead entries do not pile up between accesses.
type Store struct {
	mu     sync.Mutex
	todos  map[int64]dom.Todo
	nextID int64
	ttl    time.Duration
	now    func() time.Time // injectable for deterministic tests
}

// New creates an empty Store with the given TTL. Non-positive ttl falls back
// to DefaultTTL.
func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		todos: make(map[int64]dom.Todo),
		ttl:   ttl,
		now:   time.Now,
	}
}

// TTL returns the retention window.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create adds a new todo. The title is required; both title and description
// are trimmed. On validation failure nothing is stored.
func (s *Store) Create(title, description string) (dom.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Todo{}, ErrTitleRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.nextID++
	t := dom.Todo{
		ID:          s.nextID,
		Title:       title,
		Description: strings.TrimSpace(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
		ExpiresAt:   now.Add(s.ttl),
	}
	s.todos[t.ID] = t
	return t, nil
}

// Get returns the todo by id, or ErrNotFound if it is unknown or expired.
func (s *Store) Get(id int64) (dom.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(id)
}

// List sweeps expired entries, then returns the remaining todos in id order.
func (s *Store) List() []dom.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(s.now())
	out := make([]dom.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Update applies a partial update and refreshes UpdatedAt. A supplied title
// must be non-blank. Returns ErrNotFound per the same expiry rule as Get.
func (s *Store) Update(id int64, p Patch) (dom.Todo, error) {
	var title string
	if p.Title != nil {
		title = strings.TrimSpace(*p.Title)
		if title == "" {
			return dom.Todo{}, ErrTitleRequired
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.live(id)
	if err != nil {
		return dom.Todo{}, err
	}
	if p.Title != nil {
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = s.now()
	s.todos[id] = t
	return t, nil
}

// Toggle flips the completed flag and refreshes UpdatedAt.
func (s *Store) Toggle(id int64) (dom.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.live(id)
	if err != nil {
		return dom.Todo{}, err
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now()
	s.todos[id] = t
	return t, nil
}

// Delete removes the todo permanently. Its id is never reused.
func (s *Store) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.live(id); err != nil {
		return err
	}
	delete(s.todos, id)
	return nil
}

// Stats sweeps expired entries, then counts the rest.
func (s *Store) Stats() dom.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep(s.now())
	var st dom.Stats
	for _, t := range s.todos {
		st.Total++
		if t.Completed {
			st.Completed++
		} else {
			st.Pending++
		}
	}
	return st
}

// Count returns the raw number of records held, including expired ones the
// sweeps have not reached yet. Used by the health endpoint.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.todos)
}

// Evict removes every record whose deadline has passed at the given instant
// and returns how many were removed.
func (s *Store) Evict(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweep(now)
}

// Run starts the background janitor loop, sweeping every interval until ctx
// is cancelled. The lazy per-access check stays authoritative; the janitor
// only keeps the map from accumulating dead entries between requests.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Evict(now); n > 0 {
				slog.Debug("store: swept expired todos", "count", n)
			}
		}
	}
}

// live returns the record for id if it is still within its TTL. A record
// observed past its deadline is deleted immediately so later operations do
// not see it. Callers must hold s.mu.
func (s *Store) live(id int64) (dom.Todo, error) {
	t, ok := s.todos[id]
	if !ok {
		return dom.Todo{}, ErrNotFound
	}
	// Expired at the exact deadline: a todo created at T is gone at T+TTL.
	if !s.now().Before(t.ExpiresAt) {
		delete(s.todos, id)
		return dom.Todo{}, ErrNotFound
	}
	return t, nil
}

// sweep deletes every expired record. Callers must hold s.mu.
func (s *Store) sweep(now time.Time) int {
	removed := 0
	for id, t := range s.todos {
		if !now.Before(t.ExpiresAt) {
			delete(s.todos, id)
			removed++
		}
	}
	return removed
}
