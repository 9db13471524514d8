package store

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestCreateAndGet(t *testing.T) {
	st := New(DefaultTTL)

	created, err := st.Create("Buy groceries", "milk, eggs")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID: got %d, want 1", created.ID)
	}
	if created.Completed {
		t.Error("Completed: new todo must start false")
	}
	if !created.ExpiresAt.Equal(created.CreatedAt.Add(DefaultTTL)) {
		t.Errorf("ExpiresAt: got %v, want CreatedAt+%v", created.ExpiresAt, DefaultTTL)
	}

	got, err := st.Get(created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Buy groceries" || got.Description != "milk, eggs" {
		t.Errorf("Get: got %q/%q", got.Title, got.Description)
	}
}

func TestCreate_BlankTitle(t *testing.T) {
	st := New(DefaultTTL)

	for _, title := range []string{"", "   ", "\t\n"} {
		if _, err := st.Create(title, "desc"); !errors.Is(err, ErrTitleRequired) {
			t.Errorf("Create(%q): got %v, want ErrTitleRequired", title, err)
		}
	}
	if st.Count() != 0 {
		t.Errorf("Count after failed creates: got %d, want 0", st.Count())
	}
}

func TestCreate_TrimsFields(t *testing.T) {
	st := New(DefaultTTL)

	created, err := st.Create("  walk the dog  ", "  around the block  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Title != "walk the dog" {
		t.Errorf("Title: got %q", created.Title)
	}
	if created.Description != "around the block" {
		t.Errorf("Description: got %q", created.Description)
	}
}

func TestIDs_MonotonicNoReuse(t *testing.T) {
	st := New(DefaultTTL)

	a, _ := st.Create("a", "")
	b, _ := st.Create("b", "")
	if b.ID != a.ID+1 {
		t.Fatalf("IDs not sequential: %d then %d", a.ID, b.ID)
	}

	if err := st.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	c, _ := st.Create("c", "")
	if c.ID != b.ID+1 {
		t.Errorf("ID after delete: got %d, want %d (ids are never reused)", c.ID, b.ID+1)
	}
}

func TestGet_Missing(t *testing.T) {
	st := New(DefaultTTL)
	if _, err := st.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty store: got %v, want ErrNotFound", err)
	}
}

func TestExpiry_Boundary(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base)
	created, err := st.Create("ephemeral", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// One second before the deadline the todo is still there.
	st.now = fixedClock(base.Add(5*time.Minute - time.Second))
	if _, err := st.Get(created.ID); err != nil {
		t.Fatalf("Get at TTL-1s: %v", err)
	}

	// At exactly the deadline it is gone.
	st.now = fixedClock(base.Add(5 * time.Minute))
	if _, err := st.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get at exactly TTL: got %v, want ErrNotFound", err)
	}

	// And stays gone afterwards.
	st.now = fixedClock(base.Add(5*time.Minute + time.Second))
	if _, err := st.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get at TTL+1s: got %v, want ErrNotFound", err)
	}
}

func TestGet_PurgesExpired(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base)
	created, _ := st.Create("doomed", "")

	st.now = fixedClock(base.Add(10 * time.Minute))
	if _, err := st.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get: got %v, want ErrNotFound", err)
	}
	// The expired record was removed the moment it was observed.
	if st.Count() != 0 {
		t.Errorf("Count after expired Get: got %d, want 0", st.Count())
	}
}

func TestList_OrderAndSweep(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Create("stale", "")

	st.now = fixedClock(base)
	st.Create("first", "")
	st.Create("second", "")

	list := st.List()
	if len(list) != 2 {
		t.Fatalf("List: got %d todos, want 2", len(list))
	}
	if list[0].Title != "first" || list[1].Title != "second" {
		t.Errorf("List order: got %q, %q", list[0].Title, list[1].Title)
	}
	if st.Count() != 2 {
		t.Errorf("Count after List: got %d, want 2 (stale entry swept)", st.Count())
	}
}

func TestUpdate_PartialFields(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base)
	created, _ := st.Create("title", "desc")

	st.now = fixedClock(base.Add(time.Minute))
	done := true
	updated, err := st.Update(created.ID, Patch{Completed: &done})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "title" || updated.Description != "desc" {
		t.Errorf("untouched fields changed: %q/%q", updated.Title, updated.Description)
	}
	if !updated.Completed {
		t.Error("Completed: got false, want true")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Error("UpdatedAt not refreshed")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Error("CreatedAt must be immutable")
	}
}

func TestUpdate_BlankTitle(t *testing.T) {
	st := New(DefaultTTL)
	created, _ := st.Create("keep me", "")

	blank := "  "
	if _, err := st.Update(created.ID, Patch{Title: &blank}); !errors.Is(err, ErrTitleRequired) {
		t.Fatalf("Update with blank title: got %v, want ErrTitleRequired", err)
	}
	got, _ := st.Get(created.ID)
	if got.Title != "keep me" {
		t.Errorf("Title after failed update: got %q", got.Title)
	}
}

func TestUpdate_Missing(t *testing.T) {
	st := New(DefaultTTL)
	done := true
	if _, err := st.Update(7, Patch{Completed: &done}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update: got %v, want ErrNotFound", err)
	}
}

func TestToggle_Twice(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base)
	created, _ := st.Create("flip me", "")

	st.now = fixedClock(base.Add(time.Second))
	first, err := st.Toggle(created.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !first.Completed {
		t.Error("first Toggle: got false, want true")
	}

	st.now = fixedClock(base.Add(2 * time.Second))
	second, err := st.Toggle(created.ID)
	if err != nil {
		t.Fatalf("second Toggle: %v", err)
	}
	if second.Completed {
		t.Error("second Toggle: got true, want original false")
	}
	if !second.UpdatedAt.After(first.UpdatedAt) {
		t.Error("UpdatedAt not refreshed on second toggle")
	}
}

func TestToggle_Missing(t *testing.T) {
	st := New(DefaultTTL)
	if _, err := st.Toggle(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Toggle: got %v, want ErrNotFound", err)
	}
}

func TestDelete_ThenGone(t *testing.T) {
	st := New(DefaultTTL)
	created, _ := st.Create("bye", "")

	if err := st.Delete(created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := st.Get(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: got %v, want ErrNotFound", err)
	}
	if err := st.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func TestDelete_Expired(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base)
	created, _ := st.Create("late", "")

	st.now = fixedClock(base.Add(6 * time.Minute))
	if err := st.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete on expired: got %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	st := New(DefaultTTL)

	a, _ := st.Create("a", "")
	b, _ := st.Create("b", "")
	st.Create("c", "")

	if _, err := st.Toggle(a.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if err := st.Delete(b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got := st.Stats()
	if got.Total != 2 || got.Completed != 1 || got.Pending != 1 {
		t.Errorf("Stats: got %+v, want {Total:2 Completed:1 Pending:1}", got)
	}
	if got.Total != got.Completed+got.Pending {
		t.Errorf("Stats inconsistent: %+v", got)
	}
}

func TestStats_SweepsExpired(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Create("stale", "")

	st.now = fixedClock(base)
	st.Create("live", "")

	got := st.Stats()
	if got.Total != 1 {
		t.Errorf("Stats.Total: got %d, want 1", got.Total)
	}
	if st.Count() != 1 {
		t.Errorf("Count after Stats: got %d, want 1", st.Count())
	}
}

func TestEvict(t *testing.T) {
	base := time.Now()
	st := New(DefaultTTL)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Create("old1", "")
	st.Create("old2", "")

	st.now = fixedClock(base)
	st.Create("live", "")

	if removed := st.Evict(base); removed != 2 {
		t.Errorf("Evict: removed %d, want 2", removed)
	}
	if st.Count() != 1 {
		t.Errorf("Count after Evict: got %d, want 1", st.Count())
	}
	if removed := st.Evict(base); removed != 0 {
		t.Errorf("second Evict: removed %d, want 0", removed)
	}
}

func TestConcurrentMixedOps(t *testing.T) {
	st := New(DefaultTTL)
	var wg sync.WaitGroup

	seed, _ := st.Create("seed", "")
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func() {
			defer wg.Done()
			st.Create("concurrent", "")
		}()
		go func() {
			defer wg.Done()
			st.List()
		}()
		go func() {
			defer wg.Done()
			st.Toggle(seed.ID)
		}()
	}
	wg.Wait()

	if got := st.Stats().Total; got != 51 {
		t.Errorf("Total after concurrent creates: got %d, want 51", got)
	}
}
