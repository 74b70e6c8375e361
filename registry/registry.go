// Package registry holds the process-wide catalog of tests and suite
// fixtures. Entries are insertion-ordered; that order is canonical for
// listing, worker indices, and run order before any shuffle.
package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/log"

	"github.com/stefwlc/ezctest/filter"
	"github.com/stefwlc/ezctest/guard"
)

// Fixed capacities. Registration past these reports an error without
// aborting the process.
const (
	MaxTests    = 1024
	MaxFixtures = 64
)

// disabledPrefix marks a test or suite as registered but excluded from
// selection, following the DISABLED_ naming convention.
const disabledPrefix = "DISABLED_"

// Entry is one registered test.
type Entry struct {
	Suite   string
	Name    string
	Fn      guard.TestFunc
	Enabled bool

	// FailedThisRun is maintained by the harness and reset at the start of
	// every repeat iteration.
	FailedThisRun bool
}

// FullName returns the suite-qualified test name.
func (e *Entry) FullName() string {
	return e.Suite + "." + e.Name
}

// Fixture carries the per-suite hooks. At most one fixture exists per suite;
// SetUp and TearDown are upserted independently.
type Fixture struct {
	Suite    string
	SetUp    guard.HookFunc
	TearDown guard.HookFunc
}

// Registry is safe for concurrent registration, though typical use is
// init-time registration followed by single-goroutine reads.
type Registry struct {
	mu       sync.RWMutex
	entries  []*Entry
	fixtures []*Fixture
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register adds a test. Duplicate (suite, name) pairs are permitted and
// logged; names or suites carrying the DISABLED_ prefix register as disabled.
func (r *Registry) Register(suite, name string, fn guard.TestFunc) error {
	if suite == "" || name == "" {
		return fmt.Errorf("test registration requires a suite and a name, got %q.%q", suite, name)
	}
	if fn == nil {
		return fmt.Errorf("test %s.%s registered with a nil function", suite, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) >= MaxTests {
		return fmt.Errorf("test registry is full (%d tests), cannot register %s.%s", MaxTests, suite, name)
	}
	if r.hasLocked(suite, name) {
		log.Warn("Duplicate test registration", "suite", suite, "name", name)
	}

	r.entries = append(r.entries, &Entry{
		Suite:   suite,
		Name:    name,
		Fn:      fn,
		Enabled: !strings.HasPrefix(name, disabledPrefix) && !strings.HasPrefix(suite, disabledPrefix),
	})
	return nil
}

// RegisterSetUp installs the setup hook for a suite, replacing any previous
// one.
func (r *Registry) RegisterSetUp(suite string, fn guard.HookFunc) error {
	return r.upsertFixture(suite, fn, nil)
}

// RegisterTearDown installs the teardown hook for a suite, replacing any
// previous one.
func (r *Registry) RegisterTearDown(suite string, fn guard.HookFunc) error {
	return r.upsertFixture(suite, nil, fn)
}

func (r *Registry) upsertFixture(suite string, setUp, tearDown guard.HookFunc) error {
	if suite == "" {
		return fmt.Errorf("fixture registration requires a suite name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range r.fixtures {
		if f.Suite == suite {
			if setUp != nil {
				f.SetUp = setUp
			}
			if tearDown != nil {
				f.TearDown = tearDown
			}
			return nil
		}
	}
	if len(r.fixtures) >= MaxFixtures {
		return fmt.Errorf("fixture registry is full (%d fixtures), cannot register suite %s", MaxFixtures, suite)
	}
	r.fixtures = append(r.fixtures, &Fixture{Suite: suite, SetUp: setUp, TearDown: tearDown})
	return nil
}

// FixtureFor returns the suite's hooks, or nil hooks when the suite has no
// fixture.
func (r *Registry) FixtureFor(suite string) (setUp, tearDown guard.HookFunc) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, f := range r.fixtures {
		if f.Suite == suite {
			return f.SetUp, f.TearDown
		}
	}
	return nil, nil
}

// Has reports whether a test with the given identity is registered.
func (r *Registry) Has(suite, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hasLocked(suite, name)
}

func (r *Registry) hasLocked(suite, name string) bool {
	for _, e := range r.entries {
		if e.Suite == suite && e.Name == name {
			return true
		}
	}
	return false
}

// Len returns the number of registered tests, disabled ones included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns all registered tests in registration order.
func (r *Registry) Entries() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Selected returns the enabled entries matching the filter, in registration
// order. This order is canonical: a test's position in it is its worker
// index regardless of shuffling.
func (r *Registry) Selected(f *filter.Filter) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, e := range r.entries {
		if !e.Enabled {
			continue
		}
		if !f.Matches(e.Suite, e.Name) {
			continue
		}
		out = append(out, e)
	}
	return out
}
