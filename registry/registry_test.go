package registry

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefwlc/ezctest/filter"
	"github.com/stefwlc/ezctest/guard"
)

func noop(t *guard.T) {}

func TestRegisterKeepsInsertionOrder(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("B", "Second", noop))
	require.NoError(t, r.Register("A", "Third", noop))
	require.NoError(t, r.Register("B", "First", noop))

	entries := r.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "B.Second", entries[0].FullName())
	assert.Equal(t, "A.Third", entries[1].FullName())
	assert.Equal(t, "B.First", entries[2].FullName())
	assert.Equal(t, 3, r.Len())
}

func TestRegisterValidation(t *testing.T) {
	r := New()

	assert.Error(t, r.Register("", "Name", noop))
	assert.Error(t, r.Register("Suite", "", noop))
	assert.Error(t, r.Register("Suite", "Name", nil))
	assert.Equal(t, 0, r.Len())
}

func TestRegisterPermitsDuplicates(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("S", "Dup", noop))
	require.NoError(t, r.Register("S", "Dup", noop))

	assert.Equal(t, 2, r.Len())
	assert.True(t, r.Has("S", "Dup"))
	assert.False(t, r.Has("S", "Other"))
}

func TestRegisterCapacity(t *testing.T) {
	r := New()
	for i := 0; i < MaxTests; i++ {
		require.NoError(t, r.Register("S", fmt.Sprintf("T%04d", i), noop))
	}

	err := r.Register("S", "Overflow", noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "full")
	assert.Equal(t, MaxTests, r.Len(), "failed registration must not be recorded")
}

func TestDisabledPrefixRegistersDisabled(t *testing.T) {
	r := New()

	require.NoError(t, r.Register("S", "DISABLED_Flaky", noop))
	require.NoError(t, r.Register("DISABLED_Suite", "Fine", noop))
	require.NoError(t, r.Register("S", "Active", noop))

	assert.Equal(t, 3, r.Len())
	selected := r.Selected(nil)
	require.Len(t, selected, 1)
	assert.Equal(t, "S.Active", selected[0].FullName())
}

func TestFixtureUpsert(t *testing.T) {
	r := New()

	first, second := 0, 0
	require.NoError(t, r.RegisterSetUp("S", func() { first++ }))
	require.NoError(t, r.RegisterTearDown("S", func() { second++ }))

	setUp, tearDown := r.FixtureFor("S")
	require.NotNil(t, setUp)
	require.NotNil(t, tearDown)
	setUp()
	tearDown()
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)

	// Replacing setup keeps the existing teardown.
	require.NoError(t, r.RegisterSetUp("S", func() { first += 10 }))
	setUp, tearDown = r.FixtureFor("S")
	setUp()
	tearDown()
	assert.Equal(t, 11, first)
	assert.Equal(t, 2, second)
}

func TestFixtureForUnknownSuite(t *testing.T) {
	r := New()

	setUp, tearDown := r.FixtureFor("Nope")
	assert.Nil(t, setUp)
	assert.Nil(t, tearDown)
}

func TestFixtureCapacity(t *testing.T) {
	r := New()
	for i := 0; i < MaxFixtures; i++ {
		require.NoError(t, r.RegisterSetUp(fmt.Sprintf("S%02d", i), func() {}))
	}

	require.Error(t, r.RegisterSetUp("Overflow", func() {}))

	// Upserting an existing suite still works at capacity.
	assert.NoError(t, r.RegisterTearDown("S00", func() {}))
}

func TestFixtureValidation(t *testing.T) {
	r := New()
	assert.Error(t, r.RegisterSetUp("", func() {}))
	assert.Error(t, r.RegisterTearDown("", func() {}))
}

func TestSelectedAppliesFilter(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("Math", "Add", noop))
	require.NoError(t, r.Register("Math", "SlowMul", noop))
	require.NoError(t, r.Register("String", "Trim", noop))

	tests := []struct {
		name   string
		expr   string
		expect []string
	}{
		{"nil filter selects all", "", []string{"Math.Add", "Math.SlowMul", "String.Trim"}},
		{"suite glob", "Math.*", []string{"Math.Add", "Math.SlowMul"}},
		{"exclusion wins", "Math.*:-*Slow*", []string{"Math.Add"}},
		{"only exclusions keep the rest", "-String.*", []string{"Math.Add", "Math.SlowMul"}},
		{"no match", "Nope.*", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got []string
			for _, e := range r.Selected(filter.New(tc.expr)) {
				got = append(got, e.FullName())
			}
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestDefaultRegistrySwap(t *testing.T) {
	replacement := New()
	prev := SetDefault(replacement)
	defer SetDefault(prev)

	assert.Same(t, replacement, Default())

	MustRegister("S", "ViaDefault", noop)
	assert.True(t, replacement.Has("S", "ViaDefault"))

	assert.Panics(t, func() { MustRegister("", "", nil) })
}
