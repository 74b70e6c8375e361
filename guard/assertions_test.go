package guard

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stefwlc/ezctest/ui"
)

// newT builds a T outside the runner so assertions can be exercised directly.
func newT(buf *bytes.Buffer) *T {
	return &T{suite: "Suite", name: "Case", printer: ui.NewPrinter(buf, false)}
}

func TestExpectCondition(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)

	assert.True(t, tt.Expect(true))
	assert.False(t, tt.Expect(false))
	assert.True(t, tt.ExpectFalse(false))
	assert.False(t, tt.ExpectFalse(true))

	assert.True(t, tt.Failed())
	assert.Equal(t, 4, tt.assertsTotal)
	assert.Equal(t, 2, tt.assertsFailed)
	assert.Contains(t, buf.String(), "Expected condition to be true")
	assert.Contains(t, buf.String(), "Expected condition to be false")
}

func TestExpectEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"equal ints", 4, 4, true},
		{"unequal ints", 4, 5, false},
		{"mismatched int kinds", int32(4), int64(4), false},
		{"equal strings", "abc", "abc", true},
		{"equal slices", []int{1, 2}, []int{1, 2}, true},
		{"unequal slices", []int{1, 2}, []int{2, 1}, false},
		{"equal byte slices", []byte("xy"), []byte("xy"), true},
		{"equal structs", struct{ A int }{1}, struct{ A int }{1}, true},
		{"both nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := newT(&bytes.Buffer{})
			assert.Equal(t, tc.want, tt.ExpectEqual(tc.expected, tc.actual))
			assert.Equal(t, !tc.want, tt.Failed())
		})
	}
}

func TestExpectEqualMultilineDiff(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)

	tt.ExpectEqual("one\ntwo\nthree", "one\nTWO\nthree")

	out := buf.String()
	assert.Contains(t, out, "diff:")
	assert.Contains(t, out, "- two")
	assert.Contains(t, out, "+ TWO")
	assert.Contains(t, out, "  one")
}

func TestExpectNotEqual(t *testing.T) {
	tt := newT(&bytes.Buffer{})

	assert.True(t, tt.ExpectNotEqual(1, 2))
	assert.False(t, tt.ExpectNotEqual("a", "a"))
}

func TestOrderingAssertions(t *testing.T) {
	tests := []struct {
		name string
		call func(tt *T) bool
		want bool
	}{
		{"less int", func(tt *T) bool { return tt.ExpectLess(1, 2) }, true},
		{"less equal boundary", func(tt *T) bool { return tt.ExpectLess(2, 2) }, false},
		{"less or equal boundary", func(tt *T) bool { return tt.ExpectLessOrEqual(2, 2) }, true},
		{"less or equal above", func(tt *T) bool { return tt.ExpectLessOrEqual(3, 2) }, false},
		{"greater float", func(tt *T) bool { return tt.ExpectGreater(2.5, 1.5) }, true},
		{"greater equal boundary", func(tt *T) bool { return tt.ExpectGreater(1.5, 1.5) }, false},
		{"greater or equal uint", func(tt *T) bool { return tt.ExpectGreaterOrEqual(uint(7), uint(7)) }, true},
		{"greater or equal below", func(tt *T) bool { return tt.ExpectGreaterOrEqual(uint(6), uint(7)) }, false},
		{"less string", func(tt *T) bool { return tt.ExpectLess("abc", "abd") }, true},
		{"greater string", func(tt *T) bool { return tt.ExpectGreater("abc", "abd") }, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := newT(&bytes.Buffer{})
			assert.Equal(t, tc.want, tc.call(tt))
		})
	}
}

func TestOrderingRejectsMismatchedKinds(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)

	assert.False(t, tt.ExpectLess(1, "a"))
	assert.True(t, tt.Failed())
	assert.Contains(t, buf.String(), "cannot be ordered")
}

func TestExpectNilAndNotNil(t *testing.T) {
	tt := newT(&bytes.Buffer{})

	var typedNil *int
	var nilMap map[string]int
	v := 3

	assert.True(t, tt.ExpectNil(nil))
	assert.True(t, tt.ExpectNil(typedNil), "typed nil inside an interface is nil")
	assert.True(t, tt.ExpectNil(nilMap))
	assert.False(t, tt.ExpectNil(&v))

	assert.True(t, tt.ExpectNotNil(&v))
	assert.False(t, tt.ExpectNotNil(typedNil))
}

func TestExpectEmptyAndNotEmpty(t *testing.T) {
	tt := newT(&bytes.Buffer{})

	assert.True(t, tt.ExpectEmpty(""))
	assert.True(t, tt.ExpectEmpty([]int{}))
	assert.True(t, tt.ExpectEmpty(map[string]int{}))
	assert.True(t, tt.ExpectEmpty(nil))
	assert.True(t, tt.ExpectEmpty(0))
	assert.False(t, tt.ExpectEmpty("x"))
	assert.False(t, tt.ExpectEmpty([]int{1}))

	assert.True(t, tt.ExpectNotEmpty("x"))
	assert.False(t, tt.ExpectNotEmpty(""))
}

func TestErrorAssertions(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)
	boom := errors.New("boom")

	assert.True(t, tt.ExpectNoError(nil))
	assert.False(t, tt.ExpectNoError(boom))
	assert.True(t, tt.ExpectError(boom))
	assert.False(t, tt.ExpectError(nil))

	assert.Contains(t, buf.String(), "Unexpected error: boom")
	assert.Contains(t, buf.String(), "Expected an error, got nil")
}

func TestExpectFloatEqual(t *testing.T) {
	tt := newT(&bytes.Buffer{})

	assert.True(t, tt.ExpectFloatEqual(1.0, 1.0))
	assert.True(t, tt.ExpectFloatEqual(1.0, 1.0+1e-12), "within relative epsilon")
	assert.True(t, tt.ExpectFloatEqual(0.0, 1e-12), "near zero uses absolute epsilon")
	assert.False(t, tt.ExpectFloatEqual(1.0, 1.1))
}

func TestExpectNear(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)

	assert.True(t, tt.ExpectNear(10.0, 10.4, 0.5))
	assert.False(t, tt.ExpectNear(10.0, 10.6, 0.5))
	assert.Contains(t, buf.String(), "diff is")
}

func TestRequireUnwindsOnFailure(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)

	assert.PanicsWithValue(t, fatalToken{}, func() {
		tt.RequireEqual(1, 2)
	})
	assert.True(t, tt.Failed())
	assert.True(t, tt.fatalHit)
	assert.Equal(t, 1, tt.assertsTotal)
	assert.Equal(t, 1, tt.assertsFailed)
}

func TestRequirePassesWithoutUnwinding(t *testing.T) {
	tt := newT(&bytes.Buffer{})

	assert.NotPanics(t, func() {
		tt.Require(true)
		tt.RequireEqual("a", "a")
		tt.RequireNoError(nil)
		tt.RequireNear(1.0, 1.0, 0.1)
	})
	assert.False(t, tt.Failed())
	assert.Equal(t, 4, tt.assertsTotal)
	assert.Equal(t, 0, tt.assertsFailed)
}

func TestFailureReportsCallSite(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)

	tt.Expect(false)

	assert.Contains(t, buf.String(), "assertions_test.go:")
	assert.Contains(t, buf.String(), ": Failure")
}

func TestCustomFailureMessage(t *testing.T) {
	var buf bytes.Buffer
	tt := newT(&buf)

	tt.Expect(false, "checking widget %d", 42)
	tt.ExpectEqual(1, 2, "plain message")

	out := buf.String()
	assert.Contains(t, out, "message: checking widget 42")
	assert.Contains(t, out, "message: plain message")
}
