// The ezctest demo binary. It registers sample suites covering soft and
// fatal assertions, suite fixtures, deferred cleanup and reflective suite
// scanning, then hands control to the runner. Run it with --help for the
// filter and isolation options.
package main

import (
	"fmt"
	"strings"

	"github.com/stefwlc/ezctest"
)

func init() {
	ezctest.MustRegister("BasicAssertions", "Conditions", func(t *ezctest.T) {
		answer := 42
		t.Expect(answer > 0)
		t.ExpectFalse(answer < 0)
	})
	ezctest.MustRegister("BasicAssertions", "Equality", func(t *ezctest.T) {
		a, b := 42, 42
		t.ExpectEqual(a, b)
		t.ExpectNotEqual(a, b+1)
	})
	ezctest.MustRegister("BasicAssertions", "Ordering", func(t *ezctest.T) {
		t.ExpectLess(5, 10)
		t.ExpectLessOrEqual(10, 10)
		t.ExpectGreater(0, -1)
		t.ExpectGreaterOrEqual(10, 10)
	})
}

func init() {
	ezctest.MustRegister("StringAssertions", "Building", func(t *ezctest.T) {
		greeting := strings.Join([]string{"hello", "world"}, " ")
		t.RequireNotEmpty(greeting)
		t.ExpectEqual("hello world", greeting)
	})
	ezctest.MustRegister("StringAssertions", "Formatting", func(t *ezctest.T) {
		got := fmt.Sprintf("%05.1f", 3.5)
		t.ExpectEqual("003.5", got)
	})
}

func init() {
	ezctest.MustRegister("FloatAssertions", "ApproximateEquality", func(t *ezctest.T) {
		third := 1.0 / 3.0
		t.ExpectFloatEqual(1.0, third*3.0)
		t.ExpectNear(3.14159, 3.1416, 0.001)
	})
}

// FixtureDemo shares a scratch slice across its tests; SetUp rebuilds it
// before every test so the order of tests cannot matter.
var fixtureData []int

func init() {
	if err := ezctest.RegisterSetUp("FixtureDemo", func() {
		fixtureData = []int{1, 2, 3}
	}); err != nil {
		panic(err)
	}
	if err := ezctest.RegisterTearDown("FixtureDemo", func() {
		fixtureData = nil
	}); err != nil {
		panic(err)
	}

	ezctest.MustRegister("FixtureDemo", "ConsumesData", func(t *ezctest.T) {
		t.RequireNotEmpty(fixtureData)
		fixtureData = fixtureData[1:]
		t.ExpectEqual(2, len(fixtureData))
	})
	ezctest.MustRegister("FixtureDemo", "SeesFreshData", func(t *ezctest.T) {
		t.ExpectEqual(3, len(fixtureData), "setup must rebuild the data")
	})
}

func init() {
	ezctest.MustRegister("DeferDemo", "CleanupRunsInReverse", func(t *ezctest.T) {
		resource := make([]byte, 0, 64)
		t.Defer(func() {
			t.Log("releasing buffer")
			resource = resource[:0]
		})

		resource = append(resource, "payload"...)
		t.Defer(func() { t.Logf("buffer held %d bytes", len(resource)) })

		t.ExpectEqual(7, len(resource))
	})

	// The DISABLED_ prefix keeps a test registered but out of every run.
	ezctest.MustRegister("DeferDemo", "DISABLED_ExternalResource", func(t *ezctest.T) {
		t.Fatalf("needs a scratch directory outside the repo")
	})
}

// counterSuite is discovered reflectively: the struct name becomes the suite
// and every Test* method becomes a test.
type counterSuite struct {
	count int
}

func (s *counterSuite) SetUp() { s.count = 0 }

func (s *counterSuite) TestIncrement(t *ezctest.T) {
	s.count++
	s.count++
	t.ExpectEqual(2, s.count)
}

func (s *counterSuite) TestStartsFresh(t *ezctest.T) {
	t.RequireEqual(0, s.count, "SetUp must reset the counter")
}

func init() {
	if err := ezctest.RegisterSuite(&counterSuite{}); err != nil {
		panic(err)
	}
}

func main() {
	ezctest.Main()
}
