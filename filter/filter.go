// Package filter selects the subset of registered tests to run.
//
// A filter expression is a ':'-separated list of glob patterns matched
// against the full "Suite.Name" of each test. Patterns support '*' (any run
// of characters, including none) and '?' (exactly one character). A pattern
// prefixed with '-' excludes matching tests; exclusions always win over
// inclusions. An empty expression selects everything.
package filter

import "strings"

// Filter is a parsed test selection expression.
type Filter struct {
	expr     string
	positive []string
	negative []string
}

// New parses expr into a Filter. Empty fragments produced by stray ':'
// separators are ignored.
func New(expr string) *Filter {
	f := &Filter{expr: expr}
	for _, pat := range strings.Split(expr, ":") {
		if pat == "" {
			continue
		}
		if strings.HasPrefix(pat, "-") {
			if neg := pat[1:]; neg != "" {
				f.negative = append(f.negative, neg)
			}
			continue
		}
		f.positive = append(f.positive, pat)
	}
	return f
}

// String returns the original expression.
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.expr
}

// Empty reports whether the filter selects every test.
func (f *Filter) Empty() bool {
	return f == nil || (len(f.positive) == 0 && len(f.negative) == 0)
}

// Matches reports whether the test identified by suite and name is selected.
// A name matching any exclusion pattern is rejected regardless of positive
// matches; otherwise it is accepted if it matches any positive pattern, or
// if no positive patterns were given.
func (f *Filter) Matches(suite, name string) bool {
	if f.Empty() {
		return true
	}
	full := suite + "." + name
	for _, pat := range f.negative {
		if Glob(pat, full) {
			return false
		}
	}
	if len(f.positive) == 0 {
		return true
	}
	for _, pat := range f.positive {
		if Glob(pat, full) {
			return true
		}
	}
	return false
}

// Glob matches s against pattern with greedy backtracking: on a mismatch
// after a '*', matching resumes from the character after the last '*' with
// the candidate position advanced by one. Trailing pattern characters other
// than '*' reject.
func Glob(pattern, s string) bool {
	var pi, si int
	starPi, starSi := -1, 0

	for si < len(s) {
		switch {
		case pi < len(pattern) && (pattern[pi] == '?' || pattern[pi] == s[si]):
			pi++
			si++
		case pi < len(pattern) && pattern[pi] == '*':
			starPi = pi
			starSi = si
			pi++
		case starPi >= 0:
			pi = starPi + 1
			starSi++
			si = starSi
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
