package guard

// Soft assertions (Expect*) record a failure and let the test continue,
// returning false so callers can branch on the outcome. Fatal assertions
// (Require*) record the failure and unwind the test body; deferred cleanups
// and teardown still run. Every call counts toward the assertion totals.
// All assertions accept optional trailing message arguments: a format string
// plus operands, or any values to stringify.

// Expect checks that cond is true.
func (t *T) Expect(cond bool, msgAndArgs ...any) bool {
	if cond {
		return t.pass()
	}
	return t.failf(false, condMsg(true, msgAndArgs))
}

// ExpectFalse checks that cond is false.
func (t *T) ExpectFalse(cond bool, msgAndArgs ...any) bool {
	if !cond {
		return t.pass()
	}
	return t.failf(false, condMsg(false, msgAndArgs))
}

// ExpectEqual checks deep equality of expected and actual. Multiline string
// mismatches include a line diff in the failure output.
func (t *T) ExpectEqual(expected, actual any, msgAndArgs ...any) bool {
	if objectsEqual(expected, actual) {
		return t.pass()
	}
	return t.failf(false, equalMsg(expected, actual, msgAndArgs))
}

// ExpectNotEqual checks that expected and actual differ.
func (t *T) ExpectNotEqual(expected, actual any, msgAndArgs ...any) bool {
	if !objectsEqual(expected, actual) {
		return t.pass()
	}
	return t.failf(false, notEqualMsg(actual, msgAndArgs))
}

// ExpectLess checks a < b for ordered values of the same kind.
func (t *T) ExpectLess(a, b any, msgAndArgs ...any) bool {
	cmp, ok := compareValues(a, b)
	if !ok {
		return t.failf(false, unorderedMsg(a, b, msgAndArgs))
	}
	if cmp < 0 {
		return t.pass()
	}
	return t.failf(false, orderMsg(a, b, "less than", msgAndArgs))
}

// ExpectLessOrEqual checks a <= b for ordered values of the same kind.
func (t *T) ExpectLessOrEqual(a, b any, msgAndArgs ...any) bool {
	cmp, ok := compareValues(a, b)
	if !ok {
		return t.failf(false, unorderedMsg(a, b, msgAndArgs))
	}
	if cmp <= 0 {
		return t.pass()
	}
	return t.failf(false, orderMsg(a, b, "less than or equal to", msgAndArgs))
}

// ExpectGreater checks a > b for ordered values of the same kind.
func (t *T) ExpectGreater(a, b any, msgAndArgs ...any) bool {
	cmp, ok := compareValues(a, b)
	if !ok {
		return t.failf(false, unorderedMsg(a, b, msgAndArgs))
	}
	if cmp > 0 {
		return t.pass()
	}
	return t.failf(false, orderMsg(a, b, "greater than", msgAndArgs))
}

// ExpectGreaterOrEqual checks a >= b for ordered values of the same kind.
func (t *T) ExpectGreaterOrEqual(a, b any, msgAndArgs ...any) bool {
	cmp, ok := compareValues(a, b)
	if !ok {
		return t.failf(false, unorderedMsg(a, b, msgAndArgs))
	}
	if cmp >= 0 {
		return t.pass()
	}
	return t.failf(false, orderMsg(a, b, "greater than or equal to", msgAndArgs))
}

// ExpectNil checks that v is nil, including typed nils.
func (t *T) ExpectNil(v any, msgAndArgs ...any) bool {
	if isNil(v) {
		return t.pass()
	}
	return t.failf(false, nilMsg(v, msgAndArgs))
}

// ExpectNotNil checks that v is not nil.
func (t *T) ExpectNotNil(v any, msgAndArgs ...any) bool {
	if !isNil(v) {
		return t.pass()
	}
	return t.failf(false, notNilMsg(msgAndArgs))
}

// ExpectEmpty checks that v has zero length or is a zero value.
func (t *T) ExpectEmpty(v any, msgAndArgs ...any) bool {
	if isEmpty(v) {
		return t.pass()
	}
	return t.failf(false, emptyMsg(v, msgAndArgs))
}

// ExpectNotEmpty checks that v is not empty.
func (t *T) ExpectNotEmpty(v any, msgAndArgs ...any) bool {
	if !isEmpty(v) {
		return t.pass()
	}
	return t.failf(false, notEmptyMsg(msgAndArgs))
}

// ExpectNoError checks that err is nil.
func (t *T) ExpectNoError(err error, msgAndArgs ...any) bool {
	if err == nil {
		return t.pass()
	}
	return t.failf(false, noErrorMsg(err, msgAndArgs))
}

// ExpectError checks that err is non-nil.
func (t *T) ExpectError(err error, msgAndArgs ...any) bool {
	if err != nil {
		return t.pass()
	}
	return t.failf(false, errorMsg(msgAndArgs))
}

// ExpectFloatEqual checks approximate float equality with the default mixed
// relative and absolute tolerance.
func (t *T) ExpectFloatEqual(expected, actual float64, msgAndArgs ...any) bool {
	if floatNearlyEqual(expected, actual, defaultFloatEpsilon) {
		return t.pass()
	}
	return t.failf(false, floatEqMsg(expected, actual, defaultFloatEpsilon, msgAndArgs))
}

// ExpectNear checks that actual is within tolerance of expected.
func (t *T) ExpectNear(expected, actual, tolerance float64, msgAndArgs ...any) bool {
	if floatNearlyEqual(expected, actual, tolerance) {
		return t.pass()
	}
	return t.failf(false, nearMsg(expected, actual, tolerance, msgAndArgs))
}

// Require checks that cond is true and unwinds on failure.
func (t *T) Require(cond bool, msgAndArgs ...any) {
	if cond {
		t.pass()
		return
	}
	t.failf(true, condMsg(true, msgAndArgs))
}

// RequireFalse checks that cond is false and unwinds on failure.
func (t *T) RequireFalse(cond bool, msgAndArgs ...any) {
	if !cond {
		t.pass()
		return
	}
	t.failf(true, condMsg(false, msgAndArgs))
}

// RequireEqual checks deep equality and unwinds on failure.
func (t *T) RequireEqual(expected, actual any, msgAndArgs ...any) {
	if objectsEqual(expected, actual) {
		t.pass()
		return
	}
	t.failf(true, equalMsg(expected, actual, msgAndArgs))
}

// RequireNotEqual checks inequality and unwinds on failure.
func (t *T) RequireNotEqual(expected, actual any, msgAndArgs ...any) {
	if !objectsEqual(expected, actual) {
		t.pass()
		return
	}
	t.failf(true, notEqualMsg(actual, msgAndArgs))
}

// RequireLess checks a < b and unwinds on failure.
func (t *T) RequireLess(a, b any, msgAndArgs ...any) {
	cmp, ok := compareValues(a, b)
	if ok && cmp < 0 {
		t.pass()
		return
	}
	if !ok {
		t.failf(true, unorderedMsg(a, b, msgAndArgs))
		return
	}
	t.failf(true, orderMsg(a, b, "less than", msgAndArgs))
}

// RequireLessOrEqual checks a <= b and unwinds on failure.
func (t *T) RequireLessOrEqual(a, b any, msgAndArgs ...any) {
	cmp, ok := compareValues(a, b)
	if ok && cmp <= 0 {
		t.pass()
		return
	}
	if !ok {
		t.failf(true, unorderedMsg(a, b, msgAndArgs))
		return
	}
	t.failf(true, orderMsg(a, b, "less than or equal to", msgAndArgs))
}

// RequireGreater checks a > b and unwinds on failure.
func (t *T) RequireGreater(a, b any, msgAndArgs ...any) {
	cmp, ok := compareValues(a, b)
	if ok && cmp > 0 {
		t.pass()
		return
	}
	if !ok {
		t.failf(true, unorderedMsg(a, b, msgAndArgs))
		return
	}
	t.failf(true, orderMsg(a, b, "greater than", msgAndArgs))
}

// RequireGreaterOrEqual checks a >= b and unwinds on failure.
func (t *T) RequireGreaterOrEqual(a, b any, msgAndArgs ...any) {
	cmp, ok := compareValues(a, b)
	if ok && cmp >= 0 {
		t.pass()
		return
	}
	if !ok {
		t.failf(true, unorderedMsg(a, b, msgAndArgs))
		return
	}
	t.failf(true, orderMsg(a, b, "greater than or equal to", msgAndArgs))
}

// RequireNil checks that v is nil and unwinds on failure.
func (t *T) RequireNil(v any, msgAndArgs ...any) {
	if isNil(v) {
		t.pass()
		return
	}
	t.failf(true, nilMsg(v, msgAndArgs))
}

// RequireNotNil checks that v is not nil and unwinds on failure.
func (t *T) RequireNotNil(v any, msgAndArgs ...any) {
	if !isNil(v) {
		t.pass()
		return
	}
	t.failf(true, notNilMsg(msgAndArgs))
}

// RequireEmpty checks emptiness and unwinds on failure.
func (t *T) RequireEmpty(v any, msgAndArgs ...any) {
	if isEmpty(v) {
		t.pass()
		return
	}
	t.failf(true, emptyMsg(v, msgAndArgs))
}

// RequireNotEmpty checks non-emptiness and unwinds on failure.
func (t *T) RequireNotEmpty(v any, msgAndArgs ...any) {
	if !isEmpty(v) {
		t.pass()
		return
	}
	t.failf(true, notEmptyMsg(msgAndArgs))
}

// RequireNoError checks that err is nil and unwinds on failure.
func (t *T) RequireNoError(err error, msgAndArgs ...any) {
	if err == nil {
		t.pass()
		return
	}
	t.failf(true, noErrorMsg(err, msgAndArgs))
}

// RequireError checks that err is non-nil and unwinds on failure.
func (t *T) RequireError(err error, msgAndArgs ...any) {
	if err != nil {
		t.pass()
		return
	}
	t.failf(true, errorMsg(msgAndArgs))
}

// RequireFloatEqual checks approximate float equality and unwinds on failure.
func (t *T) RequireFloatEqual(expected, actual float64, msgAndArgs ...any) {
	if floatNearlyEqual(expected, actual, defaultFloatEpsilon) {
		t.pass()
		return
	}
	t.failf(true, floatEqMsg(expected, actual, defaultFloatEpsilon, msgAndArgs))
}

// RequireNear checks tolerance-bounded float equality and unwinds on failure.
func (t *T) RequireNear(expected, actual, tolerance float64, msgAndArgs ...any) {
	if floatNearlyEqual(expected, actual, tolerance) {
		t.pass()
		return
	}
	t.failf(true, nearMsg(expected, actual, tolerance, msgAndArgs))
}
