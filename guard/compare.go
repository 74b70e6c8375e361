package guard

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// defaultFloatEpsilon is the tolerance used by FloatEqual assertions.
const defaultFloatEpsilon = 1e-10

// objectsEqual reports deep equality, with a fast path for byte slices.
func objectsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ab, aok := a.([]byte)
	bb, bok := b.([]byte)
	if aok && bok {
		return bytes.Equal(ab, bb)
	}
	return reflect.DeepEqual(a, b)
}

// compareValues orders two values of the same kind. The second return is
// false when the values cannot be ordered (mismatched or unsupported kinds).
func compareValues(a, b any) (int, bool) {
	av := reflect.ValueOf(a)
	bv := reflect.ValueOf(b)
	if !av.IsValid() || !bv.IsValid() || av.Kind() != bv.Kind() {
		return 0, false
	}
	switch av.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return orderInt(av.Int(), bv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return orderUint(av.Uint(), bv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return orderFloat(av.Float(), bv.Float()), true
	case reflect.String:
		return strings.Compare(av.String(), bv.String()), true
	default:
		return 0, false
	}
}

func orderInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func orderUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func orderFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// floatNearlyEqual mixes relative and absolute tolerance: values are equal
// when identical, when their difference is within eps scaled by the larger
// magnitude, or when the difference is below eps outright (covers values
// near zero, where relative error degenerates).
func floatNearlyEqual(a, b, eps float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	largest := math.Max(math.Abs(a), math.Abs(b))
	return diff <= eps*largest || diff < eps
}

// isNil reports whether v is nil, including typed nils inside interfaces.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// isEmpty reports whether v is a zero-length container, nil, or a zero value.
func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Array, reflect.Chan, reflect.Map, reflect.Slice, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer:
		if rv.IsNil() {
			return true
		}
		return isEmpty(rv.Elem().Interface())
	default:
		return reflect.DeepEqual(v, reflect.Zero(rv.Type()).Interface())
	}
}

// Failure message builders. Multi-line payloads indent continuation lines so
// they nest under the printed call site.

func condMsg(want bool, extra []any) string {
	return fmt.Sprintf("Expected condition to be %v", want) + extraMsg(extra)
}

func equalMsg(expected, actual any, extra []any) string {
	msg := fmt.Sprintf("Expected values to be equal\n    expected: %v\n    actual:   %v", expected, actual)
	es, eok := expected.(string)
	as, aok := actual.(string)
	if eok && aok && (strings.Contains(es, "\n") || strings.Contains(as, "\n")) {
		msg += "\n    diff:" + lineDiff(es, as)
	}
	return msg + extraMsg(extra)
}

func notEqualMsg(v any, extra []any) string {
	return fmt.Sprintf("Expected values to differ, both were %v", v) + extraMsg(extra)
}

func orderMsg(a, b any, op string, extra []any) string {
	return fmt.Sprintf("Expected %v to be %s %v", a, op, b) + extraMsg(extra)
}

func unorderedMsg(a, b any, extra []any) string {
	return fmt.Sprintf("Values of type %T and %T cannot be ordered", a, b) + extraMsg(extra)
}

func nilMsg(v any, extra []any) string {
	return fmt.Sprintf("Expected nil, got %v", v) + extraMsg(extra)
}

func notNilMsg(extra []any) string {
	return "Expected a non-nil value" + extraMsg(extra)
}

func emptyMsg(v any, extra []any) string {
	return fmt.Sprintf("Expected empty, got %v", v) + extraMsg(extra)
}

func notEmptyMsg(extra []any) string {
	return "Expected a non-empty value" + extraMsg(extra)
}

func noErrorMsg(err error, extra []any) string {
	return fmt.Sprintf("Unexpected error: %v", err) + extraMsg(extra)
}

func errorMsg(extra []any) string {
	return "Expected an error, got nil" + extraMsg(extra)
}

func floatEqMsg(expected, actual, eps float64, extra []any) string {
	return fmt.Sprintf("Expected %g to approximately equal %g (epsilon %g)", actual, expected, eps) + extraMsg(extra)
}

func nearMsg(expected, actual, tolerance float64, extra []any) string {
	return fmt.Sprintf("Expected |%g - %g| <= %g, diff is %g",
		actual, expected, tolerance, math.Abs(actual-expected)) + extraMsg(extra)
}

// extraMsg renders the optional trailing message arguments of an assertion.
func extraMsg(extra []any) string {
	if len(extra) == 0 {
		return ""
	}
	if format, ok := extra[0].(string); ok && len(extra) > 1 {
		return "\n    message: " + fmt.Sprintf(format, extra[1:]...)
	}
	return "\n    message: " + fmt.Sprint(extra...)
}

// lineDiff renders a line-oriented diff between two multiline strings,
// prefixing removed lines with '-' and added lines with '+'.
func lineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	eChars, aChars, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(eChars, aChars, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			b.WriteString("\n    ")
			b.WriteString(prefix)
			b.WriteString(line)
		}
	}
	return b.String()
}
