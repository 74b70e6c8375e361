package registry

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/stefwlc/ezctest/guard"
)

var testArgType = reflect.TypeOf((*guard.T)(nil))

// ScanSuite discovers tests on a suite struct by reflection. s must be a
// non-nil pointer to a struct; the suite name is the struct type's name.
// Exported methods named Test* with signature func(*guard.T) become entries,
// and SetUp()/TearDown() methods become the suite fixture. Methods that look
// like tests but have the wrong signature are skipped with a debug log.
// Scanning the same suite twice is an error: the registry already holds its
// (suite, name) pairs.
func (r *Registry) ScanSuite(s any) error {
	if s == nil {
		return fmt.Errorf("suite scan requires a pointer to a suite struct, got nil")
	}
	rv := reflect.ValueOf(s)
	rt := rv.Type()
	if rt.Kind() != reflect.Pointer || rv.IsNil() || rt.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("suite scan requires a non-nil pointer to a struct, got %T", s)
	}
	suite := rt.Elem().Name()

	registered := 0
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		switch {
		case m.Name == "SetUp" && isHook(m.Type):
			fn := m.Func
			if err := r.RegisterSetUp(suite, func() {
				fn.Call([]reflect.Value{rv})
			}); err != nil {
				return err
			}
		case m.Name == "TearDown" && isHook(m.Type):
			fn := m.Func
			if err := r.RegisterTearDown(suite, func() {
				fn.Call([]reflect.Value{rv})
			}); err != nil {
				return err
			}
		case strings.HasPrefix(m.Name, "Test"):
			if !isTest(m.Type) {
				log.Debug("Skipping method with non-test signature", "suite", suite, "method", m.Name)
				continue
			}
			if r.Has(suite, m.Name) {
				return fmt.Errorf("suite %s already scanned: test %s.%s is registered", suite, suite, m.Name)
			}
			fn := m.Func
			if err := r.Register(suite, m.Name, func(t *guard.T) {
				fn.Call([]reflect.Value{rv, reflect.ValueOf(t)})
			}); err != nil {
				return err
			}
			registered++
		}
	}

	if registered == 0 {
		return fmt.Errorf("suite %s has no methods with signature func(*guard.T) named Test*", suite)
	}
	return nil
}

// isTest matches func(receiver, *guard.T) with no results.
func isTest(t reflect.Type) bool {
	return t.NumIn() == 2 && t.In(1) == testArgType && t.NumOut() == 0
}

// isHook matches func(receiver) with no results.
func isHook(t reflect.Type) bool {
	return t.NumIn() == 1 && t.NumOut() == 0
}
