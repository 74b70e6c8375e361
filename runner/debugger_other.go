//go:build !linux

package runner

// UnderDebugger always reports false where no tracer probe exists; isolation
// stays on.
func UnderDebugger() bool {
	return false
}
