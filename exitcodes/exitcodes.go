// Package exitcodes defines the standard exit codes used by ezctest.
package exitcodes

// Exit code constants reported by the process when a run finishes:
//
// * Success (0): all selected tests passed, or a non-executing mode
//   (--list_tests, --help) completed
// * TestFailure (1): one or more tests failed
// * RuntimeErr (2): operational failures such as invalid flags or an
//   unreadable config file
const (
	Success     = 0 // All tests pass
	TestFailure = 1 // Test failures
	RuntimeErr  = 2 // Runtime errors
)
