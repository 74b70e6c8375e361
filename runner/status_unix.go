//go:build unix

package runner

import (
	"fmt"
	"os"
	"syscall"
)

// decodeExitCode folds signal deaths into the shell convention so the parent
// can distinguish crashes from orderly failures.
func decodeExitCode(ps *os.ProcessState) int {
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ps.ExitCode()
}

func reasonForExit(code int) string {
	if code >= 128 && code < 256 {
		sig := code - 128
		return fmt.Sprintf("Terminated by signal %d (%s)", sig, signalName(syscall.Signal(sig)))
	}
	return "Unknown"
}

func signalName(sig syscall.Signal) string {
	switch sig {
	case syscall.SIGSEGV:
		return "SIGSEGV - Segmentation fault"
	case syscall.SIGABRT:
		return "SIGABRT - Aborted"
	case syscall.SIGFPE:
		return "SIGFPE - Floating point exception"
	case syscall.SIGILL:
		return "SIGILL - Illegal instruction"
	case syscall.SIGBUS:
		return "SIGBUS - Bus error"
	default:
		return "Unknown signal"
	}
}
