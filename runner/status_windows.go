//go:build !unix

package runner

import (
	"fmt"
	"os"
)

func decodeExitCode(ps *os.ProcessState) int {
	return ps.ExitCode()
}

// reasonForExit decodes the NTSTATUS-style exception codes a crashing
// Windows child reports through its exit code.
func reasonForExit(code int) string {
	switch uint32(code) {
	case 0xC0000005:
		return "Access Violation (EXCEPTION_ACCESS_VIOLATION)"
	case 0xC0000094:
		return "Integer Division by Zero (EXCEPTION_INT_DIVIDE_BY_ZERO)"
	case 0xC000008C:
		return "Array Bounds Exceeded (EXCEPTION_ARRAY_BOUNDS_EXCEEDED)"
	case 0xC00000FD:
		return "Stack Overflow (EXCEPTION_STACK_OVERFLOW)"
	case 0xC000001D:
		return "Illegal Instruction (EXCEPTION_ILLEGAL_INSTRUCTION)"
	case 3:
		return "Assertion failed (abort() called)"
	}
	if u := uint32(code); u >= 0xC0000000 && u <= 0xDFFFFFFF {
		return fmt.Sprintf("Windows Exception (0x%08X)", u)
	}
	return "Unknown"
}
