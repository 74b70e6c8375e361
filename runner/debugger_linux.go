//go:build linux

package runner

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"
)

// UnderDebugger reports whether a tracer is attached to this process, read
// from the TracerPid field of /proc/self/status.
func UnderDebugger() bool {
	data, err := os.ReadFile("/proc/self/status")
	if err != nil {
		return false
	}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		pid, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "TracerPid:")))
		return err == nil && pid != 0
	}
	return false
}
