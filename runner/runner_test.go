package runner

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPredicates(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		passed   bool
		failed   bool
		abnormal bool
	}{
		{"pass", Status{ExitCode: 0}, true, false, false},
		{"fail", Status{ExitCode: 1}, false, true, false},
		{"signal", Status{ExitCode: 139}, false, false, true},
		{"spawn error", Status{ExitCode: -1, SpawnErr: io.ErrClosedPipe}, false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.passed, tc.status.Passed())
			assert.Equal(t, tc.failed, tc.status.Failed())
			assert.Equal(t, tc.abnormal, tc.status.Abnormal())
		})
	}
}

func TestBuildArgs(t *testing.T) {
	r := &Runner{exe: "/bin/true", filter: "Math.*", color: true}
	assert.Equal(t, []string{"--worker=3", "--filter=Math.*", "--color=yes"}, r.buildArgs(3))

	r = &Runner{exe: "/bin/true", color: false}
	assert.Equal(t, []string{"--worker=0", "--color=no"}, r.buildArgs(0))
}

func TestRunIsolatedSpawnFailure(t *testing.T) {
	r := &Runner{exe: "/nonexistent/ezctest-binary", stdout: io.Discard, stderr: io.Discard}

	status := r.RunIsolated(context.Background(), 0, nil)
	require.Error(t, status.SpawnErr)
	assert.False(t, status.Passed())
	assert.False(t, status.Abnormal())
}

func TestRunIsolatedTeesChildOutput(t *testing.T) {
	// echo prints its arguments, so the child's stdout is exactly the
	// worker argv this runner builds.
	var live, captured bytes.Buffer
	r := &Runner{exe: "echo", stdout: &live, stderr: io.Discard}

	status := r.RunIsolated(context.Background(), 4, &captured)
	require.NoError(t, status.SpawnErr)
	assert.True(t, status.Passed())
	assert.Equal(t, "--worker=4 --color=no\n", live.String())
	assert.Equal(t, live.String(), captured.String())
}

func TestNewResolvesExecutable(t *testing.T) {
	r, err := New("X.*", false, io.Discard)
	require.NoError(t, err)
	assert.NotEmpty(t, r.exe)
	assert.Equal(t, "X.*", r.filter)
}
