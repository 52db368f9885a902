package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_DisabledIsNoop(t *testing.T) {
	Disable()
	assert.False(t, Enabled())
	Log("hit", "ignored %d", 1) // must not panic
}

func TestLog_WritesCategoryAndMessage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	require.NoError(t, Enable(path))
	t.Cleanup(Disable)

	Log("hit", "pad=%s", "w")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Debug logging started")
	assert.Contains(t, out, "hit")
	assert.Contains(t, out, "pad=w")
}

func TestLogEvery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, Enable(path))
	t.Cleanup(Disable)

	for i := 0; i < 10; i++ {
		LogEvery(5, "tick", "flash expired")
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "flash expired"))
}
