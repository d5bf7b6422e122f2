package logger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingKeepsMostRecentLines(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		_, err := fmt.Fprintf(r, "line %d\n", i)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"line 2", "line 3", "line 4"}, r.Lines())
}

func TestRingBuffersPartialWrites(t *testing.T) {
	r := NewRing(10)
	var notified [][]string
	r.SetOnChange(func(lines []string) { notified = append(notified, lines) })

	_, _ = r.Write([]byte("hel"))
	assert.Empty(t, r.Lines())
	assert.Empty(t, notified)

	_, _ = r.Write([]byte("lo\r\nwor"))
	assert.Equal(t, []string{"hello"}, r.Lines())
	require.Len(t, notified, 1)

	_, _ = r.Write([]byte("ld\n"))
	assert.Equal(t, []string{"hello", "world"}, r.Lines())
	assert.Len(t, notified, 2)
}

func TestConsoleLoggerMirrorsIntoRing(t *testing.T) {
	r := NewRing(10)
	log := NewConsoleLogger(InfoLevel, r)

	log.Debug("Test", "hidden", nil)
	log.Info("Test", "visible", map[string]interface{}{"count": 2})

	lines := r.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "visible")
	assert.Contains(t, lines[0], "count=2")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, lvl)

	lvl, err = ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, lvl)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}
