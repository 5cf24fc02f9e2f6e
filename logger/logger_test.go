package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildbot/interfaces"
)

var _ interfaces.Logger = (*Logger)(nil)

func readLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	log := New(Options{File: path, MaxSizeMB: 1})

	log.Debug("hidden")
	log.Info("started", "version", "1.0.0")
	log.With("command", "rules").Warn("slow")
	require.NoError(t, log.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	assert.Equal(t, "started", lines[0]["msg"])
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "1.0.0", lines[0]["version"])
	assert.Contains(t, lines[0], "source")
	assert.Equal(t, "rules", lines[1]["command"])
	assert.Equal(t, "WARN", lines[1]["level"])
}

func TestDebugLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	log := New(Options{File: path, Debug: true})
	log.Debug("visible")
	require.NoError(t, log.Close())

	lines := readLines(t, path)
	require.Len(t, lines, 1)
	assert.Equal(t, "DEBUG", lines[0]["level"])
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("nothing")
	assert.NoError(t, log.Close())
}
