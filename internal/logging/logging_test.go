package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForVerbosity(t *testing.T) {
	assert.Equal(t, "info", LevelForVerbosity(0))
	assert.Equal(t, "debug", LevelForVerbosity(1))
	assert.Equal(t, "trace", LevelForVerbosity(2))
	assert.Equal(t, "trace", LevelForVerbosity(5))
}

func TestApplyLevel(t *testing.T) {
	original := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(original) })

	applyLevel("debug")
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	applyLevel("trace")
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
	applyLevel("bogus")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestApplyOutputs_WritesFile(t *testing.T) {
	original := log.Logger
	t.Cleanup(func() { log.Logger = original })

	path := filepath.Join(t.TempDir(), "logs", "wbnkit.log")
	var console bytes.Buffer
	applyOutputs(&console, Options{FilePath: path, MaxSizeMB: 1})

	log.Info().Str("table", "users").Msg("hello")

	assert.Contains(t, console.String(), "hello")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "table=users")
}

func TestFilePathFor(t *testing.T) {
	assert.Equal(t, DefaultLogFilePath, FilePathFor(""))

	got := FilePathFor("/etc/wbnkit/wbnkit.yaml")
	assert.Equal(t, filepath.Join("/etc/wbnkit", DefaultLogFilePath), got)
}
