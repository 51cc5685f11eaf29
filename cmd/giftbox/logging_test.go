package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogging_DisabledByDefault(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logFile, err := setupLogging(false, dir)
	require.NoError(t, err)
	assert.Nil(t, logFile, "no file when debug is off")

	assert.Equal(t, zerolog.Disabled, zerolog.GlobalLevel())
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr), "log dir is not created")
}

func TestSetupLogging_EnabledWithDebug(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logFile, err := setupLogging(true, dir)
	require.NoError(t, err)
	require.NotNil(t, logFile)
	defer logFile.Close()

	log.Info().Str("stage", "locked").Msg("test log message")

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "test log message")
	assert.Contains(t, string(data), `"stage":"locked"`)
}

func TestSetupLogging_Rotation(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, logFileName)

	// Write just over the rotation threshold
	require.NoError(t, os.WriteFile(logPath, make([]byte, maxLogSize+1), 0644))

	logFile, err := setupLogging(true, dir)
	require.NoError(t, err)
	defer logFile.Close()

	old, err := os.Stat(logPath + ".old")
	require.NoError(t, err, "large log is rotated")
	assert.Equal(t, int64(maxLogSize+1), old.Size())

	fresh, err := os.Stat(logPath)
	require.NoError(t, err)
	assert.Less(t, fresh.Size(), int64(maxLogSize))
}

func TestSetupLogging_SmallFileNotRotated(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, logFileName)
	require.NoError(t, os.WriteFile(logPath, []byte("previous\n"), 0644))

	logFile, err := setupLogging(true, dir)
	require.NoError(t, err)
	defer logFile.Close()

	_, err = os.Stat(logPath + ".old")
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "previous")
}
