package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWaveformFile = `
station: ASAR
channel: SHZ
startTime: 1000
sampleRateHz: 10
samples: [0, 1, 2, 3, 2, 1, 0, -1, -2, -1]
detections:
  - arrivalTime: 1000
    pickTime: 1000.3
    phase: P
  - arrivalTime: 1000.5
    phase: S
`

func TestRun(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := t.TempDir()
	path := filepath.Join(dir, "asar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testWaveformFile), 0o600))

	config := NewConfig()
	config.Storage.DataDirectory = dir
	config.Workers = 2

	var out bytes.Buffer
	require.NoError(t, Run(ctx, config, logger, Options{
		Imports: []string{path},
		List:    true,
		Output:  &out,
	}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "ASAR")
	assert.Contains(t, lines[1], "SHZ")
	assert.FileExists(t, filepath.Join(dir, defaultDatabase))

	// nothing left to measure, the listing stays the same
	out.Reset()
	require.NoError(t, Run(ctx, config, logger, Options{List: true, Output: &out}))
	assert.Len(t, strings.Split(strings.TrimSpace(out.String()), "\n"), 3)
}

func TestRun_InvalidStorage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	config := NewConfig()
	config.Storage.DataDirectory = filepath.Join(t.TempDir(), "missing")

	assert.Error(t, Run(context.Background(), config, logger, Options{}))
}

func TestRun_InvalidImport(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("station: ASAR\n"), 0o600))

	config := NewConfig()
	config.Storage.DataDirectory = dir

	assert.Error(t, Run(context.Background(), config, logger, Options{Imports: []string{path}}))
}
