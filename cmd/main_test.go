package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_ExitCodes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "case")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	input := `{"symbol":"EURUSD","timeframe":"M1","timestamp":1700000000,"open":1.1,"close":1.095,"volume":10}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden_input.json"), []byte(input), 0o644))

	assert.Equal(t, 2, run(nil))
	assert.Equal(t, 2, run([]string{"--bless"}))
	assert.Equal(t, 2, run([]string{"--hash", "md5", dir}))
	assert.Equal(t, 3, run([]string{filepath.Join(t.TempDir(), "missing")}))

	assert.Equal(t, 0, run([]string{"--bless", dir}))
	assert.Equal(t, 0, run([]string{dir}))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "expected_audit.json"), []byte("{}"), 0o644))
	assert.Equal(t, 1, run([]string{dir}))

	assert.Equal(t, 0, run([]string{"--journal", filepath.Join(t.TempDir(), "wal"), "--bless", dir}))
}
