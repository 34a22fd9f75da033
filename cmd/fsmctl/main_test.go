package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const doorDoc = `
initial: Closed
transitions:
  - from: Closed
    on: Open
    to: Opened
  - from: Opened
    on: Close
    to: Closed
  - from: Closed
    on: Lock
    to: Locked
    do: ["fire:Check"]
  - from: Locked
    on: Check
    internal: true
`

func writeDoc(t *testing.T, src string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "machine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	return path
}

func execute(t *testing.T, cfg Config, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("FSMCTL_LOG_LEVEL", "debug")
	t.Setenv("FSMCTL_WORKERS", "4")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, Config{LogLevel: "debug", Workers: 4}, cfg)

	t.Setenv("FSMCTL_WORKERS", "-1")
	_, err = loadConfig()
	assert.Error(t, err)

	t.Setenv("FSMCTL_WORKERS", "many")
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	out, err := execute(t, Config{LogLevel: "info"}, "validate", writeDoc(t, doorDoc))
	require.NoError(t, err)
	assert.Contains(t, out, "3 states, 4 transitions, 1 action bindings")

	_, err = execute(t, Config{LogLevel: "info"}, "validate", writeDoc(t, "transitions: []"))
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	path := writeDoc(t, doorDoc)

	out, err := execute(t, Config{LogLevel: "warn"}, "run", path, "Open", "Close", "Lock")
	require.NoError(t, err)
	assert.Equal(t, "Open -> Opened\nClose -> Closed\nLock -> Locked\nfinal: Locked\n", out)
}

func TestRun_AsyncWithPool(t *testing.T) {
	path := writeDoc(t, doorDoc)

	out, err := execute(t, Config{LogLevel: "warn", Workers: 2}, "run", "--async", path, "Open", "Close", "Open")
	require.NoError(t, err)
	assert.Contains(t, out, "final: Opened\n")
}

func TestRun_BadLogLevel(t *testing.T) {
	_, err := execute(t, Config{LogLevel: "loud"}, "run", writeDoc(t, doorDoc), "Open")
	assert.Error(t, err)
}
