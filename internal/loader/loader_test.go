package loader_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/enetx/fsm/v2/internal/loader"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const atm = `
initial: Idle
transitions:
  - from: Idle
    on: Connected
    to: Loading
  - from: Loading
    on: LoadSuccess
    to: InService
  - from: InService
    on: Shutdown
    to: OutOfService
  - from: OutOfService
    on: Startup
    to: InService
  - from: "*"
    on: ConnectionLost
    to: Disconnected
  - from: Disconnected
    on: ConnectionRestored
    to: InService
  - from: Idle
    on: Ping
    internal: true
    do: ["log"]
actions:
  - from: Idle
    to: Loading
    via: Connected
    do: ["fire:LoadSuccess"]
`

func TestParse_Valid(t *testing.T) {
	doc, err := loader.Parse([]byte(atm))
	require.NoError(t, err)

	assert.Equal(t, "Idle", doc.Initial)
	assert.Len(t, doc.Transitions, 7)
	assert.Equal(t,
		[]string{"Idle", "Loading", "InService", "OutOfService", "Disconnected"},
		[]string(doc.States()),
	)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"missing initial":  "transitions: []",
		"unknown field":    "initial: A\nbogus: 1",
		"missing target":   "initial: A\ntransitions:\n  - from: A\n    on: x",
		"internal target":  "initial: A\ntransitions:\n  - from: A\n    on: x\n    to: B\n    internal: true",
		"unknown tier":     "initial: A\nactions:\n  - tier: middle\n    do: [log]",
		"unknown verb":     "initial: A\nactions:\n  - do: [explode]",
		"fire needs event": "initial: A\nactions:\n  - do: [\"fire:\"]",
		"empty do":         "initial: A\nactions:\n  - from: A",
	}

	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := loader.Parse([]byte(src))
			assert.ErrorIs(t, err, loader.ErrInvalidDocument)
		})
	}
}

func TestBuilder_RunsDocument(t *testing.T) {
	doc, err := loader.Parse([]byte(atm))
	require.NoError(t, err)

	m := doc.Builder(zerolog.Nop()).Build(doc.Initial)

	state, err := m.FireEventBlocking("Connected")
	require.NoError(t, err)
	assert.Equal(t, "InService", state, "fire:LoadSuccess completes within the submission")

	state, err = m.FireEventBlocking("ConnectionLost")
	require.NoError(t, err)
	assert.Equal(t, "Disconnected", state)

	state, err = m.FireEventBlocking("Unknown")
	require.NoError(t, err)
	assert.Equal(t, "Disconnected", state)
}

func TestBuilder_LogVerb(t *testing.T) {
	doc, err := loader.Parse([]byte(atm))
	require.NoError(t, err)

	var buf bytes.Buffer
	m := doc.Builder(zerolog.New(&buf)).Build(doc.Initial)

	state, err := m.FireEventBlocking("Ping")
	require.NoError(t, err)
	assert.Equal(t, "Idle", state)
	assert.Contains(t, buf.String(), `"event":"Ping"`)
	assert.Contains(t, buf.String(), `"from":"Idle"`)
	assert.Contains(t, buf.String(), `"to":"Idle"`)
}

func TestBuilder_ShelveAndUnshelve(t *testing.T) {
	src := `
initial: S1
transitions:
  - from: S1
    on: E1
    to: S2
    do: ["unshelve"]
  - from: S2
    on: E2
    to: S3
actions:
  - from: S1
    to: S1
    via: E2
    tier: first
    do: ["shelve"]
`
	doc, err := loader.Parse([]byte(src))
	require.NoError(t, err)

	m := doc.Builder(zerolog.Nop()).Build(doc.Initial)

	f2 := m.FireEvent("E2")
	f1 := m.FireEvent("E1")

	_, err = f2.Wait()
	require.NoError(t, err)

	state, err := f1.Wait()
	require.NoError(t, err)
	assert.Equal(t, "S3", state)
	assert.Zero(t, m.Shelved())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atm.yaml")
	require.NoError(t, os.WriteFile(path, []byte(atm), 0o600))

	doc, err := loader.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Idle", doc.Initial)

	_, err = loader.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
