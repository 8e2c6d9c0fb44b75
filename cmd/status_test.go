package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"launchpad/internal/startup"
)

func sampleStatus() startup.Status {
	return startup.Status{
		RunID:     "run-1",
		Phase:     startup.PhaseBackendWait,
		Message:   "Waiting for backend on port 3001...",
		ElapsedMS: 2500,
		Logs:      []string{"[0.0s] Starting up...", "[2.5s] Waiting for backend on port 3001..."},
		Version:   7,
	}
}

func TestWriteStatus_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatus(&buf, sampleStatus(), "json"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "backend_wait", decoded["phase"])
	assert.Equal(t, "run-1", decoded["run_id"])
	assert.EqualValues(t, 2500, decoded["elapsed_ms"])
}

func TestWriteStatus_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatus(&buf, sampleStatus(), "yaml"))

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "backend_wait", decoded["phase"])
	assert.Len(t, decoded["logs"], 2)
}

func TestWriteStatus_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeStatus(&buf, sampleStatus(), "table"))

	out := buf.String()
	assert.Contains(t, out, "backend_wait")
	assert.Contains(t, out, "Waiting for backend on port 3001...")
	assert.Contains(t, out, "2.5s")
	assert.Contains(t, out, "[0.0s] Starting up...")
}

func TestWriteStatus_UnknownFormat(t *testing.T) {
	err := writeStatus(&bytes.Buffer{}, sampleStatus(), "xml")
	assert.EqualError(t, err, "unsupported output format: xml")
}
