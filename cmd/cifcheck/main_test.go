package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	// Keep logs off stdout so only command output is captured.
	full := append([]string{"cifcheck", "--log-output", "stderr", "--env-file", filepath.Join(t.TempDir(), ".env")}, args...)
	err := run(full, &out)
	return out.String(), err
}

func exitCode(err error) int {
	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func TestValidateCommand(t *testing.T) {
	out, err := runCLI(t, "validate", "A58818501", "q5881850a")
	require.NoError(t, err)
	assert.Equal(t, "A58818501: valid\nq5881850a: valid\n", out)

	out, err = runCLI(t, "validate", "A58818501", "B12345678")
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, out, "B12345678: invalid")

	_, err = runCLI(t, "validate")
	assert.Equal(t, 2, exitCode(err))
}

func TestCompleteCommand(t *testing.T) {
	out, err := runCLI(t, "complete", "P1234567")
	require.NoError(t, err)
	assert.Equal(t, "P1234567D\n", out)

	_, err = runCLI(t, "complete", "P12")
	assert.Equal(t, 1, exitCode(err))
}

func TestLoadCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "acme.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"cif":"A58818501","phone":"600000000","enterprise_name":"Acme"}`), 0o644))

	out, err := runCLI(t, "load", good)
	require.NoError(t, err)

	var rec map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, map[string]string{"cif": "A58818501", "phone": "600000000", "enterprise_name": "Acme"}, rec)

	_, err = runCLI(t, "load", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))
	assert.Contains(t, err.Error(), "wrong file or file path")
}

func TestServeCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("CIFCHECK_API_KEY", "")

	_, err := runCLI(t, "serve", "--db", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestReportError_SurvivesFileLogging(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "cifcheck.log")

	var out bytes.Buffer
	err := run([]string{"cifcheck", "--log-output", logFile, "--env-file", filepath.Join(t.TempDir(), ".env"),
		"validate", "B12345678"}, &out)
	require.Error(t, err)

	var stderr bytes.Buffer
	code := reportError(&stderr, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "cifcheck: one or more CIFs are invalid\n", stderr.String())
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{name: "no error", err: nil, wantCode: 0, wantOut: ""},
		{name: "plain error", err: errors.New("boom"), wantCode: 1, wantOut: "cifcheck: boom\n"},
		{name: "exit coder", err: cli.Exit("usage: cifcheck load <file>", 2), wantCode: 2, wantOut: "cifcheck: usage: cifcheck load <file>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, reportError(&buf, tt.err))
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}
