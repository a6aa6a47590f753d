// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()

	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "r.csv")
	out, err := execute(t, "run", "--n", "12", "--procs", "3", "--timeout", "10s", "--csv", csvPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "matrix_size")

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	recs, err := bench.ReadCSV(f)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 12, recs[0].MatrixSize)
	assert.Equal(t, 3, recs[0].ProcessCount)
}

func TestRunCommand_BadFlags(t *testing.T) {
	_, err := execute(t, "run", "--n", "0")
	require.Error(t, err)
	_, err = execute(t, "run", "--kernel", "strassen")
	require.Error(t, err)
	_, err = execute(t, "run", "--n", "2", "--log-format", "xml")
	require.Error(t, err)
}

func TestSweepCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sweep.yaml")
	outPath := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(cfgPath, []byte("sizes: [4, 5]\nprocesses: [1, 2]\ntimeout: 10s\n"), 0o600))

	out, err := execute(t, "sweep", "-c", cfgPath, "-o", outPath, "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "strong scaling")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 5)
}

func TestConfigCommand(t *testing.T) {
	out, err := execute(t, "config", "--format", "toml")
	require.NoError(t, err)
	cfg, err := config.Parse([]byte(out), ".toml")
	require.NoError(t, err)
	assert.Equal(t, config.Default().Sizes, cfg.Sizes)
}

func TestWorkerCommand_RequiresURL(t *testing.T) {
	_, err := execute(t, "worker")
	require.Error(t, err)
}

func TestEnvInt(t *testing.T) {
	t.Setenv(envRank, "3")
	assert.Equal(t, 3, envInt(envRank, 1))
	t.Setenv(envRank, "x")
	assert.Equal(t, 1, envInt(envRank, 1))
	assert.Equal(t, 7, envInt("DISTMM_UNSET_FOR_TEST", 7))
}

func TestProcessRunner_Template(t *testing.T) {
	r, err := newProcessRunner(`'/opt/my bin/distmm' worker --log-level debug`, "127.0.0.1:0", []string{"--kernel", "naive"}, nil, nil, nil)
	require.NoError(t, err)
	c := r.workerCmd("ws://h:1/distmm", 2, 4, 9)
	assert.Equal(t, "/opt/my bin/distmm", c.Path)
	assert.Equal(t, []string{
		"/opt/my bin/distmm", "worker", "--log-level", "debug",
		"--url", "ws://h:1/distmm", "--rank", "2", "--size", "4", "--n", "9",
		"--kernel", "naive",
	}, c.Args)
	assert.Contains(t, c.Env, envRank+"=2")
	assert.Contains(t, c.Env, envSize+"=4")

	_, err = newProcessRunner("", "", nil, nil, nil, nil)
	require.Error(t, err)
	_, err = newProcessRunner(`"unterminated`, "", nil, nil, nil, nil)
	require.Error(t, err)
}

func TestShellQuote(t *testing.T) {
	assert.Equal(t, `'/a b/c'`, shellQuote("/a b/c"))
	assert.Equal(t, `'it'\''s'`, shellQuote("it's"))
}
