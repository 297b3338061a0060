package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/model_problems/MHD1D"
	"github.com/notargets/gomhd/store"
)

func TestProcessInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	fileInput := []byte(`
Title: Test Case
Case: density_wave
NumPoints: 64
DT: 0.001
FinalTime: 0.01
Integrator: euler
`)
	require.NoError(t, os.WriteFile(path, fileInput, 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("n", 400, "")
	flags.String("bc", "neuman", "")
	require.NoError(t, flags.Parse([]string{"--bc", "dirichlet"}))

	ip, err := processInput(path, flags)
	require.NoError(t, err)
	// From the file, the unset flag does not override it
	assert.Equal(t, 64, ip.N)
	assert.Equal(t, "euler", ip.Integrator)
	// From the command line
	assert.Equal(t, "dirichlet", ip.BC)

	require.NoError(t, flags.Parse([]string{"--n", "1"}))
	_, err = processInput(path, flags)
	assert.Error(t, err)

	_, err = processInput(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func smallInput() *InputParameters.InputParameters1D {
	ip := InputParameters.NewInputParameters1D()
	ip.Case = "brio_wu"
	ip.N = 41
	ip.DT = 1.e-3
	ip.FinalTime = 0.01
	ip.SnapshotFrequency = 5
	return ip
}

func TestNewSolver1D(t *testing.T) {
	ip := smallInput()
	ip.Stretch = -0.5
	ip.Parallel = true
	c, err := NewSolver1D(ip)
	require.NoError(t, err)
	assert.Equal(t, 41, c.Grid.Len())
	assert.Equal(t, MHD1D.SSP_RK3, c.Integrator)
	assert.True(t, c.Parallel)
	assert.Equal(t, 5, c.SnapshotFrequency)

	ip.Case = "unknown"
	_, err = NewSolver1D(ip)
	assert.Error(t, err)
}

func TestRun1D(t *testing.T) {
	var (
		ctx    = context.Background()
		dbFile = filepath.Join(t.TempDir(), "runs.db")
		out    bytes.Buffer
	)
	m1d := &Model1D{IP: smallInput(), DBFile: dbFile, Graph: true, GraphField: "by"}
	require.NoError(t, Run1D(ctx, m1d, zap.NewNop(), &out))
	assert.Contains(t, out.String(), "by at t =")

	db, err := store.Open(dbFile)
	require.NoError(t, err)
	runs, err := db.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "brio_wu", runs[0].Case)
	assert.Equal(t, "SSP_RK3", runs[0].Integrator)
	steps, err := db.ListSteps(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 5, 10}, steps)
	require.NoError(t, db.Close())

	// Show lists, then plots
	{
		out.Reset()
		require.NoError(t, Show(ctx, ShowOptions{DBFile: dbFile, Step: -1}, &out))
		assert.True(t, strings.HasPrefix(out.String(), "[1]"))
		out.Reset()
		require.NoError(t, Show(ctx, ShowOptions{DBFile: dbFile, RunID: 1, Step: -1}, &out))
		assert.Contains(t, out.String(), "[0 5 10]")
		out.Reset()
		require.NoError(t, Show(ctx, ShowOptions{DBFile: dbFile, RunID: 1, Step: 10, Field: "rho"}, &out))
		assert.Contains(t, out.String(), "rho at t =")
		assert.Error(t, Show(ctx, ShowOptions{DBFile: dbFile, RunID: 1, Step: 3, Field: "rho"}, &out))
		assert.Error(t, Show(ctx, ShowOptions{DBFile: dbFile, RunID: 8, Step: -1}, &out))
	}

	// Bad plot field is reported after the run
	m1d = &Model1D{IP: smallInput(), Graph: true, GraphField: "temperature"}
	assert.Error(t, Run1D(ctx, m1d, zap.NewNop(), io.Discard))
}

func TestServeMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := MHD1D.NewMetrics(reg)
	require.NoError(t, err)
	m.Steps.Add(3)
	addr, shutdown, err := serveMetrics("127.0.0.1:0", reg, zap.NewNop())
	require.NoError(t, err)
	defer shutdown()

	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "gomhd_steps_total 3")
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger(true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))
	l, err = newLogger(false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.DebugLevel))
}
