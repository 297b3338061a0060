package InputParameters

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInputParameters1D(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Case: alfven # Can be uniform, density_wave, brio_wu or alfven
NumPoints: 128
XMin: -1
XMax: 1.
Stretch: 0.5
Gamma: 1.6666667
DT: 0.001
FinalTime: 0.25
Integrator: rk3
BC: Dirichlet
SnapshotFrequency: 10
Parallel: true
`)
	input := NewInputParameters1D()
	require.NoError(t, input.Parse(fileInput))
	assert.Equal(t, "Test Case", input.Title)
	assert.Equal(t, "alfven", input.Case)
	assert.Equal(t, 128, input.N)
	assert.Equal(t, -1., input.XMin)
	assert.Equal(t, 0.5, input.Stretch)
	assert.Equal(t, 0.25, input.FinalTime)
	assert.Equal(t, 10, input.SnapshotFrequency)
	assert.True(t, input.Parallel)
	// Not in the file, keeps the default
	assert.Equal(t, 50, input.LogFrequency)
	assert.NoError(t, input.Validate())

	var buf bytes.Buffer
	input.Fprint(&buf)
	assert.Contains(t, buf.String(), "\"Test Case\"")
	assert.Contains(t, buf.String(), "= FinalTime")

	assert.Error(t, input.Parse([]byte("N: [1, 2")))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, NewInputParameters1D().Validate())
	for name, mod := range map[string]func(ip *InputParameters1D){
		"N":          func(ip *InputParameters1D) { ip.N = 1 },
		"DT":         func(ip *InputParameters1D) { ip.DT = 0 },
		"FinalTime":  func(ip *InputParameters1D) { ip.FinalTime = -1 },
		"XMax":       func(ip *InputParameters1D) { ip.XMax = ip.XMin },
		"Gamma":      func(ip *InputParameters1D) { ip.Gamma = 1 },
		"Case":       func(ip *InputParameters1D) { ip.Case = "orszag_tang" },
		"Integrator": func(ip *InputParameters1D) { ip.Integrator = "rk4" },
		"BC":         func(ip *InputParameters1D) { ip.BC = "periodic" },
	} {
		t.Run(name, func(t *testing.T) {
			ip := NewInputParameters1D()
			mod(ip)
			assert.Error(t, ip.Validate())
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte("Case: uniform\nNumPoints: 16\n"), 0o600))
	ip := NewInputParameters1D()
	require.NoError(t, ip.ReadFile(path))
	assert.Equal(t, 16, ip.N)
	assert.Equal(t, "uniform", ip.Case)
	assert.Error(t, ip.ReadFile(filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestGridSizeFromFile(t *testing.T) {
	ip := NewInputParameters1D()
	require.NoError(t, ip.Parse([]byte("NumPoints: 64\nDT: 0.001\nCase: uniform\n")))
	assert.Equal(t, 64, ip.N)
	assert.Equal(t, 0.001, ip.DT)

	// YAML 1.1 reads a bare N as the boolean false, it must not pass silently
	ip = NewInputParameters1D()
	assert.Error(t, ip.Parse([]byte("N: 64\nDT: 0.001\nCase: uniform\n")))
	// Misspelled keys are reported too
	assert.Error(t, NewInputParameters1D().Parse([]byte("FinalTme: 2\n")))
}
