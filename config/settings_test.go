package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crustsim/crust"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
	assert.NoError(t, settings.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
		"simulation": {"icosphereLevel": 3, "timestep": 0.5},
		"constants": {"precipitation": 1000},
		"seed": {"seed": 7}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, settings.Simulation.IcosphereLevel)
	assert.Equal(t, 0.5, settings.Simulation.Timestep)
	assert.Equal(t, Default().Simulation.Steps, settings.Simulation.Steps)

	assert.Equal(t, 1000.0, settings.Constants.Precipitation)
	assert.Equal(t, crust.DefaultConstants().ErosiveFactor, settings.Constants.ErosiveFactor)

	assert.Equal(t, int64(7), settings.Seed.Seed)
	assert.Equal(t, Default().Seed.ContinentCount, settings.Seed.ContinentCount)
}

func TestLoadWrapsErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty object", `{}`, ""},
		{"unknown field", `{"simulation": {"level": 2}}`, "unknown field"},
		{"negative timestep", `{"simulation": {"timestep": -1}}`, "timestep"},
		{"level too high", `{"simulation": {"icosphereLevel": 12}}`, "icosphereLevel"},
		{"zero mantle density", `{"constants": {"mantleDensity": 0}}`, "mantleDensity"},
		{"zero update interval", `{"server": {"updateIntervalMs": 0}}`, "updateIntervalMs"},
		{"continent sizes swapped", `{"seed": {"minContinentSize": 0.5, "maxContinentSize": 0.1}}`, "minContinentSize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	s := Default()
	s.Simulation.Timestep = 0
	s.Simulation.Steps = -1

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timestep")
	assert.Contains(t, err.Error(), "steps")
}

func TestApproximateVertexCount(t *testing.T) {
	assert.Equal(t, 12, ApproximateVertexCount(0))
	assert.Equal(t, 42, ApproximateVertexCount(1))
	assert.Equal(t, 10242, ApproximateVertexCount(5))
}
