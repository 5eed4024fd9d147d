package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"crustsim/crust"
	"crustsim/simulation"
)

type Settings struct {
	Simulation SimulationSettings    `json:"simulation"`
	Seed       simulation.SeedParams `json:"seed"`
	Constants  crust.Constants       `json:"constants"`
	Server     ServerSettings        `json:"server"`
}

type SimulationSettings struct {
	IcosphereLevel int     `json:"icosphereLevel"`
	Steps          int     `json:"steps"`
	Timestep       float64 `json:"timestep"` // million years
	SeaLevel       float64 `json:"seaLevel"` // meters above the displacement datum
	Comment        string  `json:"comment"`
}

type ServerSettings struct {
	Port             int `json:"port"`
	UpdateIntervalMs int `json:"updateIntervalMs"`
}

// Default returns the settings used when no file is present.
func Default() Settings {
	return Settings{
		Simulation: SimulationSettings{
			IcosphereLevel: 5,
			Steps:          100,
			Timestep:       1,
			SeaLevel:       3000,
		},
		Seed:      simulation.DefaultSeedParams(),
		Constants: crust.DefaultConstants(),
		Server: ServerSettings{
			Port:             8080,
			UpdateIntervalMs: 100,
		},
	}
}

// Load reads settings from path on top of the defaults. Fields missing from
// the file keep their default value. A missing file is not an error.
func Load(path string) (Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	settings, err := Decode(file)
	if err != nil {
		return Settings{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return settings, nil
}

// Decode parses JSON settings from r on top of the defaults and validates
// the result.
func Decode(r io.Reader) (Settings, error) {
	settings := Default()
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return Settings{}, err
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate rejects settings the simulation cannot run with.
func (s Settings) Validate() error {
	var errs []error
	if s.Simulation.IcosphereLevel < 0 || s.Simulation.IcosphereLevel > 8 {
		errs = append(errs, fmt.Errorf("icosphereLevel %d out of range [0, 8]", s.Simulation.IcosphereLevel))
	}
	if s.Simulation.Timestep <= 0 {
		errs = append(errs, fmt.Errorf("timestep must be positive, got %g", s.Simulation.Timestep))
	}
	if s.Simulation.Steps < 0 {
		errs = append(errs, fmt.Errorf("steps must not be negative, got %d", s.Simulation.Steps))
	}
	if s.Constants.MantleDensity <= 0 {
		errs = append(errs, fmt.Errorf("mantleDensity must be positive, got %g", s.Constants.MantleDensity))
	}
	if s.Constants.ReferenceGravity == 0 {
		errs = append(errs, errors.New("referenceGravity must not be zero"))
	}
	if s.Constants.MaturationAge <= 0 {
		errs = append(errs, fmt.Errorf("maturationAge must be positive, got %g", s.Constants.MaturationAge))
	}
	if s.Server.UpdateIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("updateIntervalMs must be positive, got %d", s.Server.UpdateIntervalMs))
	}
	if s.Seed.MinContinentSize > s.Seed.MaxContinentSize {
		errs = append(errs, fmt.Errorf("minContinentSize %g exceeds maxContinentSize %g",
			s.Seed.MinContinentSize, s.Seed.MaxContinentSize))
	}
	return errors.Join(errs...)
}

// ApproximateVertexCount is the number of cells of an icosphere of the
// given level.
func ApproximateVertexCount(level int) int {
	// Icosphere vertex count formula: 10 * 4^level + 2
	count := 10
	for i := 0; i < level; i++ {
		count *= 4
	}
	return count + 2
}
