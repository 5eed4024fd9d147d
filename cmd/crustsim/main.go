package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"crustsim/config"
	"crustsim/core"
	"crustsim/simulation"
)

func main() {
	var (
		configPath = flag.String("config", "settings.json", "Settings file")
		level      = flag.Int("level", -1, "Icosphere subdivision level (overrides settings)")
		steps      = flag.Int("steps", -1, "Number of timesteps to run (overrides settings)")
		timestep   = flag.Float64("timestep", 0, "Timestep in million years (overrides settings)")
		serve      = flag.Bool("serve", false, "Stream the simulation to websocket clients")
		port       = flag.Int("port", 0, "Server port (overrides settings)")
		verbose    = flag.Bool("v", false, "Log every step")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load settings", "error", err)
		os.Exit(1)
	}
	if *level >= 0 {
		settings.Simulation.IcosphereLevel = *level
	}
	if *steps >= 0 {
		settings.Simulation.Steps = *steps
	}
	if *timestep > 0 {
		settings.Simulation.Timestep = *timestep
	}
	if *port > 0 {
		settings.Server.Port = *port
	}
	if err := settings.Validate(); err != nil {
		logger.Error("invalid settings", "error", err)
		os.Exit(1)
	}

	logger.Info("building world",
		"level", settings.Simulation.IcosphereLevel,
		"cells", config.ApproximateVertexCount(settings.Simulation.IcosphereLevel),
		"seed", settings.Seed.Seed,
		"continents", settings.Seed.ContinentCount)

	world := newWorld(settings, logger)

	if *serve {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		srv := newServer(world, settings, logger)
		if err := srv.run(ctx); err != nil {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
		return
	}

	start := world.Crust.Mass()
	report := world.Run(settings.Simulation.Steps, settings.Simulation.Timestep)
	logger.Info("mass budget",
		"initial", start,
		"final", report.Mass,
		"relativeDrift", (report.Mass-start)/start)
}

func newWorld(settings config.Settings, logger *slog.Logger) *simulation.World {
	g := core.Icosphere(settings.Simulation.IcosphereLevel)
	c := simulation.SeedCrust(g, settings.Seed, settings.Constants)
	return simulation.NewWorld(c, settings.Constants, settings.Simulation.SeaLevel, logger)
}
