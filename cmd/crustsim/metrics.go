package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"crustsim/simulation"
)

type metrics struct {
	steps     prometheus.Counter
	stepTime  prometheus.Histogram
	modelTime prometheus.Gauge
	mass      prometheus.Gauge
	drift     prometheus.Gauge
	plates    prometheus.Gauge
	clients   prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		steps: f.NewCounter(prometheus.CounterOpts{
			Name: "crustsim_steps_total",
			Help: "Timesteps simulated.",
		}),
		stepTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "crustsim_step_duration_seconds",
			Help:    "Wall time of one timestep.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		modelTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "crustsim_model_time_myr",
			Help: "Model age in million years.",
		}),
		mass: f.NewGauge(prometheus.GaugeOpts{
			Name: "crustsim_crust_mass",
			Help: "Summed thickness of all conserved layers.",
		}),
		drift: f.NewGauge(prometheus.GaugeOpts{
			Name: "crustsim_mass_drift",
			Help: "Mass change over the last timestep.",
		}),
		plates: f.NewGauge(prometheus.GaugeOpts{
			Name: "crustsim_plates",
			Help: "Plates found in the last timestep.",
		}),
		clients: f.NewGauge(prometheus.GaugeOpts{
			Name: "crustsim_websocket_clients",
			Help: "Connected viewers.",
		}),
	}
}

func (m *metrics) observe(report simulation.StepReport, elapsed time.Duration) {
	m.steps.Inc()
	m.stepTime.Observe(elapsed.Seconds())
	m.modelTime.Set(report.Time)
	m.mass.Set(report.Mass)
	m.drift.Set(report.Drift)
	m.plates.Set(float64(report.Plates))
}
