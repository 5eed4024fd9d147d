package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"crustsim/config"
	"crustsim/core"
	"crustsim/crust"
	"crustsim/simulation"
)

// reliefExaggeration scales displacement for display on a unit sphere.
const reliefExaggeration = 50.0 / 6.371e6

type Snapshot struct {
	Type         string       `json:"type"`
	Vertices     [][3]float64 `json:"vertices"`
	Indices      []int32      `json:"indices"`
	Displacement []float64    `json:"displacement"`
	Sediment     []float64    `json:"sediment"`
	PlateIDs     []int        `json:"plateIds"`
	SeaLevel     float64      `json:"seaLevel"`
	Time         float64      `json:"time"`
	Timestep     float64      `json:"timestep"`
	Paused       bool         `json:"paused"`
	Mass         float64      `json:"mass"`
}

// control is a message from a client. Absent fields are left unchanged.
type control struct {
	Timestep *float64 `json:"timestep"`
	Paused   *bool    `json:"paused"`
}

type server struct {
	worldMu  sync.Mutex
	world    *simulation.World
	timestep float64
	paused   bool

	port     int
	interval time.Duration
	logger   *slog.Logger

	registry *prometheus.Registry
	metrics  *metrics

	upgrader  websocket.Upgrader
	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*sync.Mutex
}

func newServer(world *simulation.World, settings config.Settings, logger *slog.Logger) *server {
	registry := prometheus.NewRegistry()
	return &server{
		world:    world,
		timestep: settings.Simulation.Timestep,
		port:     settings.Server.Port,
		interval: time.Duration(settings.Server.UpdateIntervalMs) * time.Millisecond,
		logger:   logger.With("component", "server"),
		registry: registry,
		metrics:  newMetrics(registry),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Allow all origins for development
			},
		},
		clients: make(map[*websocket.Conn]*sync.Mutex),
	}
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/status", s.handleStatus)
	mux.HandleFunc("/cell", s.handleCell)
	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return mux
}

// run serves clients and steps the world until ctx is cancelled or the
// listener fails.
func (s *server) run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.handler(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.simulationLoop(ctx)
		return nil
	})
	g.Go(func() error {
		s.logger.Info("server starting", "addr", "http://localhost"+httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listening on %s: %w", httpServer.Addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		defer s.closeClients()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *server) simulationLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	lastPrintTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frameStart := time.Now()
		report, stepped := s.step()
		simTime := time.Since(frameStart)

		s.broadcast()

		if stepped && time.Since(lastPrintTime) > time.Second {
			lastPrintTime = time.Now()
			s.logger.Info("simulation",
				"time", report.Time,
				"mass", report.Mass,
				"plates", report.Plates,
				"simTime", simTime)
		}
		if total := time.Since(frameStart); total > s.interval {
			s.logger.Warn("slow frame", "total", total, "sim", simTime)
		}
	}
}

// step advances the world once unless paused.
func (s *server) step() (simulation.StepReport, bool) {
	s.worldMu.Lock()
	defer s.worldMu.Unlock()
	if s.paused {
		return simulation.StepReport{}, false
	}
	start := time.Now()
	report := s.world.Step(s.timestep)
	s.metrics.observe(report, time.Since(start))
	return report, true
}

func (s *server) apply(msg control) {
	s.worldMu.Lock()
	defer s.worldMu.Unlock()
	if msg.Timestep != nil && *msg.Timestep > 0 {
		s.logger.Info("timestep change", "from", s.timestep, "to", *msg.Timestep)
		s.timestep = *msg.Timestep
	}
	if msg.Paused != nil {
		s.paused = *msg.Paused
	}
}

func (s *server) snapshot() Snapshot {
	s.worldMu.Lock()
	defer s.worldMu.Unlock()

	w := s.world
	g := w.Grid
	n := g.Len()
	snap := Snapshot{
		Type:         "snapshot",
		Vertices:     make([][3]float64, n),
		Indices:      make([]int32, 0, len(g.Faces)*3),
		Displacement: append([]float64(nil), w.Crust.Displacement...),
		Sediment:     append([]float64(nil), w.Crust.Sediment...),
		PlateIDs:     append([]int(nil), w.Plates...),
		SeaLevel:     w.SeaLevel,
		Time:         w.Time,
		Timestep:     s.timestep,
		Paused:       s.paused,
		Mass:         w.Crust.Mass(),
	}
	for i, p := range g.Positions {
		// land above sea level is raised, sea floor is drawn at the water surface
		relief := max(w.Crust.Displacement[i]-w.SeaLevel, 0)
		v := p.Mul(1 + relief*reliefExaggeration)
		snap.Vertices[i] = [3]float64{v.X(), v.Y(), v.Z()}
	}
	for _, f := range g.Faces {
		snap.Indices = append(snap.Indices, int32(f[0]), int32(f[1]), int32(f[2]))
	}
	return snap
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"cells":    len(snap.PlateIDs),
		"time":     snap.Time,
		"timestep": snap.Timestep,
		"paused":   snap.Paused,
		"mass":     snap.Mass,
	})
	if err != nil {
		s.logger.Debug("status write failed", "error", err)
	}
}

// cellInfo describes the rock column nearest a queried location.
type cellInfo struct {
	Cell  int              `json:"cell"`
	Lat   float64          `json:"lat"` // degrees
	Lon   float64          `json:"lon"` // degrees
	Plate int              `json:"plate"`
	Rock  crust.RockColumn `json:"rock"`
}

// handleCell reports the cell nearest to ?lat=&lon= given in degrees.
// Latitude is clamped to the poles and longitude wrapped.
func (s *server) handleCell(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		http.Error(w, "invalid lat: "+err.Error(), http.StatusBadRequest)
		return
	}
	lon, err := strconv.ParseFloat(query.Get("lon"), 64)
	if err != nil {
		http.Error(w, "invalid lon: "+err.Error(), http.StatusBadRequest)
		return
	}

	where := core.NormalizeCoordinates(core.Geographic{
		Lat: core.DegreesToRadians(lat),
		Lon: core.DegreesToRadians(lon),
	})

	s.worldMu.Lock()
	g := s.world.Grid
	cell := g.NearestCell(core.GeographicToCartesian(where, 1))
	at := core.CartesianToGeographic(g.Positions[cell], 1)
	info := cellInfo{
		Cell:  cell,
		Lat:   core.RadiansToDegrees(at.Lat),
		Lon:   core.RadiansToDegrees(at.Lon),
		Plate: s.world.Plates[cell],
		Rock:  s.world.Crust.Get(cell),
	}
	s.worldMu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		s.logger.Debug("cell write failed", "error", err)
	}
}

func (s *server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	connMutex := &sync.Mutex{}
	s.clientsMu.Lock()
	s.clients[conn] = connMutex
	s.metrics.clients.Set(float64(len(s.clients)))
	s.clientsMu.Unlock()
	defer func() {
		s.clientsMu.Lock()
		delete(s.clients, conn)
		s.metrics.clients.Set(float64(len(s.clients)))
		s.clientsMu.Unlock()
	}()

	// Send initial state
	snap := s.snapshot()
	connMutex.Lock()
	err = conn.WriteJSON(snap)
	connMutex.Unlock()
	if err != nil {
		s.logger.Warn("websocket write failed", "error", err)
		return
	}

	for {
		var msg control
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("websocket read failed", "error", err)
			}
			return
		}
		s.apply(msg)
	}
}

func (s *server) broadcast() {
	snap := s.snapshot()

	s.clientsMu.RLock()
	failed := []*websocket.Conn{}
	for client, mutex := range s.clients {
		mutex.Lock()
		err := client.WriteJSON(snap)
		mutex.Unlock()
		if err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			client.Close()
			failed = append(failed, client)
		}
	}
	s.clientsMu.RUnlock()

	// Remove failed clients
	if len(failed) > 0 {
		s.clientsMu.Lock()
		for _, client := range failed {
			delete(s.clients, client)
		}
		s.metrics.clients.Set(float64(len(s.clients)))
		s.clientsMu.Unlock()
	}
}

func (s *server) closeClients() {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	for client := range s.clients {
		client.Close()
		delete(s.clients, client)
	}
}
