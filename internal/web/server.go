// Package web provides an HTTP status server for the buzzer-sweep daemon.
// It is read-only: nothing served here changes the selection state.
package web

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"github.com/sweeney/buzzer-sweep/internal/status"
	"github.com/sweeney/buzzer-sweep/internal/sweep"
)

// Server serves the status page over HTTP.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
}

// New creates a Server that reads state from the given tracker.
func New(addr string, tracker *status.Tracker) *Server {
	s := &Server{tracker: tracker}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/index.html", s.handleIndex)
	mux.HandleFunc("/index.json", s.handleJSON)
	mux.HandleFunc("/tone.json", s.handleTone)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// Handler returns the server's request router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" && r.URL.Path != "/index.html" {
		http.NotFound(w, r)
		return
	}
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleTone(w http.ResponseWriter, r *http.Request) {
	t := toneOf(s.tracker.Snapshot())
	data, _ := json.MarshalIndent(t, "", "  ")
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// Tone is the live pitch estimate. The loop rate is measured from the
// iteration count over uptime, since one loop pass is one tone-counter step.
type Tone struct {
	Active  bool    `json:"active"`
	Pattern string  `json:"pattern"`
	Delay   uint16  `json:"delay"`
	LoopHz  float64 `json:"loop_hz"`
	PitchHz float64 `json:"pitch_hz"`
	MinHz   float64 `json:"min_hz"`
	MaxHz   float64 `json:"max_hz"`
}

func toneOf(snap status.Snapshot) Tone {
	t := Tone{
		Active:  snap.State.Active,
		Pattern: snap.State.Pattern.String(),
		Delay:   snap.Delay,
	}
	up := snap.Uptime().Seconds()
	if up <= 0 || snap.Iterations == 0 {
		return t
	}

	lim := sweep.Ranges[snap.State.Range]
	t.LoopHz = float64(snap.Iterations) / up
	t.MinHz = pitch(t.LoopHz, lim.Max)
	t.MaxHz = pitch(t.LoopHz, lim.Min)
	if t.Active {
		t.PitchHz = pitch(t.LoopHz, snap.Delay)
	}
	return t
}

// pitch is the square-wave frequency for a half-period of delay loop passes.
func pitch(loopHz float64, delay uint16) float64 {
	if delay == 0 {
		return 0
	}
	return loopHz / (2 * float64(delay))
}
