// Package httpapi serves the motor controller's HTTP configuration
// surface: GET/POST /config, POST /paused, GET /state, and a static
// front-end page at /.
package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/cors"

	"ossm-go/internal/appctx"
	"ossm-go/internal/motion"
	"ossm-go/x/logx"
)

const (
	maxConfigBody = 1024
	maxPausedBody = 4096
)

// PausedControl is the partial-update body accepted by POST /paused: any
// field left nil is not touched.
type PausedControl struct {
	Paused   *bool    `json:"paused"`
	Position *float64 `json:"position"`
	Adjust   *float64 `json:"adjust"`
}

// Server wraps a net/http handler over app, with CORS applied the way
// the teacher's HTTP-facing services wrap a mux once at construction.
type Server struct {
	app *appctx.Context
	log *logx.Logger

	Handler http.Handler
}

// NewServer builds the routed, CORS-wrapped handler. indexHTML is served
// verbatim at GET /.
func NewServer(app *appctx.Context, log *logx.Logger, indexHTML []byte) *Server {
	s := &Server{app: app, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/config", s.handleConfig)
	mux.HandleFunc("/paused", s.handlePaused)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write(indexHTML)
	})

	s.Handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		// Preflight requests are answered 200 rather than the library's 204.
		OptionsSuccessStatus: http.StatusOK,
	}).Handler(mux)
	return s
}

func (s *Server) controllerOr503(w http.ResponseWriter) *motion.Controller {
	ctrl := s.app.Controller()
	if ctrl == nil {
		http.Error(w, "motor controller not initialized", http.StatusServiceUnavailable)
	}
	return ctrl
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ctrl := s.controllerOr503(w)
		if ctrl == nil {
			return
		}
		writeJSON(w, http.StatusOK, ctrl.Config())

	case http.MethodPost:
		body, ok := readLimited(w, r, maxConfigBody)
		if !ok {
			return
		}
		var cfg motion.MotorControllerConfig
		if err := json.Unmarshal(body, &cfg); err != nil {
			s.log.Printf("config parse failed: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		ctrl := s.controllerOr503(w)
		if ctrl == nil {
			return
		}
		if err := ctrl.SetConfig(cfg); err != nil {
			s.log.Printf("set_config failed: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, cfg)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePaused(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	body, ok := readLimited(w, r, maxPausedBody)
	if !ok {
		return
	}
	var control PausedControl
	if err := json.Unmarshal(body, &control); err != nil {
		s.log.Printf("paused control parse failed: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	ctrl := s.controllerOr503(w)
	if ctrl == nil {
		return
	}
	cfg := ctrl.Config()
	if control.Paused != nil {
		cfg.Paused = *control.Paused
	}
	if control.Position != nil {
		cfg.PausedPosition = clamp01(*control.Position)
	}
	if control.Adjust != nil {
		cfg.PausedPosition = clamp01(cfg.PausedPosition + *control.Adjust)
	}
	if err := ctrl.SetConfig(cfg); err != nil {
		s.log.Printf("set_config failed: %v", err)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ctrl := s.controllerOr503(w)
	if ctrl == nil {
		return
	}
	writeJSON(w, http.StatusOK, ctrl.GetCurrentState())
}

func readLimited(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, bool) {
	if r.ContentLength > limit {
		http.Error(w, "request too big", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, limit+1))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return nil, false
	}
	if int64(len(body)) > limit {
		http.Error(w, "request too big", http.StatusRequestEntityTooLarge)
		return nil, false
	}
	return body, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
