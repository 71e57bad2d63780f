// Package server exposes the flowstroke pipeline over HTTP.
//
// Routes:
//
//	POST /v1/flows    meshjson.Request  -> meshjson.Document
//	POST /v1/preview  meshjson.Request  -> image/png
//	GET  /v1/config   default flowstroke.Config
//	GET  /healthz     204
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gogpu/flowstroke"
	"github.com/gogpu/flowstroke/internal/cache"
	"github.com/gogpu/flowstroke/meshjson"
	"github.com/gogpu/flowstroke/preview"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Options configures a Server.
type Options struct {
	// AllowedOrigins lists the origins allowed by CORS. Empty allows all.
	AllowedOrigins []string

	// Workers is passed to flowstroke.WithWorkers.
	Workers int

	// MaxBodyBytes limits the size of request bodies.
	MaxBodyBytes int64

	// ShutdownTimeout bounds graceful shutdown in ListenAndServe.
	ShutdownTimeout time.Duration

	// CacheEntries is the number of encoded /v1/flows responses kept for
	// repeated request bodies. Zero disables the cache.
	CacheEntries int
}

// DefaultOptions returns the default server options.
func DefaultOptions() Options {
	return Options{
		Workers:         1,
		MaxBodyBytes:    8 << 20,
		ShutdownTimeout: 5 * time.Second,
		CacheEntries:    64,
	}
}

// Server answers pipeline requests.
type Server struct {
	opts    Options
	handler http.Handler
	flows   *cache.LRU[[sha256.Size]byte, []byte]
}

// New creates a Server with its routes registered.
func New(opts Options) *Server {
	s := &Server{
		opts:  opts,
		flows: cache.New[[sha256.Size]byte, []byte](opts.CacheEntries),
	}

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/v1/flows", s.handleFlows).Methods(http.MethodPost)
	router.HandleFunc("/v1/preview", s.handlePreview).Methods(http.MethodPost)
	router.HandleFunc("/v1/config", s.handleConfig).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	s.handler = c.Handler(router)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		flowstroke.Logger().Info("server: listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	flowstroke.Logger().Info("server: stopped", "addr", addr)
	return nil
}

// readBody reads the request body within the size limit. On failure it has
// already written the error response.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	if s.opts.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
		} else {
			writeError(w, http.StatusBadRequest, err)
		}
		return nil, false
	}
	return body, true
}

// build decodes a request and runs the pipeline in the request's view.
func (s *Server) build(body []byte) (meshjson.View, []flowstroke.FlowGeometry, error) {
	req, err := meshjson.DecodeRequest(bytes.NewReader(body))
	if err != nil {
		return meshjson.View{}, nil, err
	}
	cfg, view, err := req.Settings()
	if err != nil {
		return meshjson.View{}, nil, err
	}
	geo := flowstroke.Build(req.Points, view.Projection(req.Points), cfg, flowstroke.WithWorkers(s.opts.Workers))
	flowstroke.Logger().Debug("server: built", "points", len(req.Points), "flows", len(geo))
	return view, geo, nil
}

func (s *Server) handleFlows(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	resp, err := s.flows.GetOrCreate(sha256.Sum256(body), func() ([]byte, error) {
		_, geo, err := s.build(body)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := meshjson.Write(&buf, meshjson.Encode(geo), false); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(resp); err != nil {
		flowstroke.Logger().Warn("server: write response", "err", err)
	}
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	view, geo, err := s.build(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	img := preview.Render(geo, preview.DefaultOptions(int(view.Width), int(view.Height)))
	w.Header().Set("Content-Type", "image/png")
	if err := preview.EncodePNG(w, img); err != nil {
		flowstroke.Logger().Warn("server: write response", "err", err)
	}
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(flowstroke.DefaultConfig()); err != nil {
		flowstroke.Logger().Warn("server: write response", "err", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	flowstroke.Logger().Debug("server: request rejected", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error()})
}
