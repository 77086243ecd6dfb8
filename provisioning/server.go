// Package provisioning exposes the local HTTP surface of the device:
// config read/write, status, firmware image upload and health probes.
package provisioning

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/troian/healthcheck"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"github.com/glowbridge/glowbridge/configuration"
	"github.com/glowbridge/glowbridge/light"
	"github.com/glowbridge/glowbridge/metrics"
)

// DigestHeader carries the expected sha256 of an uploaded image
const DigestHeader = "X-Image-Digest"

// NameHeader optionally names the uploaded image file
const NameHeader = "X-Image-Name"

const defaultImageName = "firmware.bin"

// Status device status as reported on the status endpoint
type Status struct {
	Version        string        `json:"version"`
	Connected      bool          `json:"connected"`
	Light          light.State   `json:"light"`
	Link           metrics.Stats `json:"link"`
	RestartPending bool          `json:"restartPending"`
}

// Config provisioning server dependencies
type Config struct {
	Listen  string
	OtaDir  string
	Version string

	GetConfig  func() *configuration.Config
	SetConfig  func(*configuration.Config) error
	Connected  func() bool
	LightState func() light.State
	Link       func() metrics.Stats

	// OnImage is called after an image has been staged successfully
	OnImage func(name string)
}

// Server local provisioning HTTP server
type Server struct {
	cfg    Config
	log    *zap.SugaredLogger
	mux    *http.ServeMux
	server *http.Server
	health healthcheck.Handler

	restartPending atomic.Bool
}

// NewServer builds the server and its routes
func NewServer(cfg Config, log *zap.SugaredLogger) *Server {
	s := &Server{
		cfg:    cfg,
		log:    log,
		mux:    http.NewServeMux(),
		health: healthcheck.NewHandler(),
	}

	s.health.AddReadinessCheck("broker", func() error { // nolint: errcheck
		if !cfg.Connected() {
			return errors.New("broker session down")
		}

		return nil
	})

	s.mux.HandleFunc("/api/v1/config", s.handleConfig)
	s.mux.HandleFunc("/api/v1/status", s.handleStatus)
	s.mux.HandleFunc("/api/v1/ota", s.handleOTA)
	s.mux.HandleFunc("/live", s.health.LiveEndpoint)
	s.mux.HandleFunc("/ready", s.health.ReadyEndpoint)

	s.server = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler returns the route handler, used directly in tests
func (s *Server) Handler() http.Handler {
	return s.mux
}

// RestartPending reports whether a staged image awaits a restart
func (s *Server) RestartPending() bool {
	return s.restartPending.Load()
}

// Start begins serving in the background
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("provisioning server: %s", err.Error())
		}
	}()
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		raw, err := yaml.Marshal(s.cfg.GetConfig())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/x-yaml")
		w.Write(raw) // nolint: errcheck

	case http.MethodPut:
		raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		config := configuration.DefaultConfig()
		if err = yaml.Unmarshal(raw, config); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err = s.cfg.SetConfig(config); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := Status{
		Version:        s.cfg.Version,
		Connected:      s.cfg.Connected(),
		Light:          s.cfg.LightState(),
		RestartPending: s.restartPending.Load(),
	}

	if s.cfg.Link != nil {
		status.Link = s.cfg.Link()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&status) // nolint: errcheck
}

func (s *Server) handleOTA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := filepath.Base(r.Header.Get(NameHeader))
	if name == "." || name == "/" || name == "" {
		name = defaultImageName
	}

	digest, size, err := s.stageImage(r, name)
	if err != nil {
		s.log.Warnf("image upload rejected: %s", err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.restartPending.Store(true)

	if s.cfg.OnImage != nil {
		s.cfg.OnImage(name)
	}

	s.log.Infof("image %s staged, %d bytes, sha256 %s", name, size, digest)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{ // nolint: errcheck
		"name":   name,
		"size":   size,
		"digest": digest,
	})
}

// stageImage streams the request body to a temporary file and renames it
// into place only when the digest matches
func (s *Server) stageImage(r *http.Request, name string) (string, int64, error) {
	expected := strings.TrimPrefix(r.Header.Get(DigestHeader), "sha256:")
	if expected == "" {
		return "", 0, errors.Errorf("missing %s header", DigestHeader)
	}

	if err := os.MkdirAll(s.cfg.OtaDir, 0755); err != nil {
		return "", 0, errors.Wrap(err, "cannot create image directory")
	}

	tmp, err := os.CreateTemp(s.cfg.OtaDir, ".upload-*")
	if err != nil {
		return "", 0, errors.Wrap(err, "cannot create staging file")
	}
	defer os.Remove(tmp.Name()) // nolint: errcheck

	hash := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hash), r.Body)
	if cErr := tmp.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		return "", 0, errors.Wrap(err, "cannot write image")
	}

	digest := hex.EncodeToString(hash.Sum(nil))
	if !strings.EqualFold(digest, expected) {
		return "", 0, errors.Errorf("digest mismatch: got %s", digest)
	}

	if err = os.Rename(tmp.Name(), filepath.Join(s.cfg.OtaDir, name)); err != nil {
		return "", 0, errors.Wrap(err, "cannot finalize image")
	}

	return digest, size, nil
}
