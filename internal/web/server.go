// Package web serves generated report files over HTTP for manual review of
// dry-run output. Read-only: nothing here touches storage.
package web

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// Server represents the report review server.
type Server struct {
	reportDir  string
	httpServer *http.Server
	router     *mux.Router
	log        zerolog.Logger
}

// NewServer creates a review server over a reports directory.
func NewServer(addr, reportDir string, log zerolog.Logger) *Server {
	s := &Server{reportDir: reportDir, log: log}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()
	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/reports", s.handleListReports).Methods("GET")
	s.router.HandleFunc("/reports/{name}", s.handleGetReport).Methods("GET")
}

// ListenAndServe runs the server until the listener fails.
func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Str("reports", s.reportDir).Msg("review server listening")
	return s.httpServer.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// reportInfo describes one report file in the index.
type reportInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

func (s *Server) handleListReports(w http.ResponseWriter, _ *http.Request) {
	entries, err := os.ReadDir(s.reportDir)
	if err != nil {
		if os.IsNotExist(err) {
			writeJSON(w, http.StatusOK, []reportInfo{})
			return
		}
		http.Error(w, "failed to read report directory", http.StatusInternalServerError)
		return
	}

	infos := make([]reportInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".json" && ext != ".sql" {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, reportInfo{Name: e.Name(), Size: fi.Size(), Modified: fi.ModTime()})
	}

	// Newest first.
	sort.Slice(infos, func(i, j int) bool { return infos[i].Modified.After(infos[j].Modified) })

	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	// Reject anything that could escape the report directory.
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.reportDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read report", http.StatusInternalServerError)
		return
	}

	switch filepath.Ext(name) {
	case ".json":
		w.Header().Set("Content-Type", "application/json")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
