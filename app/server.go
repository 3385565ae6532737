package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	apischedule "github.com/buildsite/crewplan/api/schedule"
	"github.com/buildsite/crewplan/render"
)

// Run serves the dashboard until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	mux.Handle("/api/schedule", apischedule.NewHandler(s, s.Defaults()))
	mux.HandleFunc("/api/notes", s.handleNotes)
	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("server shutdown: %v", err)
		}
	}()
	s.log.Infof("serving dashboard on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// handleDashboard recomputes the schedule with the request's parameters and
// renders the Gantt and utilization charts.
func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	params, err := apischedule.ParseParams(r.URL.Query(), s.Defaults())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := s.Compute(params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := render.Dashboard(w, res, params.LabourCap); err != nil {
		s.log.Errorf("render dashboard: %v", err)
	}
}

func (s *Service) handleNotes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	report, err := s.Notes()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleUpload replaces the in-memory input files. Multipart fields: "csv",
// "demolition", "fabrication"; each is optional.
func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, fmt.Sprintf("parse upload: %v", err), http.StatusBadRequest)
		return
	}
	var updated []string
	var readErr error
	read := func(field string) []byte {
		f, _, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			return nil
		}
		if err != nil {
			readErr = fmt.Errorf("read %s upload: %w", field, err)
			return nil
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			readErr = fmt.Errorf("read %s upload: %w", field, err)
			return nil
		}
		updated = append(updated, field)
		return data
	}
	csvData := read("csv")
	demolition := read("demolition")
	fabrication := read("fabrication")
	if readErr != nil {
		http.Error(w, readErr.Error(), http.StatusBadRequest)
		return
	}
	if len(updated) == 0 {
		http.Error(w, "no input files in upload", http.StatusBadRequest)
		return
	}
	s.SetInputs(csvData, demolition, fabrication)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"updated": updated}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
