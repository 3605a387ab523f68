package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kwslab/kwspot/pkg/kwspot"
	"github.com/kwslab/kwspot/pkg/logger"
)

// Server encapsulates the HTTP server and its dependencies.
type Server struct {
	service  kwspot.Service
	config   *ServerConfig
	log      kwspot.Logger
	validate *validator.Validate
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           int
	DBPath         string
	AllowedOrigins []string
}

// NewServer creates a new server instance.
func NewServer(service kwspot.Service, config *ServerConfig) *Server {
	return &Server{
		service:  service,
		config:   config,
		log:      logger.GetLogger(),
		validate: validator.New(),
	}
}

// respondJSON writes a JSON response.
func (s *Server) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorf("Failed to encode JSON response: %v", err)
	}
}

// respondError writes an error response.
func (s *Server) respondError(w http.ResponseWriter, statusCode int, message string) {
	s.respondJSON(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    statusCode,
	})
}

// handleRoot handles GET /
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "kwspot API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":    "GET /health",
			"metrics":   "GET /api/health/metrics",
			"search":    "POST /api/search",
			"listRuns":  "GET /api/runs",
			"getRun":    "GET /api/runs/{id}",
			"deleteRun": "DELETE /api/runs/{id}",
		},
	})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleMetrics handles GET /api/health/metrics
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	runs, err := s.service.ListRuns()
	if err != nil {
		s.log.Errorf("Failed to get run count: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}

	s.respondJSON(w, http.StatusOK, MetricsResponse{
		Status:       "healthy",
		DatabasePath: s.config.DBPath,
		RunCount:     len(runs),
	})
}

// handleSearch handles POST /api/search
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Use POST")
		return
	}

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return
	}
	if err := s.validate.Struct(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	result, err := s.service.Search(r.Context(), req.ReferencePath, req.QueryPath)
	if err != nil {
		s.log.Errorf("Search failed: %v", err)
		s.respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Search failed: %v", err))
		return
	}

	resp := SearchResponse{
		Hits:            result.Hits,
		Count:           len(result.Hits),
		QueryCount:      result.QueryCount,
		OccurrenceCount: result.OccurrenceCount,
		SkippedLines:    result.SkippedLines,
		ElapsedMs:       result.Elapsed.Milliseconds(),
	}

	if req.Save {
		runID, err := s.service.SaveRun(result)
		if err != nil {
			s.log.Errorf("Failed to save run: %v", err)
			s.respondError(w, http.StatusInternalServerError, "Search succeeded but saving the run failed")
			return
		}
		resp.RunID = runID
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handleRuns handles GET /api/runs
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Use GET")
		return
	}

	runs, err := s.service.ListRuns()
	if err != nil {
		s.log.Errorf("Failed to list runs: %v", err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve runs")
		return
	}

	s.respondJSON(w, http.StatusOK, ListRunsResponse{
		Runs:  runs,
		Count: len(runs),
	})
}

// handleRun handles GET and DELETE on /api/runs/{id}
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	runID := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if runID == "" || strings.Contains(runID, "/") {
		s.respondError(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetRun(w, r, runID)
	case http.MethodDelete:
		s.handleDeleteRun(w, r, runID)
	default:
		s.respondError(w, http.StatusMethodNotAllowed, "Use GET or DELETE")
	}
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request, runID string) {
	run, err := s.service.GetRunByID(runID)
	if err != nil {
		s.log.Warnf("Run not found: %s", runID)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Run %s not found", runID))
		return
	}

	hits, err := s.service.GetRunHits(runID)
	if err != nil {
		s.log.Errorf("Failed to load hits for run %s: %v", runID, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to retrieve run hits")
		return
	}

	s.respondJSON(w, http.StatusOK, RunDetailResponse{
		Run:   *run,
		Hits:  hits,
		Count: len(hits),
	})
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request, runID string) {
	if _, err := s.service.GetRunByID(runID); err != nil {
		s.log.Warnf("Run not found for deletion: %s", runID)
		s.respondError(w, http.StatusNotFound, fmt.Sprintf("Run %s not found", runID))
		return
	}

	if err := s.service.DeleteRun(runID); err != nil {
		s.log.Errorf("Failed to delete run %s: %v", runID, err)
		s.respondError(w, http.StatusInternalServerError, "Failed to delete run")
		return
	}

	s.log.Infof("Deleted run %s", runID)
	s.respondJSON(w, http.StatusOK, DeleteRunResponse{
		Message: "Run deleted successfully",
		ID:      runID,
	})
}
