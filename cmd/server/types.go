package main

import "github.com/kwslab/kwspot/pkg/models"

// SearchRequest is the request body for POST /api/search.
type SearchRequest struct {
	// ReferencePath points at the time-aligned reference transcript.
	ReferencePath string `json:"reference_path" validate:"required"`

	// QueryPath points at the keyword list XML document.
	QueryPath string `json:"query_path" validate:"required"`

	// Save persists the run and returns its ID.
	Save bool `json:"save,omitempty"`
}

// SearchResponse is the response for POST /api/search.
type SearchResponse struct {
	Hits            []models.Hit `json:"hits"`
	Count           int          `json:"count"`
	QueryCount      int          `json:"query_count"`
	OccurrenceCount int          `json:"occurrence_count"`
	SkippedLines    int          `json:"skipped_lines"`
	ElapsedMs       int64        `json:"elapsed_ms"`
	RunID           string       `json:"run_id,omitempty"`
}

// ListRunsResponse is the response for GET /api/runs.
type ListRunsResponse struct {
	Runs  []models.Run `json:"runs"`
	Count int          `json:"count"`
}

// RunDetailResponse is the response for GET /api/runs/{id}.
type RunDetailResponse struct {
	Run   models.Run   `json:"run"`
	Hits  []models.Hit `json:"hits"`
	Count int          `json:"count"`
}

// DeleteRunResponse is the response for DELETE /api/runs/{id}.
type DeleteRunResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// MetricsResponse provides server health and database metrics.
type MetricsResponse struct {
	Status       string `json:"status"`
	DatabasePath string `json:"database_path"`
	RunCount     int    `json:"run_count"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
