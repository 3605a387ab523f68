// Package kwspot exposes the keyword-spotting search pipeline as a library
// facade: load a reference transcript and a keyword list, match every query
// in parallel, optionally persist the run.
package kwspot

import (
	"context"
	"fmt"
	"time"

	"github.com/kwslab/kwspot/internal/ctm"
	"github.com/kwslab/kwspot/internal/kwlist"
	"github.com/kwslab/kwspot/internal/search"
	"github.com/kwslab/kwspot/internal/storage"
	"github.com/kwslab/kwspot/pkg/logger"
	"github.com/kwslab/kwspot/pkg/models"
	"github.com/kwslab/kwspot/pkg/utils"
)

// kwsService is the default implementation of the Service interface.
type kwsService struct {
	storage Storage
	log     Logger
	config  *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	// Set default logger if none provided
	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	// Create or use provided storage
	var stor Storage
	var err error
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		stor, err = storage.NewDBClientWithPath(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage: %w", err)
		}
	}

	return &kwsService{
		storage: stor,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

// Search loads the reference transcript and the keyword list, then runs every
// query against the indexed reference. Load failures abort the run before any
// matching happens; a query with no matches simply contributes zero hits.
func (s *kwsService) Search(ctx context.Context, referencePath, queryPath string) (*SearchResult, error) {
	started := time.Now()

	// 1. Load the reference transcript
	ref, err := ctm.ReadFile(referencePath)
	if err != nil {
		return nil, fmt.Errorf("loading reference: %w", err)
	}
	s.log.Infof("Loaded %d reference records from %s", len(ref.Occurrences), referencePath)
	if ref.Skipped > 0 {
		s.log.Debugf("Skipped %d short reference lines", ref.Skipped)
	}

	// 2. Load the keyword queries
	queries, err := kwlist.ReadFile(queryPath)
	if err != nil {
		return nil, fmt.Errorf("loading queries: %w", err)
	}
	s.log.Infof("Loaded %d queries from %s", len(queries), queryPath)

	// 3. Index the reference sequence by word token
	ix := search.NewIndex(ref.Occurrences)

	// 4. Match every query against the index in parallel
	matcher := search.NewMatcher(ix, search.Config{
		MaxStartGap: s.config.MaxStartGap,
		SegmentScan: s.config.SegmentScan,
	})
	hits, err := search.SearchAll(ctx, s.config.Workers, matcher, queries)
	if err != nil {
		return nil, fmt.Errorf("matching queries: %w", err)
	}
	s.log.Infof("Found %d hits across %d queries in %s", len(hits), len(queries), time.Since(started))

	return &SearchResult{
		ReferencePath:   referencePath,
		QueryPath:       queryPath,
		Hits:            hits,
		OccurrenceCount: len(ref.Occurrences),
		SkippedLines:    ref.Skipped,
		QueryCount:      len(queries),
		Elapsed:         time.Since(started),
	}, nil
}

// SaveRun persists the result as a new run and returns the run ID.
func (s *kwsService) SaveRun(result *SearchResult) (string, error) {
	run := models.Run{
		ID:            utils.GenerateUUID(),
		ReferencePath: result.ReferencePath,
		QueryPath:     result.QueryPath,
		Language:      s.config.Language,
		QueryCount:    result.QueryCount,
		HitCount:      len(result.Hits),
		CreatedAt:     time.Now(),
	}
	if err := s.storage.SaveRun(run, result.Hits); err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}
	s.log.Infof("Saved run %s (%d hits)", run.ID, run.HitCount)
	return run.ID, nil
}

// GetRunByID retrieves run metadata by its ID.
func (s *kwsService) GetRunByID(runID string) (*models.Run, error) {
	return s.storage.GetRunByID(runID)
}

// GetRunHits retrieves the stored hits of a run.
func (s *kwsService) GetRunHits(runID string) ([]models.Hit, error) {
	return s.storage.GetHitsByRunID(runID)
}

// ListRuns returns all persisted runs.
func (s *kwsService) ListRuns() ([]models.Run, error) {
	return s.storage.ListRuns()
}

// DeleteRun removes a run and all its hits.
func (s *kwsService) DeleteRun(runID string) error {
	return s.storage.DeleteRunByID(runID)
}

// Close releases all resources held by the service.
func (s *kwsService) Close() error {
	return s.storage.Close()
}
