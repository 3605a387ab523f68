package kwspot

import (
	"context"

	"github.com/kwslab/kwspot/pkg/models"
)

// Service is the keyword-spotting search facade.
type Service interface {
	Search(ctx context.Context, referencePath, queryPath string) (*SearchResult, error)
	SaveRun(result *SearchResult) (string, error)
	GetRunByID(runID string) (*models.Run, error)
	GetRunHits(runID string) ([]models.Hit, error)
	ListRuns() ([]models.Run, error)
	DeleteRun(runID string) error
	Close() error
}

// Storage persists search runs and their hits.
type Storage interface {
	SaveRun(run models.Run, hits []models.Hit) error
	GetRunByID(runID string) (*models.Run, error)
	GetHitsByRunID(runID string) ([]models.Hit, error)
	ListRuns() ([]models.Run, error)
	DeleteRunByID(runID string) error
	Close() error
}

// Logger is the minimal logging surface the service needs.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
