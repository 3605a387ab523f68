package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kwslab/kwspot/pkg/models"
)

const DefaultDBFile = "kwspot.sqlite3"
const errDBClientNil = "db client is nil"

// DBClient persists search runs and their hits in a local sqlite database.
type DBClient struct {
	DB *gorm.DB
	db *sql.DB
}

// Run is the persisted form of a search run.
type Run struct {
	ID            string `gorm:"primaryKey;type:varchar(36)"`
	ReferencePath string
	QueryPath     string
	Language      string
	QueryCount    int
	HitCount      int
	CreatedAt     time.Time
}

// Hit is the persisted form of a detection, keyed to its run.
type Hit struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	RunID     string `gorm:"type:varchar(36);index:idx_hit_run"`
	Kwid      string `gorm:"index:idx_hit_kwid"`
	FileID    string
	Channel   string
	StartTime float64
	Duration  float64
	Score     float64
	Decision  string
}

// NewDBClient opens the database at KWSPOT_DB_PATH, falling back to
// DefaultDBFile in the working directory.
func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("KWSPOT_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

// NewDBClientWithPath opens (creating if needed) the sqlite database at
// dbPath and migrates the schema.
func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir: %w", err)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Run{}, &Hit{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// SaveRun stores the run and all its hits in one transaction.
func (c *DBClient) SaveRun(run models.Run, hits []models.Hit) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}

	rows := make([]Hit, len(hits))
	for i, h := range hits {
		rows[i] = Hit{
			RunID:     run.ID,
			Kwid:      h.Kwid,
			FileID:    h.FileID,
			Channel:   h.Channel,
			StartTime: h.StartTime,
			Duration:  h.Duration,
			Score:     h.Score,
			Decision:  h.Decision,
		}
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		rec := Run{
			ID:            run.ID,
			ReferencePath: run.ReferencePath,
			QueryPath:     run.QueryPath,
			Language:      run.Language,
			QueryCount:    run.QueryCount,
			HitCount:      run.HitCount,
			CreatedAt:     run.CreatedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			return fmt.Errorf("creating run: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("batch insert hits: %w", err)
			}
		}
		return nil
	})
}

// GetRunByID returns the run with the given id.
func (c *DBClient) GetRunByID(runID string) (*models.Run, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rec Run
	if err := c.DB.Where("id = ?", runID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run %s not found", runID)
		}
		return nil, fmt.Errorf("querying run: %w", err)
	}
	run := runToModel(rec)
	return &run, nil
}

// ListRuns returns all runs, newest first.
func (c *DBClient) ListRuns() ([]models.Run, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Run
	if err := c.DB.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	out := make([]models.Run, len(rows))
	for i, r := range rows {
		out[i] = runToModel(r)
	}
	return out, nil
}

// GetHitsByRunID returns the stored hits of a run in insertion order.
func (c *DBClient) GetHitsByRunID(runID string) ([]models.Hit, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var rows []Hit
	if err := c.DB.Where("run_id = ?", runID).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("querying hits: %w", err)
	}
	out := make([]models.Hit, len(rows))
	for i, r := range rows {
		out[i] = models.Hit{
			Kwid:      r.Kwid,
			FileID:    r.FileID,
			Channel:   r.Channel,
			StartTime: r.StartTime,
			Duration:  r.Duration,
			Score:     r.Score,
			Decision:  r.Decision,
		}
	}
	return out, nil
}

// DeleteRunByID removes a run and all its hits.
func (c *DBClient) DeleteRunByID(runID string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", runID).Delete(&Hit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", runID).Delete(&Run{}).Error; err != nil {
			return err
		}
		return nil
	})
}

func runToModel(r Run) models.Run {
	return models.Run{
		ID:            r.ID,
		ReferencePath: r.ReferencePath,
		QueryPath:     r.QueryPath,
		Language:      r.Language,
		QueryCount:    r.QueryCount,
		HitCount:      r.HitCount,
		CreatedAt:     r.CreatedAt,
	}
}
