package adaptors

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/pkg/errors"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const auditDBFile = "audits.db"

// storeTimeFormat is fixed width so timestamps sort lexically.
const storeTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

const auditSchema = `
CREATE TABLE IF NOT EXISTS audits (
	id TEXT PRIMARY KEY,
	site TEXT NOT NULL,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	pages INTEGER NOT NULL,
	critical INTEGER NOT NULL,
	warning INTEGER NOT NULL,
	ok INTEGER NOT NULL,
	primary_seo_plugin TEXT,
	report_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audits_finished_at ON audits(finished_at);
CREATE INDEX IF NOT EXISTS idx_audits_site ON audits(site);
`

// SQLiteStore persists completed audits in a single SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
	log    *log.Logger
}

// OpenSQLiteStore opens (creating if needed) the audit database inside dir.
func OpenSQLiteStore(ctx context.Context, dir string, log *log.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrap(err, `failed to create database directory`)
	}
	dbPath := filepath.Join(dir, auditDBFile)

	db, err := sql.Open("sqlite", dbPath+"?mode=rwc")
	if err != nil {
		return nil, errors.Wrap(err, `failed to open database`)
	}
	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, `failed to enable WAL mode`)
	}
	if _, err := db.ExecContext(ctx, auditSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, `failed to create tables`)
	}

	log.WithField(`path`, dbPath).Debug(`audit store opened`)
	return &SQLiteStore{db: db, dbPath: dbPath, log: log}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Path() string {
	return s.dbPath
}

func (s *SQLiteStore) Save(ctx context.Context, audit *models.Audit) error {
	if audit == nil || audit.Report == nil {
		return errors.New("audit has no report")
	}
	reportJSON, err := json.Marshal(audit.Report)
	if err != nil {
		return errors.Wrap(err, `failed to serialize report`)
	}

	summary := models.NewAuditSummary(audit)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (id, site, started_at, finished_at, pages, critical, warning, ok, primary_seo_plugin, report_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		audit.ID,
		audit.Site,
		audit.StartedAt.UTC().Format(storeTimeFormat),
		audit.FinishedAt.UTC().Format(storeTimeFormat),
		summary.Pages,
		summary.Critical,
		summary.Warning,
		summary.OK,
		summary.PrimarySEOPlugin,
		string(reportJSON),
	)
	if err != nil {
		return errors.Wrap(err, `failed to insert audit`)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*models.Audit, error) {
	var (
		audit                 models.Audit
		startedAt, finishedAt string
		reportJSON            string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, site, started_at, finished_at, report_json FROM audits WHERE id = ?`, id,
	).Scan(&audit.ID, &audit.Site, &startedAt, &finishedAt, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrap(errors.ErrNotFound, `audit `+id)
	}
	if err != nil {
		return nil, errors.Wrap(err, `failed to query audit`)
	}

	if audit.StartedAt, err = time.Parse(storeTimeFormat, startedAt); err != nil {
		return nil, errors.Wrap(err, `failed to parse started_at`)
	}
	if audit.FinishedAt, err = time.Parse(storeTimeFormat, finishedAt); err != nil {
		return nil, errors.Wrap(err, `failed to parse finished_at`)
	}

	audit.Report = &models.Report{}
	if err := json.Unmarshal([]byte(reportJSON), audit.Report); err != nil {
		return nil, errors.Wrap(err, `failed to decode report`)
	}
	return &audit, nil
}

// List returns the most recent audits first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]models.AuditSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, site, finished_at, pages, critical, warning, ok, COALESCE(primary_seo_plugin, '')
		FROM audits
		ORDER BY finished_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, `failed to list audits`)
	}
	defer rows.Close()

	summaries := []models.AuditSummary{}
	for rows.Next() {
		var (
			sum        models.AuditSummary
			finishedAt string
		)
		if err := rows.Scan(&sum.ID, &sum.Site, &finishedAt, &sum.Pages, &sum.Critical, &sum.Warning, &sum.OK, &sum.PrimarySEOPlugin); err != nil {
			return nil, errors.Wrap(err, `failed to scan audit`)
		}
		if sum.CreatedAt, err = time.Parse(storeTimeFormat, finishedAt); err != nil {
			return nil, errors.Wrap(err, `failed to parse finished_at`)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, `failed to iterate audits`)
	}
	return summaries, nil
}
