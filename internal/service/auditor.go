package service

import (
	"context"
	"errors"
	"time"

	"seo_auditor/internal/domain/adaptors"
	"seo_auditor/internal/domain/models"
	pkgerrors "seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/pkg/metrics"
	"seo_auditor/internal/pkg/worker_pool"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "seo_auditor/internal/service"

// ErrNoPages is returned when discovery yields nothing to audit.
var ErrNoPages = errors.New("no pages found")

// MarkupFetcher retrieves the raw markup of one page.
type MarkupFetcher interface {
	Fetch(ctx context.Context, pageURL string) (string, error)
}

type AuditorConfig struct {
	// Workers bounds concurrent fetch+analyze pairs. 1 audits strictly sequentially.
	Workers        int
	TracerProvider trace.TracerProvider
}

// Auditor runs discovery, fetching, analysis and aggregation for a site.
type Auditor struct {
	log     *log.Logger
	fetcher MarkupFetcher
	workers int
	tracer  trace.Tracer
}

func NewAuditor(log *log.Logger, fetcher MarkupFetcher, cfg AuditorConfig) *Auditor {
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &Auditor{
		log:     log,
		fetcher: fetcher,
		workers: max(cfg.Workers, 1),
		tracer:  tp.Tracer(tracerName),
	}
}

// Audit discovers the pages of site through source and audits every one of
// them. It fails only when there is nothing to audit.
func (a *Auditor) Audit(ctx context.Context, site string, source adaptors.ContentSource) (*models.Audit, error) {
	started := time.Now().UTC()
	ctx, span := a.tracer.Start(ctx, "audit", trace.WithAttributes(attribute.String("site", site)))
	defer span.End()

	logger := a.log.WithField("site", site)
	logger.Info(`discovering pages`)

	refs := source.Discover(ctx)
	if len(refs) == 0 {
		span.SetStatus(codes.Error, ErrNoPages.Error())
		logger.Warn(`no pages discovered`)
		return nil, ErrNoPages
	}
	logger.WithField("pages", len(refs)).Info(`auditing pages`)

	report := Aggregate(a.AuditPages(ctx, refs))

	finished := time.Now().UTC()
	metrics.AuditDuration.Observe(finished.Sub(started).Seconds())
	span.SetAttributes(
		attribute.Int("pages", report.Total()),
		attribute.Int("critical", report.CountSeverity(models.SeverityCritical)),
	)
	logger.WithFields(log.Fields{
		"pages":    report.Total(),
		"critical": report.CountSeverity(models.SeverityCritical),
		"warning":  report.CountSeverity(models.SeverityWarning),
	}).Info(`audit finished`)

	return &models.Audit{
		ID:         uuid.NewString(),
		Site:       site,
		StartedAt:  started,
		FinishedAt: finished,
		Report:     report,
	}, nil
}

// AuditPages fetches and analyses every ref. The result holds one page per
// ref, indexed by crawl position; pages never fail as a whole.
func (a *Auditor) AuditPages(ctx context.Context, refs []models.PageRef) []models.AuditedPage {
	tasks := make([]worker_pool.Task[models.PageFinding], len(refs))
	for i, ref := range refs {
		tasks[i] = worker_pool.Task[models.PageFinding]{
			ID: ref.URL,
			Fn: func(ctx context.Context) (models.PageFinding, error) {
				return a.AnalyzePage(ctx, ref.URL), nil
			},
		}
	}

	pool := worker_pool.NewWorkerPool[models.PageFinding](a.workers, false, a.log)
	results, err := pool.Run(ctx, tasks)
	if err != nil {
		a.log.WithError(err).Error(`worker pool finished with error`)
	}

	pages := make([]models.AuditedPage, len(results))
	for _, res := range results {
		finding := res.Result
		if res.Err != nil {
			finding = models.NewFailedFinding(pkgerrors.Summary(res.Err))
		}
		pages[res.Index] = models.AuditedPage{
			Index:   res.Index,
			Ref:     refs[res.Index],
			Finding: finding,
		}
	}
	return pages
}

// AnalyzePage fetches pageURL and runs the rule engine over it. A fetch
// failure yields a degraded finding.
func (a *Auditor) AnalyzePage(ctx context.Context, pageURL string) models.PageFinding {
	ctx, span := a.tracer.Start(ctx, "page", trace.WithAttributes(attribute.String("url", pageURL)))
	defer span.End()

	logger := a.log.WithField("url", pageURL)

	var finding models.PageFinding
	markup, err := a.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		reason := pkgerrors.Summary(err)
		kind := models.FetchErrorTransport
		var fetchErr *models.FetchError
		if errors.As(err, &fetchErr) {
			reason = fetchErr.Reason()
			kind = fetchErr.Kind
		}
		metrics.PageFetchFailuresTotal.WithLabelValues(string(kind)).Inc()
		span.SetStatus(codes.Error, reason)
		logger.WithError(err).Warn(`failed to load page`)
		finding = models.NewFailedFinding(reason)
	} else {
		finding = Analyze(markup, pageURL)
	}

	severity := SeverityOf(finding)
	metrics.PagesAuditedTotal.WithLabelValues(severity.String()).Inc()
	span.SetAttributes(
		attribute.String("severity", severity.String()),
		attribute.Int("issues", len(finding.Issues)),
	)
	logger.WithFields(log.Fields{
		"severity": severity.String(),
		"issues":   len(finding.Issues),
	}).Debug(`page analysed`)
	return finding
}
