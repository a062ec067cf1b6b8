package application

import (
	"context"
	"net/url"
	"strings"

	"seo_auditor/internal/adaptors"
	"seo_auditor/internal/application/config"
	domain "seo_auditor/internal/domain/adaptors"
	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/service"

	log "github.com/sirupsen/logrus"
)

// App wires the collaborators shared by the CLI and the HTTP API.
type App struct {
	log     *log.Logger
	cfg     *config.AppConfig
	client  domain.WebClient
	cache   *adaptors.RedisCache
	store   *adaptors.SQLiteStore
	auditor *service.Auditor
}

// New builds the fetch and audit pipeline. An unreachable cache is logged and
// skipped; audits then fetch every page.
func New(ctx context.Context, log *log.Logger, cfg *config.AppConfig) *App {
	app := &App{
		log: log,
		cfg: cfg,
		client: adaptors.NewWebClient(adaptors.WebClientConfig{
			Timeout:   cfg.RequestTimeout,
			UserAgent: cfg.UserAgent,
		}, log),
	}

	var pageCache domain.PageCache
	if cfg.RedisURL != "" {
		cache, err := adaptors.NewRedisCache(ctx, adaptors.RedisCacheConfig{URL: cfg.RedisURL}, log)
		if err != nil {
			log.WithError(err).Warn(`page cache disabled`)
		} else {
			app.cache = cache
			pageCache = cache
		}
	}

	fetcher := service.NewPageFetcher(log, app.client, pageCache, cfg.CacheTTL)
	app.auditor = service.NewAuditor(log, fetcher, service.AuditorConfig{Workers: cfg.Workers})
	return app
}

// OpenStore enables audit history. Audits run before it is called are not saved.
func (a *App) OpenStore(ctx context.Context) (domain.AuditStore, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := adaptors.OpenSQLiteStore(ctx, a.cfg.DBDir, a.log)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

// AuditSite discovers every published post and page of a WordPress site and
// audits them. The result is saved when a store is open.
func (a *App) AuditSite(ctx context.Context, site string) (*models.Audit, error) {
	source, err := adaptors.NewWordPressSource(adaptors.WordPressSourceConfig{
		BaseURL: site,
		PerPage: a.cfg.PerPage,
		Delay:   a.cfg.PaginationDelay,
	}, a.client, a.log)
	if err != nil {
		return nil, err
	}

	audit, err := a.auditor.Audit(ctx, site, source)
	if err != nil {
		return nil, err
	}

	if a.store != nil {
		if err := a.store.Save(ctx, audit); err != nil {
			a.log.WithError(err).WithField("audit_id", audit.ID).Error(`failed to save audit`)
			return audit, errors.Wrap(err, `audit finished but could not be saved`)
		}
	}
	return audit, nil
}

// ReadinessChecks returns a ping per open backend, keyed by backend name.
func (a *App) ReadinessChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{}
	if a.store != nil {
		checks["store"] = a.store.Ping
	}
	if a.cache != nil {
		checks["cache"] = a.cache.Ping
	}
	return checks
}

// AnalyzePage fetches and analyses a single URL.
func (a *App) AnalyzePage(ctx context.Context, pageURL string) models.PageFinding {
	return a.auditor.AnalyzePage(ctx, pageURL)
}

func (a *App) Close() error {
	var errs []error
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}

// NormalizeSiteURL trims input and prefixes https:// when no scheme is given.
func NormalizeSiteURL(input string) string {
	site := strings.TrimSpace(input)
	if site != "" && !strings.HasPrefix(site, "http") {
		site = "https://" + site
	}
	return site
}

// ValidateURL accepts absolute http and https URLs only.
func ValidateURL(raw string) error {
	if raw == "" {
		return errors.New("url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrap(err, `failed to parse url`)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url is invalid")
	}
	if u.Host == "" {
		return errors.New("url has no host")
	}
	return nil
}
