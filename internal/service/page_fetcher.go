package service

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"seo_auditor/internal/domain/adaptors"
	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

// PageFetcher retrieves the markup of one page, optionally through a cache.
type PageFetcher struct {
	log      *log.Logger
	client   adaptors.WebClient
	cache    adaptors.PageCache
	cacheTTL time.Duration
}

// NewPageFetcher builds a fetcher. cache may be nil.
func NewPageFetcher(log *log.Logger, client adaptors.WebClient, cache adaptors.PageCache, cacheTTL time.Duration) *PageFetcher {
	return &PageFetcher{
		log:      log,
		client:   client,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Fetch returns the markup of pageURL. Failures are always *models.FetchError.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if markup, ok := f.fromCache(ctx, pageURL); ok {
		return markup, nil
	}

	resp, err := f.client.Do(ctx, pageURL, http.MethodGet)
	if err != nil {
		return "", &models.FetchError{Kind: classify(err), URL: pageURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &models.FetchError{Kind: models.FetchErrorStatus, URL: pageURL, StatusCode: resp.StatusCode}
	}

	markup := string(resp.Body)
	f.toCache(ctx, pageURL, markup)
	return markup, nil
}

func (f *PageFetcher) fromCache(ctx context.Context, pageURL string) (string, bool) {
	if f.cache == nil {
		return "", false
	}
	markup, found, err := f.cache.Get(ctx, pageURL)
	switch {
	case err != nil:
		metrics.PageCacheTotal.WithLabelValues("error").Inc()
		f.log.WithError(err).WithField("url", pageURL).Warn(`page cache lookup failed`)
		return "", false
	case !found:
		metrics.PageCacheTotal.WithLabelValues("miss").Inc()
		return "", false
	}
	metrics.PageCacheTotal.WithLabelValues("hit").Inc()
	f.log.WithField("url", pageURL).Debug(`markup served from cache`)
	return markup, true
}

func (f *PageFetcher) toCache(ctx context.Context, pageURL, markup string) {
	if f.cache == nil {
		return
	}
	if err := f.cache.Set(ctx, pageURL, markup, f.cacheTTL); err != nil {
		f.log.WithError(err).WithField("url", pageURL).Warn(`failed to cache markup`)
	}
}

func classify(err error) models.FetchErrorKind {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return models.FetchErrorTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return models.FetchErrorTimeout
	}
	return models.FetchErrorTransport
}
