package adaptors

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	domain "seo_auditor/internal/domain/adaptors"
	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/pkg/metrics"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	wpAPIPath      = "/wp-json/wp/v2/"
	wpUntitled     = "No Title"
	wpMaxPerPage   = 100
	DefaultPerPage = 50
)

type WordPressSourceConfig struct {
	BaseURL string
	PerPage int
	// Delay is the minimum spacing between two pagination requests.
	Delay time.Duration
}

// WordPressSource discovers published posts and pages through the WordPress REST API.
type WordPressSource struct {
	apiURL  *url.URL
	perPage int
	client  domain.WebClient
	limiter *rate.Limiter
	log     *log.Logger
}

type wpCollection struct {
	name        string
	contentType models.ContentType
}

var wpCollections = []wpCollection{
	{name: "posts", contentType: models.ContentTypePost},
	{name: "pages", contentType: models.ContentTypePage},
}

type wpItem struct {
	Title *struct {
		Rendered *string `json:"rendered"`
	} `json:"title"`
	Link string `json:"link"`
}

func NewWordPressSource(cfg WordPressSourceConfig, client domain.WebClient, log *log.Logger) (*WordPressSource, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, errors.Wrap(err, `failed to parse site url`)
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, errors.New("site url is invalid")
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if perPage > wpMaxPerPage {
		perPage = wpMaxPerPage
	}

	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}

	return &WordPressSource{
		apiURL:  base.ResolveReference(&url.URL{Path: wpAPIPath}),
		perPage: perPage,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		log:     log,
	}, nil
}

// Discover walks the posts collection and then the pages collection. Each
// collection stops at the first empty page, failed request or malformed payload;
// everything gathered up to that point is kept.
func (s *WordPressSource) Discover(ctx context.Context) []models.PageRef {
	var refs []models.PageRef
	for _, c := range wpCollections {
		refs = append(refs, s.discoverCollection(ctx, c)...)
	}
	return refs
}

func (s *WordPressSource) discoverCollection(ctx context.Context, c wpCollection) []models.PageRef {
	endpoint := s.apiURL.ResolveReference(&url.URL{Path: c.name})
	logger := s.log.WithFields(log.Fields{`collection`: c.name, `endpoint`: endpoint.String()})
	logger.Infof(`fetching %ss`, c.contentType)

	var refs []models.PageRef
	for page := 1; ; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			logger.WithError(err).Warn(`discovery interrupted`)
			return refs
		}

		items, outcome := s.fetchPage(ctx, endpoint, page, logger)
		metrics.DiscoveryRequestsTotal.WithLabelValues(c.name, outcome).Inc()
		if len(items) == 0 {
			return refs
		}

		for _, item := range items {
			if item.Link == "" {
				logger.Warn(`skipping item without link`)
				continue
			}
			title := wpUntitled
			if item.Title != nil && item.Title.Rendered != nil {
				title = *item.Title.Rendered
			}
			refs = append(refs, models.PageRef{
				URL:         item.Link,
				Title:       title,
				ContentType: c.contentType,
			})
		}
		logger.Infof(`page %d: %d %s(s)`, page, len(items), c.contentType)
	}
}

func (s *WordPressSource) fetchPage(ctx context.Context, endpoint *url.URL, page int, logger *log.Entry) ([]wpItem, string) {
	u := *endpoint
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(s.perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("status", "publish")
	u.RawQuery = q.Encode()

	resp, err := s.client.Do(ctx, u.String(), http.MethodGet)
	if err != nil {
		logger.WithError(err).Error(`request failed`)
		return nil, "error"
	}

	if (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound) && page > 1 {
		logger.Infof(`pagination ended (status %d)`, resp.StatusCode)
		return nil, "end"
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		entry := logger.WithFields(log.Fields{`status`: resp.StatusCode, `url`: u.String()})
		if page == 1 {
			entry.Error(`content listing failed, check if the REST API is blocked or the site is down`)
		} else {
			entry.Error(`content listing failed`)
		}
		return nil, "status_error"
	}

	var items []wpItem
	if err := json.Unmarshal(resp.Body, &items); err != nil {
		entry := logger.WithError(err).WithField(`body`, preview(resp.Body))
		if json.Valid(resp.Body) {
			entry.Error(`unexpected response format`)
		} else if page == 1 {
			entry.Error(`failed to parse JSON, likely blocked by a security plugin or redirect`)
		} else {
			entry.Error(`failed to parse JSON`)
		}
		return nil, "malformed"
	}
	if len(items) == 0 {
		return nil, "empty"
	}
	return items, "ok"
}

func preview(body []byte) string {
	const n = 200
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
