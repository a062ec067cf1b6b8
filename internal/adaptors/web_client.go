package adaptors

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"seo_auditor/internal/domain/models"
	"seo_auditor/internal/pkg/errors"
	"seo_auditor/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
)

const DefaultUserAgent = "Mozilla/5.0 (compatible; SEO Analyzer/1.0)"

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 10 << 20

type WebClientConfig struct {
	Timeout   time.Duration
	UserAgent string
}

type WebClient struct {
	client    *http.Client
	userAgent string
	log       *log.Logger
}

func NewWebClient(cfg WebClientConfig, log *log.Logger) *WebClient {
	rTripper := promhttp.InstrumentRoundTripperDuration(
		metrics.HTTPClientRequestDuration,
		promhttp.InstrumentRoundTripperCounter(metrics.HTTPClientRequestsTotal, http.DefaultTransport))

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &WebClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: rTripper,
		},
		userAgent: userAgent,
		log:       log,
	}
}

// Do performs the request and reads the whole body. Transport failures are
// returned as errors; any HTTP status, including 4xx and 5xx, is a response.
func (w *WebClient) Do(ctx context.Context, url string, method string) (*models.WebResponse, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		w.log.WithError(err).Error(`failed to create request`)
		return nil, errors.Wrap(err, `failed to create request`)
	}

	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := w.client.Do(req)
	if err != nil {
		w.log.WithError(err).WithField(`url`, url).Debug(`request failed`)
		return nil, err
	}
	defer resp.Body.Close()

	bodyByte, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		w.log.Errorf(`failed to read response body. error: %v`, err)
		return nil, errors.Wrap(err, `failed to read response body`)
	}

	finalURL := req.URL.String()
	if resp.Request != nil {
		finalURL = resp.Request.URL.String()
	}

	return &models.WebResponse{
		URL:        finalURL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       w.decode(bodyByte, resp.Header.Get("Content-Type")),
	}, nil
}

// decode converts text bodies to UTF-8 using the declared or sniffed charset.
func (w *WebClient) decode(body []byte, contentType string) []byte {
	if contentType != "" {
		mediaType, _, err := mime.ParseMediaType(contentType)
		if err == nil && !strings.HasPrefix(mediaType, "text/") && !strings.HasSuffix(mediaType, "xml") {
			return body
		}
	}

	r, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		w.log.WithError(err).Debug(`unknown charset, keeping raw body`)
		return body
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return body
	}
	return decoded
}
