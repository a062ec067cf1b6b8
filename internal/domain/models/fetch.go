package models

import (
	"fmt"
	"net/http"

	"seo_auditor/internal/pkg/errors"
)

// WebResponse is a fully read HTTP response. Body is UTF-8 decoded when the
// response declared a text content type.
type WebResponse struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

type FetchErrorKind string

const (
	FetchErrorTimeout   FetchErrorKind = "timeout"
	FetchErrorStatus    FetchErrorKind = "status"
	FetchErrorTransport FetchErrorKind = "transport"
)

// FetchError describes why a page's markup could not be retrieved.
type FetchError struct {
	Kind       FetchErrorKind
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	return "fetch " + e.URL + ": " + e.Reason()
}

// Reason is the text recorded after "Failed to load: " in a degraded finding.
func (e *FetchError) Reason() string {
	switch e.Kind {
	case FetchErrorStatus:
		return fmt.Sprintf("%d %s for url: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
	case FetchErrorTimeout:
		return "request timed out for url: " + e.URL
	default:
		if e.Err != nil {
			return errors.Summary(e.Err)
		}
		return "request failed for url: " + e.URL
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
