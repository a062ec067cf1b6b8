package adaptors

import (
	"context"
	"time"
)

// PageCache stores fetched markup by URL.
type PageCache interface {
	Get(ctx context.Context, url string) (markup string, found bool, err error)
	Set(ctx context.Context, url string, markup string, ttl time.Duration) error
}
