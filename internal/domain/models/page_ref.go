package models

type ContentType string

const (
	ContentTypePost ContentType = "post"
	ContentTypePage ContentType = "page"
)

// PageRef identifies one published page to audit, as reported by the content source.
type PageRef struct {
	URL         string      `json:"url" yaml:"url"`
	Title       string      `json:"title" yaml:"title"`
	ContentType ContentType `json:"content_type" yaml:"content_type"`
}
