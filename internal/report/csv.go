package report

import (
	"encoding/csv"
	"io"

	"seo_auditor/internal/domain/models"
)

// CSVWriter writes one row per page in crawl order, under the Columns header.
type CSVWriter struct{}

func (CSVWriter) Write(w io.Writer, audit *models.Audit) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	if audit.Report != nil {
		for _, rec := range NewRecords(CrawlOrder(audit.Report)) {
			if err := cw.Write(rec.Values()); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
