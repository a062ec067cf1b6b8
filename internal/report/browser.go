package report

import (
	"path/filepath"

	"seo_auditor/internal/pkg/errors"

	"github.com/pkg/browser"
)

// openFile is swapped in tests.
var openFile = browser.OpenFile

// OpenInBrowser opens a written report with the desktop's default handler.
func OpenInBrowser(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, `failed to resolve report path`)
	}
	if err := openFile(abs); err != nil {
		return errors.Wrap(err, `failed to open report in browser`)
	}
	return nil
}
