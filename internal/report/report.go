// Package report renders validation issues as a delimited text report that
// spreadsheet applications open directly.
package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/bep-cli/internal/model"
)

// bom makes spreadsheet applications read the file as UTF-8.
var bom = []byte{0xEF, 0xBB, 0xBF}

// Header is the first line of every report.
var Header = []string{"code", "field", "message"}

// CSV renders issues as a BOM-prefixed CSV document. Fields containing the
// delimiter, a quote or a line break are quoted with inner quotes doubled.
func CSV(issues []model.ValidationIssue) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(bom)

	w := csv.NewWriter(&buf)
	if err := w.Write(Header); err != nil {
		return nil, eris.Wrap(err, "report: write header")
	}
	for i, is := range issues {
		if err := w.Write([]string{string(is.Code), is.Field, is.Message}); err != nil {
			return nil, eris.Wrapf(err, "report: write issue %d", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, eris.Wrap(err, "report: flush")
	}
	return buf.Bytes(), nil
}

// FileName returns the default report name for an uploaded file:
// validation-errors-<source base name>.csv.
func FileName(source string) string {
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload"
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return "validation-errors-" + base + ".csv"
}
