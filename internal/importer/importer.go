// Package importer classifies uploaded workbooks and parses them into
// candidate input records for validation.
//
// Two layouts are recognized: the multi-item sheet of the source costing
// tool (ParseRaw) and workbooks previously written by the exporter
// (ParseExport). File-level failures are returned as errors; data problems
// are left in the candidates for the validator to report.
package importer

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/bep-cli/internal/fetcher"
)

// Sheet names of an exported workbook.
const (
	SheetSummary     = "Summary"
	SheetInputs      = "Inputs"
	SheetResults     = "Results"
	SheetSensitivity = "Sensitivity"
	SheetValidation  = "Validation"
	SheetReadme      = "Readme"
)

// Defaults for the raw multi-item layout.
const (
	DefaultRawSheetName  = "원가계산표"
	DefaultRawHeaderRows = 7
)

// Errors returned for files that cannot be read at all. Test with errors.Is.
var (
	ErrDecode        = fetcher.ErrDecode
	ErrSheetNotFound = fetcher.ErrSheetNotFound
)

// Options configures detection and raw parsing.
type Options struct {
	RawSheetName  string `yaml:"raw_sheet_name" mapstructure:"raw_sheet_name"`
	RawHeaderRows int    `yaml:"raw_header_rows" mapstructure:"raw_header_rows"`
}

func (o Options) withDefaults() Options {
	if o.RawSheetName == "" {
		o.RawSheetName = DefaultRawSheetName
	}
	if o.RawHeaderRows <= 0 {
		o.RawHeaderRows = DefaultRawHeaderRows
	}
	return o
}

// fileError attaches the user-facing message shown when a workbook cannot be
// used at all.
func fileError(err error, what string) error {
	return eris.Wrapf(err, "importer: could not read %s; upload an unmodified .xlsx file", what)
}
