package importer

import (
	"bytes"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Format classifies an uploaded workbook.
type Format string

const (
	FormatExport  Format = "export"
	FormatRaw     Format = "raw"
	FormatUnknown Format = "unknown"
)

// Detect classifies a workbook from its sheet names alone. Unreadable input
// is FormatUnknown; it is up to the caller to report the failure.
func Detect(data []byte, opts Options) Format {
	opts = opts.withDefaults()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		zap.L().Debug("detect: unreadable workbook", zap.Error(err))
		return FormatUnknown
	}
	defer f.Close() //nolint:errcheck

	return Classify(f.GetSheetList(), opts)
}

// Classify applies the detection rules to a list of sheet names.
func Classify(sheets []string, opts Options) Format {
	opts = opts.withDefaults()

	present := make(map[string]bool, len(sheets))
	for _, s := range sheets {
		present[s] = true
	}

	if present[SheetInputs] && present[SheetResults] && present[SheetSensitivity] {
		return FormatExport
	}
	if present[opts.RawSheetName] {
		return FormatRaw
	}
	return FormatUnknown
}
