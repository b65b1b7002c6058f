// Package exporter writes a validated record and everything derived from it
// into a six-sheet workbook. The Inputs sheet uses the same label dictionary
// as the importer, so an exported file can be uploaded again unchanged.
package exporter

import (
	"bytes"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/bep-cli/internal/breakeven"
	"github.com/sells-group/bep-cli/internal/importer"
	"github.com/sells-group/bep-cli/internal/labels"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/sensitivity"
)

// SheetOrder is the order sheets appear in every export.
var SheetOrder = []string{
	importer.SheetSummary,
	importer.SheetInputs,
	importer.SheetResults,
	importer.SheetSensitivity,
	importer.SheetValidation,
	importer.SheetReadme,
}

// ErrNotUsable is returned when the record has no positive contribution margin.
var ErrNotUsable = eris.New("exporter: price must exceed unit cost")

// Snapshot is the data an export is built from.
type Snapshot struct {
	Inputs         model.CalculationInputs
	Result         model.Result
	PriceVariation []model.SensitivityRow
	CostVariation  []model.SensitivityRow
}

// NewSnapshot derives results and the sensitivity table from a validated
// record.
func NewSnapshot(in model.CalculationInputs) (Snapshot, error) {
	res, ok := breakeven.Calculate(in)
	if !ok {
		return Snapshot{}, ErrNotUsable
	}
	return Snapshot{
		Inputs:         in,
		Result:         res,
		PriceVariation: sensitivity.PriceVariation(in),
		CostVariation:  sensitivity.CostVariation(in),
	}, nil
}

// Sensitivity returns the full export table, price rows first.
func (s Snapshot) Sensitivity() []model.SensitivityRow {
	out := make([]model.SensitivityRow, 0, len(s.PriceVariation)+len(s.CostVariation))
	out = append(out, s.PriceVariation...)
	return append(out, s.CostVariation...)
}

// Options customizes an export.
type Options struct {
	// FileName overrides DefaultFileName.
	FileName   string
	Now        func() time.Time
	Dictionary *labels.Dictionary
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Dictionary == nil {
		o.Dictionary = labels.Default()
	}
	return o
}

// DefaultFilePrefix starts every default export file name.
const DefaultFilePrefix = "BEP_Export"

// DefaultFileName is BEP_Export_<YYYY-MM-DD>.xlsx.
func DefaultFileName(t time.Time) string {
	return PrefixedFileName(DefaultFilePrefix, t)
}

// PrefixedFileName is <prefix>_<YYYY-MM-DD>.xlsx.
func PrefixedFileName(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = DefaultFilePrefix
	}
	return prefix + "_" + t.Format("2006-01-02") + ".xlsx"
}

// Workbook is a built export. Close releases excelize resources.
type Workbook struct {
	Name string
	file *excelize.File
}

// Build assembles the workbook in SheetOrder.
func Build(snap Snapshot, opts Options) (*Workbook, error) {
	opts = opts.withDefaults()
	now := opts.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetOrder[0]); err != nil {
		f.Close() //nolint:errcheck
		return nil, eris.Wrap(err, "exporter: rename first sheet")
	}
	for _, name := range SheetOrder[1:] {
		if _, err := f.NewSheet(name); err != nil {
			f.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "exporter: add sheet %s", name)
		}
	}
	f.SetActiveSheet(0)

	st, err := newStyles(f)
	if err != nil {
		f.Close() //nolint:errcheck
		return nil, err
	}

	writers := []func(*excelize.File, styles, Snapshot, Options, time.Time) error{
		writeSummary,
		writeInputs,
		writeResults,
		writeSensitivity,
		writeValidation,
		writeReadme,
	}
	for i, write := range writers {
		if err := write(f, st, snap, opts, now); err != nil {
			f.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "exporter: write %s", SheetOrder[i])
		}
	}

	name := opts.FileName
	if name == "" {
		name = DefaultFileName(now)
	}
	return &Workbook{Name: name, file: f}, nil
}

// Write streams the workbook as xlsx.
func (w *Workbook) Write(out io.Writer) error {
	return eris.Wrap(w.file.Write(out), "exporter: write workbook")
}

// Bytes returns the encoded workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	return eris.Wrapf(w.file.SaveAs(path), "exporter: save %s", path)
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}
