// Package intake runs an uploaded workbook through detection, parsing and
// validation.
package intake

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bep-cli/internal/importer"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/validate"
)

// ErrUnrecognizedFormat is returned when a workbook is neither an export nor a
// raw cost sheet.
var ErrUnrecognizedFormat = eris.New("intake: unrecognized workbook; expected a BEP export or a raw cost sheet")

// ItemOutcome is the validation of one raw-sheet row.
type ItemOutcome struct {
	Row    int                    `json:"row"`
	Name   string                 `json:"name"`
	Result model.ValidationResult `json:"result"`
}

// Outcome is the result of importing one workbook. Exports fill Single; raw
// sheets fill Items and Duplicates.
type Outcome struct {
	Format     importer.Format         `json:"format"`
	FileName   string                  `json:"file_name,omitempty"`
	Single     *model.ValidationResult `json:"single,omitempty"`
	Items      []ItemOutcome           `json:"items,omitempty"`
	Duplicates []model.ValidationIssue `json:"duplicates,omitempty"`
}

// Issues flattens every issue in the outcome. Item issues are prefixed with
// their row so one report can cover a whole raw sheet.
func (o Outcome) Issues() []model.ValidationIssue {
	var out []model.ValidationIssue
	if o.Single != nil {
		out = append(out, o.Single.Issues...)
	}
	for _, it := range o.Items {
		for _, iss := range it.Result.Issues {
			iss.Message = rowPrefix(it.Row) + iss.Message
			out = append(out, iss)
		}
	}
	return append(out, o.Duplicates...)
}

// OK reports whether every record in the outcome validated.
func (o Outcome) OK() bool {
	if o.Single != nil && !o.Single.OK {
		return false
	}
	for _, it := range o.Items {
		if !it.Result.OK {
			return false
		}
	}
	return len(o.Duplicates) == 0
}

// Valid returns the validated records in sheet order.
func (o Outcome) Valid() []model.CalculationInputs {
	var out []model.CalculationInputs
	if o.Single != nil && o.Single.OK {
		out = append(out, *o.Single.Value)
	}
	for _, it := range o.Items {
		if it.Result.OK {
			out = append(out, *it.Result.Value)
		}
	}
	return out
}

// Service imports workbooks.
type Service struct {
	opts      importer.Options
	validator *validate.Validator
}

// New creates a Service.
func New(opts importer.Options) *Service {
	return &Service{opts: opts, validator: validate.New()}
}

// Import detects the workbook format and parses and validates its contents.
// File-level failures return an error; data problems are reported in the
// outcome.
func (s *Service) Import(ctx context.Context, data []byte, filename string) (*Outcome, error) {
	start := time.Now()
	log := zap.L().With(zap.String("file", filename), zap.Int("bytes", len(data)))

	format := importer.Detect(data, s.opts)
	log.Info("intake: format detected", zap.String("format", string(format)))

	out := &Outcome{Format: format, FileName: filename}
	switch format {
	case importer.FormatExport:
		cand, err := importer.ParseExport(data)
		if err != nil {
			log.Warn("intake: export parse failed", zap.Error(err))
			return nil, err
		}
		res := s.validator.Validate(cand)
		out.Single = &res
		log.Info("intake: export validated",
			zap.Bool("ok", res.OK),
			zap.Int("issues", len(res.Issues)),
		)

	case importer.FormatRaw:
		rows, err := importer.ParseRaw(ctx, data, s.opts)
		if err != nil {
			log.Warn("intake: raw parse failed", zap.Error(err))
			return nil, err
		}
		s.validateItems(out, rows)
		log.Info("intake: raw sheet validated",
			zap.Int("items", len(out.Items)),
			zap.Int("valid", len(out.Valid())),
			zap.Int("duplicates", len(out.Duplicates)),
		)

	default:
		log.Warn("intake: unrecognized workbook")
		return nil, ErrUnrecognizedFormat
	}

	log.Debug("intake: import complete", zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

func (s *Service) validateItems(out *Outcome, rows []model.RawItemRow) {
	items := make([]validate.Item, 0, len(rows))
	out.Items = make([]ItemOutcome, 0, len(rows))
	for _, r := range rows {
		cand := r.Candidate()
		out.Items = append(out.Items, ItemOutcome{
			Row:    r.Row,
			Name:   r.Name,
			Result: s.validator.Validate(cand),
		})
		items = append(items, validate.Item{Row: r.Row, Name: r.Name, Candidate: cand})
	}
	out.Duplicates = validate.DetectDuplicates(items)
}

func rowPrefix(row int) string {
	return fmt.Sprintf("row %d: ", row)
}
