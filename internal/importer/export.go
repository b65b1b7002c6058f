package importer

import (
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/bep-cli/internal/fetcher"
	"github.com/sells-group/bep-cli/internal/labels"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/numeric"
)

// ParseExport reads the Inputs sheet of an exported workbook into a candidate
// record using the embedded label dictionary.
func ParseExport(data []byte) (model.Candidate, error) {
	return ParseExportWith(data, labels.Default())
}

// ParseExportWith is ParseExport with an explicit label dictionary.
//
// Each row is read as [label, value]. A section header row switches the
// active section and labels resolve only within it. Rows before the first
// header belong to the base section. Breakdowns are attached only when at
// least one component is positive.
func ParseExportWith(data []byte, dict *labels.Dictionary) (model.Candidate, error) {
	rows, err := fetcher.ReadXLSX(data, fetcher.XLSXOptions{SheetName: SheetInputs})
	if err != nil {
		return nil, fileError(err, "the Inputs sheet")
	}

	cand := model.Candidate{}
	variable := model.Candidate{}
	fixed := model.Candidate{}
	section := labels.SectionBase
	matched := 0

	for _, row := range rows {
		label := dict.Clean(cell(row, 0))
		if label == "" {
			continue
		}
		if s, ok := dict.SectionFor(label); ok {
			section = s
			continue
		}
		key, ok := dict.Field(section, label)
		if !ok {
			continue
		}
		matched++

		val := cellValue(cell(row, 1))
		switch section {
		case labels.SectionVariable:
			variable[key] = val
		case labels.SectionFixed:
			fixed[key] = val
		default:
			cand[key] = val
		}
	}

	if anyPositive(variable) {
		cand[model.FieldVariableCostDetail] = variable
	}
	if anyPositive(fixed) {
		cand[model.FieldFixedCostDetail] = fixed
	}

	zap.L().Debug("importer: inputs sheet parsed",
		zap.Int("rows", len(rows)),
		zap.Int("matched", matched),
		zap.Int("dictionary_version", dict.Version),
	)
	return cand, nil
}

// cellValue keeps blank cells as "" and unparseable text verbatim so the
// validator can tell empty values from type errors.
func cellValue(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	n := numeric.Normalize(s)
	if !numeric.IsFinite(n) {
		return s
	}
	return n
}

func anyPositive(c model.Candidate) bool {
	for _, v := range c {
		if n, ok := v.(float64); ok && n > 0 {
			return true
		}
	}
	return false
}
