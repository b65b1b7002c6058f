package exporter

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/bep-cli/internal/importer"
	"github.com/sells-group/bep-cli/internal/labels"
	"github.com/sells-group/bep-cli/internal/model"
)

const timestampLayout = "2006-01-02 15:04:05"

// Built-in excelize number formats.
const (
	numFmtThousands = 3  // #,##0
	numFmtPercent   = 10 // 0.00%
)

type styles struct {
	header  int
	section int
	number  int
	percent int
}

func newStyles(f *excelize.File) (styles, error) {
	var (
		s   styles
		err error
	)
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	}); err != nil {
		return s, eris.Wrap(err, "exporter: header style")
	}
	if s.section, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return s, eris.Wrap(err, "exporter: section style")
	}
	if s.number, err = f.NewStyle(&excelize.Style{NumFmt: numFmtThousands}); err != nil {
		return s, eris.Wrap(err, "exporter: number style")
	}
	if s.percent, err = f.NewStyle(&excelize.Style{NumFmt: numFmtPercent}); err != nil {
		return s, eris.Wrap(err, "exporter: percent style")
	}
	return s, nil
}

// sheetWriter appends rows to one sheet, tracking the next free row.
type sheetWriter struct {
	f    *excelize.File
	name string
	row  int
	err  error
}

func newSheetWriter(f *excelize.File, name string) *sheetWriter {
	return &sheetWriter{f: f, name: name, row: 1}
}

// add writes values from column A. The first error sticks and later calls
// become no-ops.
func (w *sheetWriter) add(values ...any) *sheetWriter {
	if w.err != nil {
		return w
	}
	if len(values) > 0 {
		cell, err := excelize.CoordinatesToCellName(1, w.row)
		if err != nil {
			w.err = err
			return w
		}
		if err := w.f.SetSheetRow(w.name, cell, &values); err != nil {
			w.err = err
			return w
		}
	}
	w.row++
	return w
}

// style applies a style to columns [from, to] of the row just written.
func (w *sheetWriter) style(from, to, style int) *sheetWriter {
	if w.err != nil {
		return w
	}
	r := w.row - 1
	hcell, err := excelize.CoordinatesToCellName(from, r)
	if err != nil {
		w.err = err
		return w
	}
	vcell, err := excelize.CoordinatesToCellName(to, r)
	if err != nil {
		w.err = err
		return w
	}
	w.err = w.f.SetCellStyle(w.name, hcell, vcell, style)
	return w
}

func (w *sheetWriter) widths(widths ...float64) *sheetWriter {
	for i, width := range widths {
		if w.err != nil {
			return w
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			w.err = err
			return w
		}
		w.err = w.f.SetColWidth(w.name, col, col, width)
	}
	return w
}

func writeSummary(f *excelize.File, st styles, snap Snapshot, _ Options, now time.Time) error {
	in, res := snap.Inputs, snap.Result
	w := newSheetWriter(f, importer.SheetSummary).widths(24, 20)

	w.add("손익분기점 분석 요약").style(1, 1, st.section)
	w.add("생성일시", now.Format(timestampLayout))
	w.add()
	w.add("지표", "값").style(1, 2, st.header)
	w.add("판매가", in.Price).style(2, 2, st.number)
	w.add("단위당 변동비", in.UnitCost).style(2, 2, st.number)
	w.add("고정비", in.FixedCost).style(2, 2, st.number)
	if in.TargetProfit != nil {
		w.add("목표 이익", *in.TargetProfit).style(2, 2, st.number)
	}
	w.add("공헌이익률", res.MarginRatio).style(2, 2, st.percent)
	w.add("손익분기점 수량", res.BreakEvenQty).style(2, 2, st.number)
	w.add("손익분기점 매출", res.BreakEvenRevenue).style(2, 2, st.number)
	w.add("목표 달성 수량", res.TargetQty).style(2, 2, st.number)
	w.add("예상 이익", res.ProjectedProfit).style(2, 2, st.number)
	return w.err
}

// writeInputs lays out the re-import target. Column A holds labels the
// importer resolves through the dictionary, column B the values. Columns C
// and D are informational and ignored on import.
func writeInputs(f *excelize.File, st styles, snap Snapshot, opts Options, _ time.Time) error {
	in := snap.Inputs
	d := opts.Dictionary
	w := newSheetWriter(f, importer.SheetInputs).widths(24, 18, 12, 28)

	w.add("항목", "값", "비율", "검증").style(1, 4, st.header)

	w.add(sectionLabel(d, labels.SectionBase)).style(1, 1, st.section)
	w.add(d.Label(labels.SectionBase, model.FieldPrice), in.Price).style(2, 2, st.number)
	w.add(d.Label(labels.SectionBase, model.FieldUnitCost), in.UnitCost).style(2, 2, st.number)
	w.add(d.Label(labels.SectionBase, model.FieldFixedCost), in.FixedCost).style(2, 2, st.number)
	if in.TargetProfit != nil {
		w.add(d.Label(labels.SectionBase, model.FieldTargetProfit), *in.TargetProfit).style(2, 2, st.number)
	}

	if vd := in.VariableCostDetail; vd != nil {
		writeBreakdown(w, st, d, labels.SectionVariable, vd.Components(), in.UnitCost)
	}
	if fd := in.FixedCostDetail; fd != nil {
		writeBreakdown(w, st, d, labels.SectionFixed, fd.Components(), in.FixedCost)
	}
	return w.err
}

func sectionLabel(d *labels.Dictionary, section string) string {
	return "■ " + d.Header(section)
}

func writeBreakdown(w *sheetWriter, st styles, d *labels.Dictionary, section string, comps []model.Component, aggregate float64) {
	w.add()
	w.add(sectionLabel(d, section)).style(1, 1, st.section)

	var sum float64
	for _, c := range comps {
		sum += c.Value
		w.add("  - "+d.Label(section, c.Key), c.Value, share(c.Value, aggregate)).
			style(2, 2, st.number).
			style(3, 3, st.percent)
	}
	w.add("  합계", sum, share(sum, aggregate), matchIndicator(sum, aggregate)).
		style(2, 2, st.number).
		style(3, 3, st.percent)
}

func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total
}

func matchIndicator(sum, aggregate float64) string {
	if sumMatches(sum, aggregate) {
		return "✓ 일치"
	}
	return fmt.Sprintf("✗ 불일치 (차이 %.2f)", sum-aggregate)
}

func writeResults(f *excelize.File, st styles, snap Snapshot, _ Options, _ time.Time) error {
	in, res := snap.Inputs, snap.Result
	w := newSheetWriter(f, importer.SheetResults).widths(24, 20)

	w.add("지표", "값").style(1, 2, st.header)
	w.add("공헌이익", res.ContributionMargin).style(2, 2, st.number)
	w.add("공헌이익률", res.MarginRatio).style(2, 2, st.percent)
	w.add("손익분기점 수량", res.BreakEvenQty).style(2, 2, st.number)
	w.add("손익분기점 매출", res.BreakEvenRevenue).style(2, 2, st.number)
	w.add("목표 이익", in.Target()).style(2, 2, st.number)
	w.add("목표 달성 수량", res.TargetQty).style(2, 2, st.number)
	w.add("목표 달성 매출", res.TargetRevenue).style(2, 2, st.number)
	w.add("예상 이익", res.ProjectedProfit).style(2, 2, st.number)
	return w.err
}

func writeSensitivity(f *excelize.File, st styles, snap Snapshot, _ Options, _ time.Time) error {
	w := newSheetWriter(f, importer.SheetSensitivity).widths(14, 16, 16, 18, 18)

	w.add("구분", "판매가", "단위당 변동비", "손익분기점 수량", "예상 이익").style(1, 5, st.header)
	groups := []struct {
		name string
		rows []model.SensitivityRow
	}{
		{"가격 변동", snap.PriceVariation},
		{"원가 변동", snap.CostVariation},
	}
	for _, g := range groups {
		for _, r := range g.rows {
			w.add(g.name, r.Price, r.UnitCost, r.BEP, r.Profit).style(2, 5, st.number)
		}
	}
	return w.err
}

func writeValidation(f *excelize.File, st styles, snap Snapshot, _ Options, _ time.Time) error {
	checks := Checks(snap.Inputs)
	w := newSheetWriter(f, importer.SheetValidation).widths(30, 10, 40)

	w.add("검증 항목", "결과", "상세").style(1, 3, st.header)
	passed := 0
	for _, c := range checks {
		result := "FAIL"
		if c.Passed {
			result = "PASS"
			passed++
		}
		w.add(c.Name, result, c.Detail)
	}
	w.add()
	w.add("통과", passed)
	w.add("실패", len(checks)-passed)
	w.add("무결성 점수 (%)", IntegrityScore(checks))
	return w.err
}

func writeReadme(f *excelize.File, st styles, _ Snapshot, opts Options, now time.Time) error {
	w := newSheetWriter(f, importer.SheetReadme).widths(90)

	w.add("BEP 내보내기 파일 안내").style(1, 1, st.section)
	w.add()
	w.add("이 파일은 다시 가져오기(import)할 수 있습니다. 가져오기는 'Inputs' 시트만 읽습니다.")
	w.add("Inputs 시트의 B열 값만 수정하세요. 시트 이름, 행 순서, 항목 이름(A열)을 바꾸면 가져오기에 실패할 수 있습니다.")
	w.add("시트를 추가하거나 삭제하지 마세요.")
	w.add("변동비/고정비 상세 항목의 합계는 단위당 변동비/고정비와 같아야 합니다 (허용 오차 0.01).")
	w.add()
	w.add("시트 구성: Summary, Inputs, Results, Sensitivity, Validation, Readme")
	w.add(fmt.Sprintf("라벨 사전 버전: %d", opts.Dictionary.Version))
	w.add("생성일시: " + now.Format(timestampLayout))
	return w.err
}
