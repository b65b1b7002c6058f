package intake

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/bep-cli/internal/exporter"
	"github.com/sells-group/bep-cli/internal/importer"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/numeric"
)

func exportedWorkbook(t *testing.T, in model.CalculationInputs) []byte {
	t.Helper()
	snap, err := exporter.NewSnapshot(in)
	require.NoError(t, err)
	wb, err := exporter.Build(snap, exporter.Options{})
	require.NoError(t, err)
	defer wb.Close() //nolint:errcheck
	data, err := wb.Bytes()
	require.NoError(t, err)
	return data
}

// workbook writes each named sheet with rows starting at A1.
func workbook(t *testing.T, sheets map[string][][]any, order ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck
	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			vals := row
			require.NoError(t, f.SetSheetRow(name, cell, &vals))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func rawSheet(items ...[]any) [][]any {
	rows := [][]any{
		{"원가 계산표"}, {}, {}, {}, {}, {},
		{"No", "상품명", "판매가", "재료비", "포장비", "택배박스", "마켓수수료", "배송비", "기타", "인건비", "식대", "임대료", "공과금", "사무용품", "마케팅", "기타", "목표이익"},
	}
	return append(rows, items...)
}

func TestImport_Export(t *testing.T) {
	in := model.CalculationInputs{Price: 50000, UnitCost: 20000, FixedCost: 3000000, TargetProfit: numeric.Float(1000000)}
	data := exportedWorkbook(t, in)

	out, err := New(importer.Options{}).Import(context.Background(), data, "BEP_Export.xlsx")
	require.NoError(t, err)
	assert.Equal(t, importer.FormatExport, out.Format)
	require.NotNil(t, out.Single)
	assert.True(t, out.Single.OK)
	assert.True(t, out.OK())
	assert.Equal(t, []model.CalculationInputs{in}, out.Valid())
	assert.Empty(t, out.Issues())
}

func TestImport_Raw(t *testing.T) {
	data := workbook(t, map[string][][]any{
		importer.DefaultRawSheetName: rawSheet(
			[]any{1, "비누", 12000, 3000, 500, 0, 0, 0, 0, 1000000},
			[]any{2, "향초", 9000, 9500, 0, 0, 0, 0, 0, 500000},
			[]any{3, "비누 세트", 12000, 3000, 500, 0, 0, 0, 0, 1000000},
		),
	}, importer.DefaultRawSheetName)

	out, err := New(importer.Options{}).Import(context.Background(), data, "costs.xlsx")
	require.NoError(t, err)
	assert.Equal(t, importer.FormatRaw, out.Format)
	assert.Nil(t, out.Single)
	require.Len(t, out.Items, 3)

	assert.True(t, out.Items[0].Result.OK)
	assert.False(t, out.Items[1].Result.OK)
	assert.True(t, out.Items[2].Result.OK)
	assert.Equal(t, 9, out.Items[1].Row)

	require.Len(t, out.Duplicates, 1)
	assert.Equal(t, model.IssueDuplicateRow, out.Duplicates[0].Code)
	assert.Contains(t, out.Duplicates[0].Message, "row 10 (비누 세트) repeats row 8 (비누)")

	assert.False(t, out.OK())
	assert.Len(t, out.Valid(), 2)

	issues := out.Issues()
	require.NotEmpty(t, issues)
	assert.Equal(t, model.IssueBusinessLogic, issues[0].Code)
	assert.Contains(t, issues[0].Message, "row 9: ")
}

func TestImport_Unrecognized(t *testing.T) {
	data := workbook(t, map[string][][]any{"Data": {{"a", "b"}}}, "Data")

	_, err := New(importer.Options{}).Import(context.Background(), data, "other.xlsx")
	assert.True(t, errors.Is(err, ErrUnrecognizedFormat))
}

func TestImport_NotAWorkbook(t *testing.T) {
	_, err := New(importer.Options{}).Import(context.Background(), []byte("plain text"), "notes.txt")
	assert.ErrorIs(t, err, ErrUnrecognizedFormat)
}

func TestImport_CustomRawSheet(t *testing.T) {
	data := workbook(t, map[string][][]any{
		"Costs": append([][]any{{"No", "상품명", "판매가"}}, []any{1, "A", 1000, 100}),
	}, "Costs")

	svc := New(importer.Options{RawSheetName: "Costs", RawHeaderRows: 1})
	out, err := svc.Import(context.Background(), data, "costs.xlsx")
	require.NoError(t, err)
	assert.Equal(t, importer.FormatRaw, out.Format)
	require.Len(t, out.Items, 1)
	assert.Equal(t, 2, out.Items[0].Row)
	assert.True(t, out.Items[0].Result.OK)
}
