package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bep-cli/internal/model"
)

func TestParseExport_Basic(t *testing.T) {
	data := buildWorkbook(t, testSheet{name: SheetInputs, rows: [][]any{
		{"항목", "값", "비율", "검증"},
		{"■ 기본 입력"},
		{"판매가", 50000.0},
		{"단위당 변동비", "20,000"},
		{"고정비", 3000000.0},
		{"목표 이익", 5000000.0},
	}})

	cand, err := ParseExport(data)
	require.NoError(t, err)
	assert.Equal(t, 50000.0, cand[model.FieldPrice])
	assert.Equal(t, 20000.0, cand[model.FieldUnitCost])
	assert.Equal(t, 3000000.0, cand[model.FieldFixedCost])
	assert.Equal(t, 5000000.0, cand[model.FieldTargetProfit])
	assert.NotContains(t, cand, model.FieldVariableCostDetail)
	assert.NotContains(t, cand, model.FieldFixedCostDetail)
}

func TestParseExport_SectionScopedOther(t *testing.T) {
	// Fixed section first: 기타 must still land in the section it appears in.
	data := buildWorkbook(t, testSheet{name: SheetInputs, rows: [][]any{
		{"■ 기본 입력"},
		{"판매가", 10000.0},
		{"단위당 변동비", 1500.0},
		{"고정비", 700.0},
		{"■ 고정비 상세"},
		{"  - 임대료", 500.0},
		{"  - 기타", 200.0},
		{"■ 변동비 상세"},
		{"  - 재료비", 1000.0},
		{"  - 기타", 500.0},
	}})

	cand, err := ParseExport(data)
	require.NoError(t, err)

	variable, ok := cand[model.FieldVariableCostDetail].(model.Candidate)
	require.True(t, ok)
	assert.Equal(t, 1000.0, variable["materials"])
	assert.Equal(t, 500.0, variable["other"])

	fixed, ok := cand[model.FieldFixedCostDetail].(model.Candidate)
	require.True(t, ok)
	assert.Equal(t, 500.0, fixed["rent"])
	assert.Equal(t, 200.0, fixed["other"])
}

func TestParseExport_AllZeroDetailOmitted(t *testing.T) {
	data := buildWorkbook(t, testSheet{name: SheetInputs, rows: [][]any{
		{"판매가", 100.0},
		{"단위당 변동비", 0.0},
		{"고정비", 0.0},
		{"변동비 상세"},
		{"재료비", 0.0},
		{"기타", 0.0},
	}})

	cand, err := ParseExport(data)
	require.NoError(t, err)
	assert.NotContains(t, cand, model.FieldVariableCostDetail)
}

func TestParseExport_BlankAndTextValues(t *testing.T) {
	data := buildWorkbook(t, testSheet{name: SheetInputs, rows: [][]any{
		{"판매가", ""},
		{"단위당 변동비", "모름"},
		{"고정비", 10.0},
		{"고정비 합계", 99.0},
	}})

	cand, err := ParseExport(data)
	require.NoError(t, err)
	assert.Equal(t, "", cand[model.FieldPrice])
	assert.Equal(t, "모름", cand[model.FieldUnitCost])
	assert.Equal(t, 10.0, cand[model.FieldFixedCost])
	assert.Len(t, cand, 3)
}

func TestParseExport_MissingValueColumn(t *testing.T) {
	data := buildWorkbook(t, testSheet{name: SheetInputs, rows: [][]any{
		{"판매가"},
	}})

	cand, err := ParseExport(data)
	require.NoError(t, err)
	assert.Equal(t, "", cand[model.FieldPrice])
}

func TestParseExport_NoInputsSheet(t *testing.T) {
	data := buildWorkbook(t, testSheet{name: "Results"})

	_, err := ParseExport(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestParseExport_Undecodable(t *testing.T) {
	_, err := ParseExport([]byte{0x50, 0x4b, 0x03})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDecode))
}
