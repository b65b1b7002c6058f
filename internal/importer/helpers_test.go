package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

type testSheet struct {
	name string
	rows [][]any
}

// buildWorkbook writes sheets in order. float64 cells are stored as numbers,
// everything else as text.
func buildWorkbook(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()
	f := xlsx.NewFile()
	for _, s := range sheets {
		sheet, err := f.AddSheet(s.name)
		require.NoError(t, err)
		for _, rowData := range s.rows {
			row := sheet.AddRow()
			for _, v := range rowData {
				c := row.AddCell()
				switch n := v.(type) {
				case float64:
					c.SetFloat(n)
				case int:
					c.SetInt(n)
				case string:
					c.SetString(n)
				}
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// rawHeader returns the seven title/header rows of the raw item sheet.
func rawHeader() [][]any {
	return [][]any{
		{"원가 계산표"},
		{""},
		{"작성일", "2024-05-01"},
		{""},
		{"", "", "", "변동비"},
		{"", "", "", "", "", "", "", "", "", "고정비"},
		{"No", "상품명", "판매가", "재료비", "포장비", "택배박스", "마켓수수료", "배송비", "기타", "인건비", "식대", "임대료", "공과금", "사무용품", "마케팅", "기타", "목표이익"},
	}
}
