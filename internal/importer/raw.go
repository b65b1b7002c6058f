package importer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/bep-cli/internal/fetcher"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/numeric"
)

// Column offsets of the raw multi-item sheet.
const (
	colName          = 1
	colPrice         = 2
	colMaterials     = 3
	colPackaging     = 4
	colShippingBox   = 5
	colMarketFee     = 6
	colShippingCost  = 7
	colOtherVariable = 8
	colLabor         = 9
	colMeals         = 10
	colRent          = 11
	colUtilities     = 12
	colOffice        = 13
	colMarketing     = 14
	colOtherFixed    = 15
	colTargetProfit  = 16
)

// ParseRaw reads the item rows of a raw multi-item workbook. Header rows are
// skipped and rows without a name or with a zero price are dropped silently.
func ParseRaw(ctx context.Context, data []byte, opts Options) ([]model.RawItemRow, error) {
	opts = opts.withDefaults()

	rowCh, errCh := fetcher.StreamXLSX(ctx, data, fetcher.XLSXOptions{
		SheetName: opts.RawSheetName,
		SkipRows:  opts.RawHeaderRows,
	})

	var items []model.RawItemRow
	rowNum := opts.RawHeaderRows
	skipped := 0
	for cells := range rowCh {
		rowNum++
		item, ok := rawItem(cells, rowNum)
		if !ok {
			skipped++
			continue
		}
		items = append(items, item)
	}
	if err := <-errCh; err != nil {
		return nil, fileError(err, "the item sheet")
	}

	zap.L().Debug("importer: raw sheet parsed",
		zap.String("sheet", opts.RawSheetName),
		zap.Int("items", len(items)),
		zap.Int("skipped", skipped),
	)
	return items, nil
}

func rawItem(cells []string, rowNum int) (model.RawItemRow, bool) {
	name := strings.TrimSpace(cell(cells, colName))
	price := numeric.Normalize(cell(cells, colPrice))
	if name == "" || !numeric.IsFinite(price) || price == 0 {
		return model.RawItemRow{}, false
	}

	amount := func(col int) float64 {
		n := numeric.Normalize(cell(cells, col))
		if !numeric.IsFinite(n) {
			return 0
		}
		return n
	}

	return model.RawItemRow{
		Row:           rowNum,
		Name:          name,
		Price:         price,
		Materials:     amount(colMaterials),
		Packaging:     amount(colPackaging),
		ShippingBox:   amount(colShippingBox),
		MarketFee:     amount(colMarketFee),
		ShippingCost:  amount(colShippingCost),
		OtherVariable: amount(colOtherVariable),
		Labor:         amount(colLabor),
		Meals:         amount(colMeals),
		Rent:          amount(colRent),
		Utilities:     amount(colUtilities),
		Office:        amount(colOffice),
		Marketing:     amount(colMarketing),
		OtherFixed:    amount(colOtherFixed),
		TargetProfit:  amount(colTargetProfit),
	}, true
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return cells[i]
	}
	return ""
}
