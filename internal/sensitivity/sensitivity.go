// Package sensitivity derives break-even sensitivity series from a snapshot of
// calculation inputs.
//
// Two series exist and are deliberately kept separate. ChartSeries sweeps one
// axis from 50% to 150% of its base in 11 points and zero-fills points whose
// contribution margin is not positive. ExportTable produces the ±20% table
// written to exported workbooks and drops such rows instead.
package sensitivity

import (
	"math"

	"github.com/sells-group/bep-cli/internal/breakeven"
	"github.com/sells-group/bep-cli/internal/model"
)

const (
	chartPoints   = 11
	chartLow      = 0.5
	chartStepFrac = 0.1

	tableRows = 10
	tableLow  = 0.8
	tableSpan = 0.4
)

// ChartInput is the base state a chart series varies around.
type ChartInput struct {
	Price        float64 `json:"price"`
	UnitCost     float64 `json:"unitCost"`
	FixedCost    float64 `json:"fixedCost"`
	TargetProfit float64 `json:"targetProfit,omitempty"`
}

// ChartInputFrom adapts a canonical record.
func ChartInputFrom(in model.CalculationInputs) ChartInput {
	return ChartInput{
		Price:        in.Price,
		UnitCost:     in.UnitCost,
		FixedCost:    in.FixedCost,
		TargetProfit: in.Target(),
	}
}

// ChartSeries sweeps axis across base×0.5 .. base×1.5 in ten equal steps while
// holding the other input at its base value. Invalid bases yield an empty
// series.
func ChartSeries(in ChartInput, axis model.Axis) []model.SensitivityPoint {
	if in.Price <= 0 || in.UnitCost < 0 || in.FixedCost < 0 {
		return []model.SensitivityPoint{}
	}

	base := in.Price
	if axis == model.AxisUnitCost {
		base = in.UnitCost
	}
	step := base * chartStepFrac
	start := base * chartLow

	points := make([]model.SensitivityPoint, 0, chartPoints)
	for i := 0; i < chartPoints; i++ {
		v := start + step*float64(i)

		price, cost := v, in.UnitCost
		if axis == model.AxisUnitCost {
			price, cost = in.Price, v
		}

		bep, profit, ok := breakeven.Point(price, cost, in.FixedCost, in.TargetProfit)
		if !ok {
			points = append(points, model.SensitivityPoint{Variable: v})
			continue
		}

		points = append(points, model.SensitivityPoint{
			Variable:       v,
			BEP:            bep,
			Profit:         profit,
			IsCurrentValue: math.Abs(v-base) < step/2,
		})
	}
	return points
}

// ExportTable returns up to ten price-variation rows (unit cost held) followed
// by up to ten cost-variation rows (price held), each spanning -20%..+20% of
// its base. Varied values are rounded to whole currency units. Rows with a
// non-positive contribution margin are dropped, so fewer than 20 rows is
// normal.
func ExportTable(in model.CalculationInputs) []model.SensitivityRow {
	return append(PriceVariation(in), CostVariation(in)...)
}

// PriceVariation is the price half of ExportTable.
func PriceVariation(in model.CalculationInputs) []model.SensitivityRow {
	rows := make([]model.SensitivityRow, 0, tableRows)
	for i := 0; i < tableRows; i++ {
		price := math.Round(in.Price * tableFactor(i))
		if row, ok := tableRow(price, in.UnitCost, in.FixedCost, in.Target()); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// CostVariation is the unit-cost half of ExportTable.
func CostVariation(in model.CalculationInputs) []model.SensitivityRow {
	rows := make([]model.SensitivityRow, 0, tableRows)
	for i := 0; i < tableRows; i++ {
		cost := math.Round(in.UnitCost * tableFactor(i))
		if row, ok := tableRow(in.Price, cost, in.FixedCost, in.Target()); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func tableFactor(i int) float64 {
	return tableLow + float64(i)*tableSpan/float64(tableRows-1)
}

func tableRow(price, cost, fixed, target float64) (model.SensitivityRow, bool) {
	bep, profit, ok := breakeven.Point(price, cost, fixed, target)
	if !ok {
		return model.SensitivityRow{}, false
	}
	return model.SensitivityRow{Price: price, UnitCost: cost, BEP: bep, Profit: profit}, true
}
