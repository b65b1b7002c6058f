// Package breakeven computes break-even quantities and projected profit.
package breakeven

import (
	"math"

	"github.com/sells-group/bep-cli/internal/model"
)

// Quantity returns ceil(fixedCost / margin). The margin must be positive.
func Quantity(fixedCost, margin float64) float64 {
	return math.Ceil(fixedCost / margin)
}

// TargetQuantity returns the units needed to cover fixed cost plus target
// profit. With no target it equals Quantity.
func TargetQuantity(fixedCost, targetProfit, margin float64) float64 {
	if targetProfit == 0 {
		return Quantity(fixedCost, margin)
	}
	return math.Ceil((fixedCost + targetProfit) / margin)
}

// Profit is the profit at qty units sold.
func Profit(qty, price, unitCost, fixedCost float64) float64 {
	return qty*price - qty*unitCost - fixedCost
}

// Point computes bep and projected profit for one price/cost pair. ok is
// false when the contribution margin is not positive.
func Point(price, unitCost, fixedCost, targetProfit float64) (bep, profit float64, ok bool) {
	margin := price - unitCost
	if margin <= 0 {
		return 0, 0, false
	}
	bep = Quantity(fixedCost, margin)
	qty := TargetQuantity(fixedCost, targetProfit, margin)
	return bep, Profit(qty, price, unitCost, fixedCost), true
}

// Calculate derives the full result set for in. ok is false when the
// contribution margin is not positive, in which case the zero Result is
// returned.
func Calculate(in model.CalculationInputs) (model.Result, bool) {
	margin := in.ContributionMargin()
	if margin <= 0 || in.Price <= 0 {
		return model.Result{}, false
	}

	bep := Quantity(in.FixedCost, margin)
	qty := TargetQuantity(in.FixedCost, in.Target(), margin)

	return model.Result{
		ContributionMargin: margin,
		MarginRatio:        margin / in.Price,
		BreakEvenQty:       bep,
		BreakEvenRevenue:   bep * in.Price,
		TargetQty:          qty,
		TargetRevenue:      qty * in.Price,
		ProjectedProfit:    Profit(qty, in.Price, in.UnitCost, in.FixedCost),
	}, true
}
