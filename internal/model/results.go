package model

import "time"

// Result holds break-even figures derived from a CalculationInputs snapshot.
type Result struct {
	ContributionMargin float64 `json:"contributionMargin"`
	MarginRatio        float64 `json:"marginRatio"`
	BreakEvenQty       float64 `json:"breakEvenQty"`
	BreakEvenRevenue   float64 `json:"breakEvenRevenue"`
	TargetQty          float64 `json:"targetQty"`
	TargetRevenue      float64 `json:"targetRevenue"`
	ProjectedProfit    float64 `json:"projectedProfit"`
}

// Axis names the input a chart sensitivity series varies.
type Axis string

const (
	AxisPrice    Axis = "price"
	AxisUnitCost Axis = "unitCost"
)

// SensitivityPoint is one point of an interactive chart series.
type SensitivityPoint struct {
	Variable       float64 `json:"variable"`
	BEP            float64 `json:"bep"`
	Profit         float64 `json:"profit"`
	IsCurrentValue bool    `json:"isCurrentValue"`
}

// SensitivityRow is one row of the exported sensitivity table.
type SensitivityRow struct {
	Price    float64 `json:"price"`
	UnitCost float64 `json:"unitCost"`
	BEP      float64 `json:"bep"`
	Profit   float64 `json:"profit"`
}

// Project is a persisted snapshot of a validated record and its derivations.
type Project struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Inputs      CalculationInputs `json:"inputs"`
	Result      Result            `json:"result"`
	Sensitivity []SensitivityRow  `json:"sensitivity"`
	CreatedAt   time.Time         `json:"created_at"`
}
