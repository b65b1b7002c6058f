package model

// Candidate field names. These are also the JSON names of CalculationInputs.
const (
	FieldPrice              = "price"
	FieldUnitCost           = "unitCost"
	FieldFixedCost          = "fixedCost"
	FieldTargetProfit       = "targetProfit"
	FieldVariableCostDetail = "variableCostDetail"
	FieldFixedCostDetail    = "fixedCostDetail"
)

// Variable cost component keys.
const (
	VarMaterials    = "materials"
	VarPackaging    = "packaging"
	VarShippingBox  = "shippingBox"
	VarMarketFee    = "marketFee"
	VarShippingCost = "shippingCost"
	VarOther        = "other"
)

// Fixed cost component keys.
const (
	FixLabor     = "labor"
	FixMeals     = "meals"
	FixRent      = "rent"
	FixUtilities = "utilities"
	FixOffice    = "office"
	FixMarketing = "marketing"
	FixOther     = "other"
)

// VariableCostKeys lists variable cost components in display order.
var VariableCostKeys = []string{VarMaterials, VarPackaging, VarShippingBox, VarMarketFee, VarShippingCost, VarOther}

// FixedCostKeys lists fixed cost components in display order.
var FixedCostKeys = []string{FixLabor, FixMeals, FixRent, FixUtilities, FixOffice, FixMarketing, FixOther}

// CalculationInputs is the canonical record every downstream consumer relies on.
// A value with Price <= UnitCost is representable; validation decides usability.
type CalculationInputs struct {
	Price              float64             `json:"price" validate:"gt=0"`
	UnitCost           float64             `json:"unitCost" validate:"gte=0"`
	FixedCost          float64             `json:"fixedCost" validate:"gte=0"`
	TargetProfit       *float64            `json:"targetProfit,omitempty" validate:"omitempty,gte=0"`
	VariableCostDetail *VariableCostDetail `json:"variableCostDetail,omitempty"`
	FixedCostDetail    *FixedCostDetail    `json:"fixedCostDetail,omitempty"`
}

// Target returns the target profit, or 0 when none is set.
func (c CalculationInputs) Target() float64 {
	if c.TargetProfit == nil {
		return 0
	}
	return *c.TargetProfit
}

// ContributionMargin returns price minus unit cost.
func (c CalculationInputs) ContributionMargin() float64 {
	return c.Price - c.UnitCost
}

// Component is one named entry of an itemized breakdown.
type Component struct {
	Key   string
	Value float64
}

// VariableCostDetail itemizes the per-unit variable cost.
type VariableCostDetail struct {
	Materials    float64 `json:"materials" validate:"gte=0"`
	Packaging    float64 `json:"packaging" validate:"gte=0"`
	ShippingBox  float64 `json:"shippingBox" validate:"gte=0"`
	MarketFee    float64 `json:"marketFee" validate:"gte=0"`
	ShippingCost float64 `json:"shippingCost" validate:"gte=0"`
	Other        float64 `json:"other" validate:"gte=0"`
}

// Components returns the breakdown in display order.
func (d VariableCostDetail) Components() []Component {
	return []Component{
		{VarMaterials, d.Materials},
		{VarPackaging, d.Packaging},
		{VarShippingBox, d.ShippingBox},
		{VarMarketFee, d.MarketFee},
		{VarShippingCost, d.ShippingCost},
		{VarOther, d.Other},
	}
}

// Sum adds every component.
func (d VariableCostDetail) Sum() float64 {
	return sumComponents(d.Components())
}

// Set assigns a component by key. Unknown keys are ignored.
func (d *VariableCostDetail) Set(key string, v float64) {
	switch key {
	case VarMaterials:
		d.Materials = v
	case VarPackaging:
		d.Packaging = v
	case VarShippingBox:
		d.ShippingBox = v
	case VarMarketFee:
		d.MarketFee = v
	case VarShippingCost:
		d.ShippingCost = v
	case VarOther:
		d.Other = v
	}
}

// FixedCostDetail itemizes the fixed cost for the period.
type FixedCostDetail struct {
	Labor     float64 `json:"labor" validate:"gte=0"`
	Meals     float64 `json:"meals" validate:"gte=0"`
	Rent      float64 `json:"rent" validate:"gte=0"`
	Utilities float64 `json:"utilities" validate:"gte=0"`
	Office    float64 `json:"office" validate:"gte=0"`
	Marketing float64 `json:"marketing" validate:"gte=0"`
	Other     float64 `json:"other" validate:"gte=0"`
}

// Components returns the breakdown in display order.
func (d FixedCostDetail) Components() []Component {
	return []Component{
		{FixLabor, d.Labor},
		{FixMeals, d.Meals},
		{FixRent, d.Rent},
		{FixUtilities, d.Utilities},
		{FixOffice, d.Office},
		{FixMarketing, d.Marketing},
		{FixOther, d.Other},
	}
}

// Sum adds every component.
func (d FixedCostDetail) Sum() float64 {
	return sumComponents(d.Components())
}

// Set assigns a component by key. Unknown keys are ignored.
func (d *FixedCostDetail) Set(key string, v float64) {
	switch key {
	case FixLabor:
		d.Labor = v
	case FixMeals:
		d.Meals = v
	case FixRent:
		d.Rent = v
	case FixUtilities:
		d.Utilities = v
	case FixOffice:
		d.Office = v
	case FixMarketing:
		d.Marketing = v
	case FixOther:
		d.Other = v
	}
}

func sumComponents(cs []Component) float64 {
	var total float64
	for _, c := range cs {
		total += c.Value
	}
	return total
}

// Candidate is an unvalidated input record keyed by field name. Values are
// whatever the parser found: float64, string, nil, or a nested Candidate for
// the detail fields. Absent keys mean the field was never seen.
type Candidate map[string]any

// ToCandidate converts a typed record back into its untyped form.
func (c CalculationInputs) ToCandidate() Candidate {
	out := Candidate{
		FieldPrice:     c.Price,
		FieldUnitCost:  c.UnitCost,
		FieldFixedCost: c.FixedCost,
	}
	if c.TargetProfit != nil {
		out[FieldTargetProfit] = *c.TargetProfit
	}
	if c.VariableCostDetail != nil {
		out[FieldVariableCostDetail] = componentsToCandidate(c.VariableCostDetail.Components())
	}
	if c.FixedCostDetail != nil {
		out[FieldFixedCostDetail] = componentsToCandidate(c.FixedCostDetail.Components())
	}
	return out
}

func componentsToCandidate(cs []Component) Candidate {
	out := make(Candidate, len(cs))
	for _, c := range cs {
		out[c.Key] = c.Value
	}
	return out
}
