package model

// RawItemRow is one itemized record read from a multi-item source sheet.
// Row is the 1-based sheet row, kept so users can tell apart repeated names.
type RawItemRow struct {
	Row   int     `json:"row"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`

	Materials     float64 `json:"materials"`
	Packaging     float64 `json:"packaging"`
	ShippingBox   float64 `json:"shippingBox"`
	MarketFee     float64 `json:"marketFee"`
	ShippingCost  float64 `json:"shippingCost"`
	OtherVariable float64 `json:"otherVariable"`

	Labor      float64 `json:"labor"`
	Meals      float64 `json:"meals"`
	Rent       float64 `json:"rent"`
	Utilities  float64 `json:"utilities"`
	Office     float64 `json:"office"`
	Marketing  float64 `json:"marketing"`
	OtherFixed float64 `json:"otherFixed"`

	TargetProfit float64 `json:"targetProfit,omitempty"`
}

// VariableDetail returns the row's variable cost breakdown.
func (r RawItemRow) VariableDetail() VariableCostDetail {
	return VariableCostDetail{
		Materials:    r.Materials,
		Packaging:    r.Packaging,
		ShippingBox:  r.ShippingBox,
		MarketFee:    r.MarketFee,
		ShippingCost: r.ShippingCost,
		Other:        r.OtherVariable,
	}
}

// FixedDetail returns the row's fixed cost breakdown.
func (r RawItemRow) FixedDetail() FixedCostDetail {
	return FixedCostDetail{
		Labor:     r.Labor,
		Meals:     r.Meals,
		Rent:      r.Rent,
		Utilities: r.Utilities,
		Office:    r.Office,
		Marketing: r.Marketing,
		Other:     r.OtherFixed,
	}
}

// Candidate builds an unvalidated input record from the row. Aggregates are the
// component sums; breakdowns are attached only when some component is positive.
func (r RawItemRow) Candidate() Candidate {
	vd := r.VariableDetail()
	fd := r.FixedDetail()

	out := Candidate{
		FieldPrice:     r.Price,
		FieldUnitCost:  vd.Sum(),
		FieldFixedCost: fd.Sum(),
	}
	if r.TargetProfit > 0 {
		out[FieldTargetProfit] = r.TargetProfit
	}
	if anyPositive(vd.Components()) {
		out[FieldVariableCostDetail] = componentsToCandidate(vd.Components())
	}
	if anyPositive(fd.Components()) {
		out[FieldFixedCostDetail] = componentsToCandidate(fd.Components())
	}
	return out
}

func anyPositive(cs []Component) bool {
	for _, c := range cs {
		if c.Value > 0 {
			return true
		}
	}
	return false
}
