package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableCostDetail_SetAndSum(t *testing.T) {
	var d VariableCostDetail
	for i, key := range VariableCostKeys {
		d.Set(key, float64(i+1))
	}
	d.Set("unknown", 100)

	assert.Equal(t, 21.0, d.Sum())
	comps := d.Components()
	require.Len(t, comps, len(VariableCostKeys))
	for i, c := range comps {
		assert.Equal(t, VariableCostKeys[i], c.Key)
	}
}

func TestFixedCostDetail_SetAndSum(t *testing.T) {
	var d FixedCostDetail
	for _, key := range FixedCostKeys {
		d.Set(key, 10)
	}
	assert.Equal(t, 70.0, d.Sum())
	assert.Equal(t, 10.0, d.Other)
}

func TestCalculationInputs_Target(t *testing.T) {
	in := CalculationInputs{Price: 100, UnitCost: 40}
	assert.Equal(t, 0.0, in.Target())
	assert.Equal(t, 60.0, in.ContributionMargin())

	target := 500.0
	in.TargetProfit = &target
	assert.Equal(t, 500.0, in.Target())
}

func TestCalculationInputs_ToCandidate(t *testing.T) {
	target := 10.0
	in := CalculationInputs{
		Price: 100, UnitCost: 40, FixedCost: 1000, TargetProfit: &target,
		VariableCostDetail: &VariableCostDetail{Materials: 40},
	}
	c := in.ToCandidate()
	assert.Equal(t, 100.0, c[FieldPrice])
	assert.Equal(t, 10.0, c[FieldTargetProfit])
	assert.NotContains(t, c, FieldFixedCostDetail)

	vd, ok := c[FieldVariableCostDetail].(Candidate)
	require.True(t, ok)
	assert.Equal(t, 40.0, vd[VarMaterials])
	assert.Equal(t, 0.0, vd[VarOther])
}

func TestCalculationInputs_JSONNames(t *testing.T) {
	b, err := json.Marshal(CalculationInputs{Price: 1, UnitCost: 2, FixedCost: 3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":1,"unitCost":2,"fixedCost":3}`, string(b))
}

func TestRawItemRow_Candidate(t *testing.T) {
	r := RawItemRow{Row: 8, Name: "A", Price: 10000, Materials: 2000, Packaging: 500, Labor: 300000, OtherFixed: 50000}
	c := r.Candidate()

	assert.Equal(t, 10000.0, c[FieldPrice])
	assert.Equal(t, 2500.0, c[FieldUnitCost])
	assert.Equal(t, 350000.0, c[FieldFixedCost])
	assert.NotContains(t, c, FieldTargetProfit)
	require.Contains(t, c, FieldVariableCostDetail)
	fd := c[FieldFixedCostDetail].(Candidate)
	assert.Equal(t, 50000.0, fd[FixOther])
}

func TestRawItemRow_CandidateWithoutComponents(t *testing.T) {
	c := RawItemRow{Row: 9, Name: "B", Price: 5000, TargetProfit: 1000}.Candidate()
	assert.Equal(t, 0.0, c[FieldUnitCost])
	assert.Equal(t, 0.0, c[FieldFixedCost])
	assert.Equal(t, 1000.0, c[FieldTargetProfit])
	assert.NotContains(t, c, FieldVariableCostDetail)
	assert.NotContains(t, c, FieldFixedCostDetail)
}
