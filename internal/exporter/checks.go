package exporter

import (
	"fmt"
	"math"

	"github.com/sells-group/bep-cli/internal/model"
)

const sumTolerance = 0.01

// Check is one row of the Validation sheet.
type Check struct {
	Name   string
	Passed bool
	Detail string
}

// Checks re-derives the record invariants for the Validation sheet. It is an
// independent re-check written into the artifact, not a call into the
// validator.
func Checks(in model.CalculationInputs) []Check {
	checks := []Check{
		{
			Name:   "판매가 > 0",
			Passed: in.Price > 0,
			Detail: fmt.Sprintf("판매가 %.2f", in.Price),
		},
		{
			Name:   "단위당 변동비 ≥ 0",
			Passed: in.UnitCost >= 0,
			Detail: fmt.Sprintf("단위당 변동비 %.2f", in.UnitCost),
		},
		{
			Name:   "고정비 ≥ 0",
			Passed: in.FixedCost >= 0,
			Detail: fmt.Sprintf("고정비 %.2f", in.FixedCost),
		},
	}
	if in.TargetProfit != nil {
		checks = append(checks, Check{
			Name:   "목표 이익 ≥ 0",
			Passed: *in.TargetProfit >= 0,
			Detail: fmt.Sprintf("목표 이익 %.2f", *in.TargetProfit),
		})
	}
	checks = append(checks, Check{
		Name:   "공헌이익 > 0 (판매가 > 단위당 변동비)",
		Passed: in.Price > in.UnitCost,
		Detail: fmt.Sprintf("공헌이익 %.2f", in.Price-in.UnitCost),
	})
	if vd := in.VariableCostDetail; vd != nil {
		checks = append(checks, Check{
			Name:   "변동비 상세 합계 = 단위당 변동비",
			Passed: sumMatches(vd.Sum(), in.UnitCost),
			Detail: fmt.Sprintf("합계 %.2f / 단위당 변동비 %.2f", vd.Sum(), in.UnitCost),
		})
	}
	if fd := in.FixedCostDetail; fd != nil {
		checks = append(checks, Check{
			Name:   "고정비 상세 합계 = 고정비",
			Passed: sumMatches(fd.Sum(), in.FixedCost),
			Detail: fmt.Sprintf("합계 %.2f / 고정비 %.2f", fd.Sum(), in.FixedCost),
		})
	}
	return checks
}

// IntegrityScore is the percentage of checks that passed, 0..100.
func IntegrityScore(checks []Check) float64 {
	if len(checks) == 0 {
		return 0
	}
	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}
	return math.Round(float64(passed)/float64(len(checks))*1000) / 10
}

func sumMatches(sum, aggregate float64) bool {
	return math.Abs(sum-aggregate) <= sumTolerance
}
