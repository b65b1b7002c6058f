// Package validate checks candidate input records and returns either a
// canonical CalculationInputs value or the list of problems found.
//
// Validation runs in three stages and stops after the first stage that
// reports anything:
//
//  1. presence of price, unitCost and fixedCost
//  2. fields present as empty strings
//  3. types and ranges, then the cross-field rules: price above unit cost and
//     itemized breakdowns that add up to their aggregate
//
// Data problems never produce an error; they are returned as issues.
package validate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/numeric"
)

// SumTolerance is the largest accepted gap between a breakdown's total and
// its aggregate field.
const SumTolerance = 0.01

var requiredFields = []string{model.FieldPrice, model.FieldUnitCost, model.FieldFixedCost}

var scalarFields = []string{model.FieldPrice, model.FieldUnitCost, model.FieldFixedCost, model.FieldTargetProfit}

// Validator validates candidate records. The zero value is not usable; call New.
type Validator struct {
	structs *validator.Validate
}

// New returns a Validator whose structural rules come from the validate tags
// on model.CalculationInputs.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{structs: v}
}

var std = New()

// Validate runs the default Validator.
func Validate(c model.Candidate) model.ValidationResult {
	return std.Validate(c)
}

// Validate checks c and returns a result whose Value is set only when no
// issue was found. c is never modified.
func (v *Validator) Validate(c model.Candidate) model.ValidationResult {
	if issues := checkPresence(c); len(issues) > 0 {
		return fail(issues)
	}
	if issues := checkEmpty(c); len(issues) > 0 {
		return fail(issues)
	}

	in, issues := coerce(c)
	if len(issues) > 0 {
		return fail(issues)
	}
	if issues := v.checkRanges(in); len(issues) > 0 {
		return fail(issues)
	}
	if issues := checkInvariants(in); len(issues) > 0 {
		return fail(issues)
	}

	return model.ValidationResult{OK: true, Issues: []model.ValidationIssue{}, Value: &in}
}

func fail(issues []model.ValidationIssue) model.ValidationResult {
	return model.ValidationResult{OK: false, Issues: issues}
}

func checkPresence(c model.Candidate) []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, f := range requiredFields {
		if v, ok := c[f]; !ok || v == nil {
			issues = append(issues, model.ValidationIssue{
				Code:    model.IssueMissingField,
				Field:   f,
				Message: fmt.Sprintf("%s is required", f),
			})
		}
	}
	return issues
}

func checkEmpty(c model.Candidate) []model.ValidationIssue {
	var issues []model.ValidationIssue
	for _, f := range scalarFields {
		if s, ok := c[f].(string); ok && strings.TrimSpace(s) == "" {
			issues = append(issues, model.ValidationIssue{
				Code:    model.IssueEmptyValue,
				Field:   f,
				Message: fmt.Sprintf("%s is empty", f),
			})
		}
	}
	return issues
}

// coerce converts the candidate into a typed record, reporting values that
// are not numbers.
func coerce(c model.Candidate) (model.CalculationInputs, []model.ValidationIssue) {
	var (
		in     model.CalculationInputs
		issues []model.ValidationIssue
	)

	number := func(field string, raw any) float64 {
		n, ok := toNumber(raw)
		if !ok {
			issues = append(issues, model.ValidationIssue{
				Code:    model.IssueTypeError,
				Field:   field,
				Message: fmt.Sprintf("%s must be a number, got %v", field, raw),
			})
		}
		return n
	}

	in.Price = number(model.FieldPrice, c[model.FieldPrice])
	in.UnitCost = number(model.FieldUnitCost, c[model.FieldUnitCost])
	in.FixedCost = number(model.FieldFixedCost, c[model.FieldFixedCost])
	if raw, ok := c[model.FieldTargetProfit]; ok && raw != nil {
		t := number(model.FieldTargetProfit, raw)
		in.TargetProfit = &t
	}

	if raw, ok := c[model.FieldVariableCostDetail]; ok && raw != nil {
		comps, defined, ok := detailValues(raw)
		if !ok {
			issues = append(issues, detailTypeIssue(model.FieldVariableCostDetail))
		} else if defined {
			d := &model.VariableCostDetail{}
			for _, key := range model.VariableCostKeys {
				if v, present := comps[key]; present {
					d.Set(key, number(model.FieldVariableCostDetail+"."+key, v))
				}
			}
			in.VariableCostDetail = d
		}
	}

	if raw, ok := c[model.FieldFixedCostDetail]; ok && raw != nil {
		comps, defined, ok := detailValues(raw)
		if !ok {
			issues = append(issues, detailTypeIssue(model.FieldFixedCostDetail))
		} else if defined {
			d := &model.FixedCostDetail{}
			for _, key := range model.FixedCostKeys {
				if v, present := comps[key]; present {
					d.Set(key, number(model.FieldFixedCostDetail+"."+key, v))
				}
			}
			in.FixedCostDetail = d
		}
	}

	return in, issues
}

// detailValues returns the defined (non-nil) components of a breakdown.
// defined is false when no component is set.
func detailValues(raw any) (map[string]any, bool, bool) {
	var m map[string]any
	switch d := raw.(type) {
	case model.Candidate:
		m = d
	case map[string]any:
		m = d
	default:
		return nil, false, false
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v != nil {
			out[k] = v
		}
	}
	return out, len(out) > 0, true
}

func detailTypeIssue(field string) model.ValidationIssue {
	return model.ValidationIssue{
		Code:    model.IssueTypeError,
		Field:   field,
		Message: fmt.Sprintf("%s must be an object of named amounts", field),
	}
}

// toNumber accepts Go numbers and numeric text. Blank text is not a number.
func toNumber(raw any) (float64, bool) {
	switch raw.(type) {
	case bool, map[string]any, model.Candidate, []any:
		return 0, false
	}
	n := numeric.Normalize(raw)
	if !numeric.IsFinite(n) {
		return 0, false
	}
	return n, true
}

func (v *Validator) checkRanges(in model.CalculationInputs) []model.ValidationIssue {
	err := v.structs.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []model.ValidationIssue{{Code: model.IssueUnknown, Message: err.Error()}}
	}

	issues := make([]model.ValidationIssue, 0, len(verrs))
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		issues = append(issues, model.ValidationIssue{
			Code:    model.IssueRangeError,
			Field:   field,
			Message: rangeMessage(field, fe),
		})
	}
	sort.SliceStable(issues, func(i, j int) bool { return fieldRank(issues[i].Field) < fieldRank(issues[j].Field) })
	return issues
}

func rangeMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must not be less than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s check", field, fe.Tag())
	}
}

func fieldRank(field string) int {
	for i, f := range scalarFields {
		if f == field {
			return i
		}
	}
	return len(scalarFields)
}

func checkInvariants(in model.CalculationInputs) []model.ValidationIssue {
	var issues []model.ValidationIssue

	if in.Price <= in.UnitCost {
		issues = append(issues, model.ValidationIssue{
			Code:    model.IssueBusinessLogic,
			Field:   model.FieldPrice,
			Message: fmt.Sprintf("price (%s) must be greater than unit cost (%s)", formatAmount(in.Price), formatAmount(in.UnitCost)),
		})
	}

	if d := in.VariableCostDetail; d != nil && !SumMatches(d.Sum(), in.UnitCost) {
		issues = append(issues, model.ValidationIssue{
			Code:    model.IssueDetailSumMismatch,
			Field:   model.FieldVariableCostDetail,
			Message: fmt.Sprintf("variable cost items add up to %s but unit cost is %s", formatAmount(d.Sum()), formatAmount(in.UnitCost)),
		})
	}

	if d := in.FixedCostDetail; d != nil && !SumMatches(d.Sum(), in.FixedCost) {
		issues = append(issues, model.ValidationIssue{
			Code:    model.IssueDetailSumMismatch,
			Field:   model.FieldFixedCostDetail,
			Message: fmt.Sprintf("fixed cost items add up to %s but fixed cost is %s", formatAmount(d.Sum()), formatAmount(in.FixedCost)),
		})
	}

	return issues
}

// SumMatches reports whether a breakdown total reconciles with its aggregate.
func SumMatches(sum, aggregate float64) bool {
	return math.Abs(sum-aggregate) <= SumTolerance
}

func formatAmount(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
