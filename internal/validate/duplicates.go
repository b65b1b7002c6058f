package validate

import (
	"fmt"
	"strconv"

	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/numeric"
)

// Item is one record of a multi-item import. Row is the 1-based position
// shown to users.
type Item struct {
	Row       int
	Name      string
	Candidate model.Candidate
}

// DetectDuplicates flags every item whose price, unit cost and fixed cost
// repeat an earlier item. Only meaningful for multi-item imports.
func DetectDuplicates(items []Item) []model.ValidationIssue {
	seen := make(map[string]Item, len(items))
	var issues []model.ValidationIssue

	for _, it := range items {
		key := compositeKey(it.Candidate)
		first, dup := seen[key]
		if !dup {
			seen[key] = it
			continue
		}
		issues = append(issues, model.ValidationIssue{
			Code: model.IssueDuplicateRow,
			Message: fmt.Sprintf("row %d (%s) repeats row %d (%s): same price, unit cost and fixed cost",
				it.Row, it.Name, first.Row, first.Name),
		})
	}
	return issues
}

func compositeKey(c model.Candidate) string {
	part := func(field string) string {
		n := numeric.Normalize(c[field])
		if !numeric.IsFinite(n) {
			return fmt.Sprint(c[field])
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return part(model.FieldPrice) + "|" + part(model.FieldUnitCost) + "|" + part(model.FieldFixedCost)
}
