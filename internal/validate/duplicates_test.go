package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/bep-cli/internal/model"
)

func item(row int, name string, price, cost, fixed any) Item {
	return Item{Row: row, Name: name, Candidate: model.Candidate{
		model.FieldPrice:     price,
		model.FieldUnitCost:  cost,
		model.FieldFixedCost: fixed,
	}}
}

func TestDetectDuplicates(t *testing.T) {
	t.Parallel()

	issues := DetectDuplicates([]Item{
		item(8, "A", 100.0, 50.0, 1000.0),
		item(9, "B", 200.0, 50.0, 1000.0),
		item(10, "A", 100.0, 50.0, 1000.0),
		item(11, "C", "100", 50, 1000.0),
	})

	require.Len(t, issues, 2)
	for _, is := range issues {
		assert.Equal(t, model.IssueDuplicateRow, is.Code)
	}
	assert.Contains(t, issues[0].Message, "row 10")
	assert.Contains(t, issues[0].Message, "row 8")
	assert.Contains(t, issues[1].Message, "row 11")
}

func TestDetectDuplicates_None(t *testing.T) {
	t.Parallel()

	assert.Empty(t, DetectDuplicates(nil))
	assert.Empty(t, DetectDuplicates([]Item{
		item(1, "A", 1.0, 0.0, 0.0),
		item(2, "B", 2.0, 0.0, 0.0),
	}))
}
