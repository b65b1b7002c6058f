package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/bep-cli/internal/model"
)

func TestFormatProjectsList(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	projects := []model.Project{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			Name:      "수제 비누",
			Inputs:    model.CalculationInputs{Price: 50000, UnitCost: 20000, FixedCost: 3000000},
			Result:    model.Result{BreakEvenQty: 100},
			CreatedAt: now,
		},
		{
			ID:        "def12345",
			Name:      "a very long project name that keeps on going",
			CreatedAt: now,
		},
	}

	var buf bytes.Buffer
	formatProjectsList(&buf, projects)

	output := buf.String()
	assert.Contains(t, output, "ID")
	assert.Contains(t, output, "NAME")
	assert.Contains(t, output, "수제 비누")
	assert.Contains(t, output, "3,000,000")
	assert.Contains(t, output, "abc12345")
	assert.NotContains(t, output, "abc12345-6789")
	assert.Contains(t, output, "a very long project name th...")
	assert.Contains(t, output, "2025-06-15 10:30")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "3,000,000", amount(3000000))
	assert.Equal(t, "267", amount(267))
}
