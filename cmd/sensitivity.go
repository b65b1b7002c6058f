package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/sensitivity"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity",
	Short: "Show how break-even quantity and profit respond to price or cost",
	Long: "Prints the 11-point chart series for one axis (50%..150% of base), or with --table the " +
		"±20% price and unit-cost table written to exported workbooks.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		flags := cmd.Flags()
		price, _ := flags.GetFloat64("price")
		unitCost, _ := flags.GetFloat64("unit-cost")
		fixedCost, _ := flags.GetFloat64("fixed-cost")
		table, _ := flags.GetBool("table")
		axisFlag, _ := flags.GetString("axis")

		in := model.CalculationInputs{Price: price, UnitCost: unitCost, FixedCost: fixedCost}
		if flags.Changed("target-profit") {
			target, _ := flags.GetFloat64("target-profit")
			in.TargetProfit = &target
		}

		if table {
			formatSensitivityTable(cmd.OutOrStdout(), sensitivity.PriceVariation(in), sensitivity.CostVariation(in))
			return nil
		}

		axis, err := parseAxis(axisFlag)
		if err != nil {
			return err
		}
		points := sensitivity.ChartSeries(sensitivity.ChartInputFrom(in), axis)
		if len(points) == 0 {
			return eris.New("sensitivity: price must be positive and costs non-negative")
		}
		formatSensitivitySeries(cmd.OutOrStdout(), axis, points)
		return nil
	},
}

func parseAxis(s string) (model.Axis, error) {
	switch s {
	case "price", "":
		return model.AxisPrice, nil
	case "cost", "unit-cost", string(model.AxisUnitCost):
		return model.AxisUnitCost, nil
	default:
		return "", eris.Errorf("sensitivity: unknown axis %q (price, cost)", s)
	}
}

func formatSensitivitySeries(out io.Writer, axis model.Axis, points []model.SensitivityPoint) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	label := "PRICE"
	if axis == model.AxisUnitCost {
		label = "UNIT COST"
	}
	_, _ = fmt.Fprintf(w, "%s\tBEP\tPROFIT\t\t\n", label)
	for _, p := range points {
		marker := ""
		if p.IsCurrentValue {
			marker = "<- current"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", amount(p.Variable), amount(p.BEP), amount(p.Profit), marker)
	}
	_ = w.Flush()
}

func formatSensitivityTable(out io.Writer, price, cost []model.SensitivityRow) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "VARIES\tPRICE\tUNIT COST\tBEP\tPROFIT")
	write := func(group string, rows []model.SensitivityRow) {
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", group, amount(r.Price), amount(r.UnitCost), amount(r.BEP), amount(r.Profit))
		}
	}
	write("price", price)
	write("cost", cost)
	_ = w.Flush()
}

func init() {
	f := sensitivityCmd.Flags()
	f.Float64("price", 0, "unit selling price")
	f.Float64("unit-cost", 0, "variable cost per unit")
	f.Float64("fixed-cost", 0, "fixed cost for the period")
	f.Float64("target-profit", 0, "target profit for the period")
	f.String("axis", "price", "chart axis: price or cost")
	f.Bool("table", false, "print the export table instead of a chart series")
	_ = sensitivityCmd.MarkFlagRequired("price")
	_ = sensitivityCmd.MarkFlagRequired("unit-cost")
	_ = sensitivityCmd.MarkFlagRequired("fixed-cost")
	rootCmd.AddCommand(sensitivityCmd)
}
