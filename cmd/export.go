package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bep-cli/internal/exporter"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/validate"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a six-sheet BEP workbook",
	Long: "Validates a record taken from --from (an exported workbook, or one row of a raw cost sheet " +
		"selected with --row) or from --price/--unit-cost/--fixed-cost and writes the export workbook.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		in, err := exportInputs(ctx, cmd)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			outPath = filepath.Join(cfg.Export.OutDir, exporter.PrefixedFileName(cfg.Export.FilePrefix, time.Now()))
		}
		if err := writeExport(in, outPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
		return nil
	},
}

// exportInputs resolves the record to export from flags.
func exportInputs(ctx context.Context, cmd *cobra.Command) (model.CalculationInputs, error) {
	from, _ := cmd.Flags().GetString("from")
	if from == "" {
		return inputsFromFlags(cmd)
	}

	row, _ := cmd.Flags().GetInt("row")
	out, err := importFile(ctx, from, cfg.Import)
	if err != nil {
		return model.CalculationInputs{}, err
	}

	var res *model.ValidationResult
	switch {
	case out.Single != nil:
		res = out.Single
	case row > 0:
		for i := range out.Items {
			if out.Items[i].Row == row {
				res = &out.Items[i].Result
			}
		}
		if res == nil {
			return model.CalculationInputs{}, eris.Errorf("export: no item at row %d of %s", row, from)
		}
	case len(out.Items) == 1:
		res = &out.Items[0].Result
	default:
		return model.CalculationInputs{}, eris.Errorf("export: %s has %d items; choose one with --row", from, len(out.Items))
	}

	if !res.OK {
		printIssues(cmd.ErrOrStderr(), res.Issues)
		return model.CalculationInputs{}, eris.New("export: the selected record failed validation")
	}
	return *res.Value, nil
}

func inputsFromFlags(cmd *cobra.Command) (model.CalculationInputs, error) {
	flags := cmd.Flags()
	for _, name := range []string{"price", "unit-cost", "fixed-cost"} {
		if !flags.Changed(name) {
			return model.CalculationInputs{}, eris.Errorf("export: --%s is required without --from", name)
		}
	}
	price, _ := flags.GetFloat64("price")
	unitCost, _ := flags.GetFloat64("unit-cost")
	fixedCost, _ := flags.GetFloat64("fixed-cost")

	cand := model.Candidate{
		model.FieldPrice:     price,
		model.FieldUnitCost:  unitCost,
		model.FieldFixedCost: fixedCost,
	}
	if flags.Changed("target-profit") {
		target, _ := flags.GetFloat64("target-profit")
		cand[model.FieldTargetProfit] = target
	}

	res := validate.Validate(cand)
	if !res.OK {
		printIssues(cmd.ErrOrStderr(), res.Issues)
		return model.CalculationInputs{}, eris.New("export: the inputs failed validation")
	}
	return *res.Value, nil
}

func writeExport(in model.CalculationInputs, path string) error {
	snap, err := exporter.NewSnapshot(in)
	if err != nil {
		return err
	}
	wb, err := exporter.Build(snap, exporter.Options{FileName: filepath.Base(path)})
	if err != nil {
		return err
	}
	defer wb.Close() //nolint:errcheck

	if err := wb.SaveAs(path); err != nil {
		return err
	}
	zap.L().Info("export: workbook written",
		zap.String("path", path),
		zap.Float64("bep", snap.Result.BreakEvenQty),
		zap.Int("sensitivity_rows", len(snap.PriceVariation)+len(snap.CostVariation)),
	)
	return nil
}

func init() {
	f := exportCmd.Flags()
	f.String("from", "", "read the record from this workbook")
	f.Int("row", 0, "sheet row of the item to export from a raw cost sheet")
	f.Float64("price", 0, "unit selling price")
	f.Float64("unit-cost", 0, "variable cost per unit")
	f.Float64("fixed-cost", 0, "fixed cost for the period")
	f.Float64("target-profit", 0, "target profit for the period")
	f.String("out", "", "output path (default <export.file_prefix>_<date>.xlsx in export.out_dir)")
	exportCmd.MarkFlagsMutuallyExclusive("from", "price")
	rootCmd.AddCommand(exportCmd)
}
