package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/bep-cli/internal/importer"
	"github.com/sells-group/bep-cli/internal/intake"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/report"
)

// errImportInvalid makes the command exit non-zero when any record failed.
var errImportInvalid = eris.New("import: the workbook has validation issues")

var importCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Detect, parse and validate a workbook",
	Long:  "Detects the workbook format, validates every record and writes a CSV error report when issues are found.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		reportPath, _ := cmd.Flags().GetString("report")
		saveName, _ := cmd.Flags().GetString("save")

		out, err := importFile(ctx, path, cfg.Import)
		if err != nil {
			return err
		}
		formatOutcome(cmd.OutOrStdout(), out)

		if !out.OK() {
			if reportPath == "" {
				reportPath = filepath.Join(cfg.Export.OutDir, report.FileName(path))
			}
			if err := writeReport(reportPath, out.Issues()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error report written to %s\n", reportPath)
			return errImportInvalid
		}

		if saveName != "" {
			if out.Single == nil {
				return eris.New("import: only exported workbooks can be saved as a project")
			}
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			p, err := st.SaveProject(ctx, saveName, *out.Single)
			if err != nil {
				return eris.Wrap(err, "import: save project")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved project %s (%s)\n", p.Name, p.ID)
		}
		return nil
	},
}

func importFile(ctx context.Context, path string, opts importer.Options) (*intake.Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "import: read %s", path)
	}
	return intake.New(opts).Import(ctx, data, filepath.Base(path))
}

func writeReport(path string, issues []model.ValidationIssue) error {
	data, err := report.CSV(issues)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "import: write report %s", path)
	}
	zap.L().Info("import: error report written", zap.String("path", path), zap.Int("issues", len(issues)))
	return nil
}

// formatOutcome writes a per-record summary followed by every issue.
func formatOutcome(out io.Writer, o *intake.Outcome) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Format:\t%s\n", o.Format)

	if o.Single != nil {
		_, _ = fmt.Fprintf(w, "Status:\t%s\n", status(o.Single.OK))
		if o.Single.OK {
			v := o.Single.Value
			_, _ = fmt.Fprintf(w, "Price:\t%s\n", amount(v.Price))
			_, _ = fmt.Fprintf(w, "Unit cost:\t%s\n", amount(v.UnitCost))
			_, _ = fmt.Fprintf(w, "Fixed cost:\t%s\n", amount(v.FixedCost))
		}
	}

	if len(o.Items) > 0 {
		_, _ = fmt.Fprintln(w)
		_, _ = fmt.Fprintln(w, "ROW\tNAME\tSTATUS\tISSUES")
		_, _ = fmt.Fprintln(w, "---\t----\t------\t------")
		for _, it := range o.Items {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", it.Row, it.Name, status(it.Result.OK), len(it.Result.Issues))
		}
	}
	_ = w.Flush()

	if issues := o.Issues(); len(issues) > 0 {
		_, _ = fmt.Fprintln(out)
		printIssues(out, issues)
	}
}

func printIssues(out io.Writer, issues []model.ValidationIssue) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "CODE\tFIELD\tMESSAGE")
	for _, is := range issues {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", is.Code, is.Field, is.Message)
	}
	_ = w.Flush()
}

func status(ok bool) string {
	if ok {
		return "valid"
	}
	return "invalid"
}

func init() {
	importCmd.Flags().String("report", "", "path for the CSV error report (default validation-errors-<file>.csv in export.out_dir)")
	importCmd.Flags().String("save", "", "save a valid exported workbook as a project with this name")
	rootCmd.AddCommand(importCmd)
}
