package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bep-cli/internal/importer"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file.xlsx>",
	Short: "Report whether a workbook is an export, a raw cost sheet or unknown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "detect: read %s", args[0])
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), importer.Detect(data, cfg.Import))
		return err
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
