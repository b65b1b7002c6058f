package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/store"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Inspect saved projects",
	Long:  "Commands for listing and viewing projects saved with import --save.",
}

// -- projects list --

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved projects",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		name, _ := cmd.Flags().GetString("name")
		limit, _ := cmd.Flags().GetInt("limit")

		projects, err := st.ListProjects(ctx, store.ProjectFilter{Name: name, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "projects list")
		}

		if len(projects) == 0 {
			fmt.Fprintln(cmd.ErrOrStderr(), "No projects found.")
			return nil
		}

		formatProjectsList(cmd.OutOrStdout(), projects)
		return nil
	},
}

// -- projects show --

var projectsShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show full details of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		p, err := st.GetProject(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "projects show")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

func init() {
	projectsListCmd.Flags().String("name", "", "filter by project name (substring)")
	projectsListCmd.Flags().Int("limit", 50, "max number of projects to display")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsShowCmd)
	rootCmd.AddCommand(projectsCmd)
}

// formatProjectsList writes a tabular list of projects to w.
func formatProjectsList(out io.Writer, projects []model.Project) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tPRICE\tUNIT_COST\tFIXED_COST\tBEP\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t---------\t----------\t---\t-------")

	for _, p := range projects {
		name := p.Name
		if len([]rune(name)) > 30 {
			name = string([]rune(name)[:27]) + "..."
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			truncateID(p.ID),
			name,
			amount(p.Inputs.Price),
			amount(p.Inputs.UnitCost),
			amount(p.Inputs.FixedCost),
			amount(p.Result.BreakEvenQty),
			p.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}
