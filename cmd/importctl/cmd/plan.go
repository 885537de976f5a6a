package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/scalr-tools/bulk-import/pkg/journal"
	plandata "github.com/scalr-tools/bulk-import/pkg/plan"
)

// planCmd groups Plan-inspection subcommands, the way the teacher's
// cluster/node/certs commands each root a small family of subcommands.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect Plan files",
}

var planShowFile string

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planShowCmd)
	planShowCmd.Flags().StringVar(&planShowFile, "plan", "", "path to the Plan YAML file (required)")
	if err := planShowCmd.MarkFlagRequired("plan"); err != nil {
		fmt.Fprintf(os.Stderr, "failed to mark 'plan' flag as required for 'plan show': %v\n", err)
	}
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Render a Plan's steps and their journal status as a table",
	Long: `show lists every Step in a Plan file alongside its action, params and
status: complete when the outputs journal records it complete; the first
Step not recorded complete is shown as "stopped here", and later ones as
pending.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plandata.Load(planShowFile)
		if err != nil {
			return err
		}

		outputs, err := journal.Load(journal.PathFor(planShowFile))
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "ACTION", "PARAMS", "STATUS"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		table.SetCenterSeparator("")
		table.SetColumnSeparator("")
		table.SetRowSeparator("")
		table.SetHeaderLine(false)
		table.SetTablePadding("\t")
		table.SetNoWhiteSpace(true)

		green := color.New(color.FgGreen).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		firstPending := true
		for _, step := range p {
			complete, _ := outputs[step.ID]["complete"].(bool)
			var status string
			switch {
			case complete:
				status = green("complete")
			case firstPending:
				status = red("stopped here")
				firstPending = false
			default:
				status = yellow("pending")
			}
			table.Append([]string{step.ID, step.Action, fmt.Sprintf("%v", step.Params), status})
		}
		table.Render()
		return nil
	},
}
