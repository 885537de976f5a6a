package cmd

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scalr-tools/bulk-import/pkg/compiler"
	"github.com/scalr-tools/bulk-import/pkg/compiler/ec2"
	"github.com/scalr-tools/bulk-import/pkg/compiler/vmware"
	"github.com/scalr-tools/bulk-import/pkg/logger"
	"github.com/scalr-tools/bulk-import/pkg/plan"
)

type compileOptions struct {
	Source       string
	Environment  string
	Output       string
	Platform     string
	ProjectNames bool
}

var compileOpts compileOptions

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringVarP(&compileOpts.Source, "source", "s", "", "source CSV file (required)")
	compileCmd.Flags().StringVarP(&compileOpts.Environment, "environment", "e", "", "environment id this Plan is for (required)")
	compileCmd.Flags().StringVarP(&compileOpts.Output, "output", "o", "", "file prefix to write <output>.setup.yml and <output>.import.yml to (required, must not exist)")
	compileCmd.Flags().StringVarP(&compileOpts.Platform, "platform", "P", "", "cloud platform the source CSV describes: ec2 or vmware (required)")
	compileCmd.Flags().BoolVarP(&compileOpts.ProjectNames, "project-names", "p", false, "treat the project column as a name to resolve, not a literal project id")

	for _, name := range []string{"source", "environment", "output", "platform"} {
		if err := compileCmd.MarkFlagRequired(name); err != nil {
			logger.Get().Errorf("failed to mark %q flag as required: %v", name, err)
		}
	}
}

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a CSV of existing cloud servers into setup and import Plans",
	Long: `compile reads a CSV of existing cloud VMs and produces two Plan files: a
setup Plan that creates the farms and farm roles those VMs will join, and
an import Plan that imports each VM into its farm role.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()
		defer logger.SyncGlobal()

		var platform compiler.Platform
		switch compileOpts.Platform {
		case "ec2":
			platform = ec2.New()
		case "vmware":
			platform = vmware.New()
		default:
			return fmt.Errorf("unknown --platform %q: must be ec2 or vmware", compileOpts.Platform)
		}

		f, err := os.Open(compileOpts.Source)
		if err != nil {
			return fmt.Errorf("opening source CSV: %w", err)
		}
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		if err != nil {
			return fmt.Errorf("reading source CSV: %w", err)
		}

		ids := compiler.NewIDGenerator()
		setupPlan, err := compiler.MakeSetupPlan(ids, platform, rows, compileOpts.Environment, compileOpts.ProjectNames)
		if err != nil {
			return fmt.Errorf("compiling setup plan: %w", err)
		}
		log.Infof("compiled setup plan with %d steps", len(setupPlan))

		importIDs := compiler.NewIDGenerator()
		importPlan, err := compiler.MakeImportPlan(importIDs, rows, compileOpts.Environment)
		if err != nil {
			return fmt.Errorf("compiling import plan: %w", err)
		}
		log.Infof("compiled import plan with %d steps", len(importPlan))

		setupPath := compileOpts.Output + ".setup.yml"
		if err := plan.WriteNew(setupPath, setupPlan); err != nil {
			return fmt.Errorf("writing setup plan: %w", err)
		}
		log.Successf("wrote %s", setupPath)

		importPath := compileOpts.Output + ".import.yml"
		if err := plan.WriteNew(importPath, importPlan); err != nil {
			return fmt.Errorf("writing import plan: %w", err)
		}
		log.Successf("wrote %s", importPath)

		return nil
	},
}
