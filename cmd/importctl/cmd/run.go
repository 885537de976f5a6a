package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scalr-tools/bulk-import/pkg/apiclient"
	"github.com/scalr-tools/bulk-import/pkg/config"
	"github.com/scalr-tools/bulk-import/pkg/executor"
	"github.com/scalr-tools/bulk-import/pkg/logger"
)

var runFlags config.Flags

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runFlags.APIURL, "url", "", "control-plane base URL (or SCALR_API_URL)")
	runCmd.Flags().StringVar(&runFlags.APIKey, "key", "", "signing key id (or SCALR_API_KEY)")
	runCmd.Flags().StringVar(&runFlags.APISecret, "secret", "", "signing key secret (or SCALR_API_SECRET)")
	runCmd.Flags().StringVar(&runFlags.PlanFile, "plan", "", "path to the Plan YAML file to execute (required)")
	runCmd.Flags().BoolVar(&runFlags.DryRun, "dry-run", false, "list and log every step without issuing mutating requests")
	runCmd.Flags().DurationVar(&runFlags.Timeout, "timeout", 0, "per-request HTTP timeout (default 30s)")

	if err := runCmd.MarkFlagRequired("plan"); err != nil {
		logger.Get().Errorf("failed to mark 'plan' flag as required: %v", err)
	}
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a Plan against the control-plane API",
	Long: `run drives a Plan's Steps in order, resolving $ref references against
an outputs journal and resuming automatically from any previous,
interrupted invocation against the same Plan file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get()
		defer logger.SyncGlobal()

		cfg, err := config.Resolve(runFlags)
		if err != nil {
			return err
		}

		client := apiclient.New(cfg.APIURL, cfg.APIKey, cfg.APISecret, cfg.Timeout)
		exec := executor.New(client, log, cfg.DryRun)

		if cfg.DryRun {
			log.Info("dry-run: mutating steps will be listed, not executed")
		}

		if err := exec.Run(context.Background(), cfg.PlanFile); err != nil {
			return fmt.Errorf("run failed: %w", err)
		}
		return nil
	},
}
