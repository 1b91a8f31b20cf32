package main

import (
	"fmt"
	"io"

	"github.com/section3-pro/compliance-backend/services"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/spf13/cobra"
)

func checkCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate deployment prerequisites",
		Long:  `Runs the deployment checklist against the configuration. Exits 1 when any error-severity check fails.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			report := services.NewDeploymentService(cfg).CheckPrerequisites()
			response := types.DeploymentStatusResponse{PrerequisiteReport: report, CanDeploy: report.Passed}

			if err := render(cmd.OutOrStdout(), opts.outputFormat, response, func(w io.Writer) error {
				return reportTable(w, report)
			}); err != nil {
				return err
			}
			if !report.Passed {
				return errNotReady
			}
			return nil
		},
	}
}

func reportTable(w io.Writer, report types.PrerequisiteReport) error {
	rows := make([][]string, 0, len(report.Checks))
	for _, c := range report.Checks {
		rows = append(rows, []string{c.Name, string(c.Severity), passFail(c.Passed), c.Message})
	}
	if err := writeTable(w, []string{"Check", "Severity", "Result", "Message"}, rows); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\n%d/%d checks passed, %d errors, %d warnings. Can deploy: %t\n",
		report.Summary.Passed, report.Summary.Total, report.Summary.Errors, report.Summary.Warnings, report.Passed)
	return err
}
