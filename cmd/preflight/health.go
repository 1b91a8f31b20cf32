package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/section3-pro/compliance-backend/internal/app"
	"github.com/section3-pro/compliance-backend/internal/probe"
	"github.com/section3-pro/compliance-backend/types"
	"github.com/spf13/cobra"
)

func healthCmd(opts *options) *cobra.Command {
	var component string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe service dependencies",
		Long:  `Runs the dependency probes once. Exits 1 unless the overall status is healthy or degraded.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			var kind probe.Kind
			if component != "" {
				var ok bool
				if kind, ok = probe.ParseKind(component); !ok {
					return fmt.Errorf("unknown component %q (valid: %v)", component, probe.Kinds())
				}
			}

			a, err := app.New(cmd.Context(), cfg, app.Options{Registerer: prometheus.NewRegistry()})
			if err != nil {
				return err
			}
			defer a.Close()

			if kind != "" {
				result, err := a.Health.CheckComponent(cmd.Context(), kind)
				if err != nil {
					return err
				}
				if err := render(cmd.OutOrStdout(), opts.outputFormat, result, func(w io.Writer) error {
					return healthTable(w, []types.ProbeResult{result})
				}); err != nil {
					return err
				}
				if result.Status == types.ProbeStatusUnhealthy || result.Status == types.ProbeStatusError {
					return errNotReady
				}
				return nil
			}

			health := a.Health.CheckHealth(cmd.Context())
			if err := render(cmd.OutOrStdout(), opts.outputFormat, health, func(w io.Writer) error {
				results := make([]types.ProbeResult, 0, len(health.Services))
				for _, r := range health.Services {
					results = append(results, r)
				}
				sort.Slice(results, func(i, j int) bool { return results[i].Component < results[j].Component })
				if err := healthTable(w, results); err != nil {
					return err
				}
				_, err := fmt.Fprintf(w, "\nOverall status: %s\n", health.OverallStatus)
				return err
			}); err != nil {
				return err
			}
			if !health.OverallStatus.IsOperable() {
				return errNotReady
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&component, "component", "", "Probe a single component (database, ai, email, storage, security, cache)")
	return cmd
}

func healthTable(w io.Writer, results []types.ProbeResult) error {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		latency := "-"
		if r.ResponseTimeMs != nil {
			latency = strconv.FormatInt(*r.ResponseTimeMs, 10) + "ms"
		}
		detail := r.Message
		if r.Error != "" {
			detail = r.Message + ": " + r.Error
		}
		rows = append(rows, []string{r.Component, string(r.Status), latency, detail})
	}
	return writeTable(w, []string{"Component", "Status", "Latency", "Detail"}, rows)
}
