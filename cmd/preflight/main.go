package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/section3-pro/compliance-backend/config"
	"github.com/section3-pro/compliance-backend/logger"
	"github.com/spf13/cobra"
)

// errNotReady makes the process exit 1 without printing anything beyond the report.
var errNotReady = errors.New("not ready")

type options struct {
	configFile   string
	environment  string
	outputFormat string
}

func main() {
	logger.InitLogger()
	defer logger.Close()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		if !errors.Is(err, errNotReady) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "preflight",
		Short:         "Section 3 deployment preflight checks",
		Long:          `preflight validates deployment prerequisites and probes the service dependencies.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML or .env file to load before environment variables")
	rootCmd.PersistentFlags().StringVar(&opts.environment, "env", "", "Load config/config.<env>.yaml (development, staging, production)")
	rootCmd.PersistentFlags().StringVarP(&opts.outputFormat, "output", "o", "table", "Output format (table, json, yaml)")

	rootCmd.AddCommand(checkCmd(opts))
	rootCmd.AddCommand(healthCmd(opts))

	return rootCmd
}

func (o *options) loadConfig() (*config.Config, error) {
	switch {
	case o.configFile != "" && o.environment != "":
		return nil, fmt.Errorf("--config and --env are mutually exclusive")
	case o.configFile != "":
		return config.LoadConfigFromFile(o.configFile)
	case o.environment != "":
		return config.LoadConfigForEnv(o.environment)
	default:
		return config.LoadConfig()
	}
}
