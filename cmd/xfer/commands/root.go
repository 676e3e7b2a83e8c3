package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/xfer"
)

var (
	configURL string
	poolSize  int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "xfer",
	Short: "xfer - worker task dispatch with transferable payloads",
	Long: `xfer dispatches invocations of registered functions to a fixed pool of
worker execution contexts. Buffers cross the worker boundary either by copy
or by ownership transfer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", v, c)
}

// newService builds the service from --config and --pool-size
func newService(ctx context.Context) (*xfer.Service, error) {
	config := xfer.DefaultConfig()
	if configURL != "" {
		var err error
		if config, err = xfer.LoadConfig(ctx, configURL); err != nil {
			return nil, err
		}
	}
	if poolSize > 0 {
		config.Dispatcher.PoolSize = poolSize
	}
	return xfer.New(xfer.WithConfig(config))
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configURL, "config", "c", "", "YAML config URL (file path or any afs URL)")
	rootCmd.PersistentFlags().IntVarP(&poolSize, "pool-size", "p", 0, "number of worker slots, overrides config")
}
