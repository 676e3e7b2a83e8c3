package commands

import (
	"github.com/spf13/cobra"
	"github.com/viant/xfer/internal/printer"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List registered functions",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := newService(cmd.Context())
		if err != nil {
			return printer.Error("failed to configure service", err)
		}
		out := cmd.OutOrStdout()
		for _, ref := range srv.Registry().Refs() {
			fn, err := srv.Registry().Function(ref)
			if err != nil {
				return err
			}
			printer.Info(out, "%-14s %s\n", ref, fn.Signature.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(functionsCmd)
}
