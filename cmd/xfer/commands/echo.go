package commands

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/viant/xfer"
	"github.com/viant/xfer/internal/printer"
	"github.com/viant/xfer/model/buffer"
	"github.com/viant/xfer/model/invocation"
)

var echoSize int

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Round-trip a buffer through the worker pool by copy, transfer and raw bytes",
	Long: `Submits three echo invocations sequentially and reports, for each, whether
the returned bytes match the input and the ownership state of the source buffer:

  copy      - echo.buffer with the default copy directive; source stays owned
  transfer  - echo.buffer with a transfer directive; source becomes transferred
  bytes     - echo.bytes on the raw bytes read from the source; source stays owned`,
	RunE: runEcho,
}

// echoReport describes a single echo variant outcome
type echoReport struct {
	Variant  string
	Function string
	Matched  bool
	Source   buffer.State
	Readable bool
}

func runEcho(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	srv, err := newService(ctx)
	if err != nil {
		return printer.Error("failed to configure service", err)
	}
	if err = srv.Start(ctx); err != nil {
		return printer.Error("failed to start worker pool", err)
	}
	defer srv.Shutdown(ctx)

	reports, err := echoVariants(ctx, srv, echoSize)
	if err != nil {
		return printer.Error("echo failed", err)
	}
	out := cmd.OutOrStdout()
	printer.Header(out, "%-9s %-12s %-8s %-12s %s\n", "VARIANT", "FUNCTION", "MATCHED", "SOURCE", "READABLE")
	for _, report := range reports {
		line := fmt.Sprintf("%-9s %-12s %-8v %-12s %v\n", report.Variant, report.Function, report.Matched, report.Source, report.Readable)
		if report.Matched {
			printer.Success(out, "%s", line)
		} else {
			printer.Warning(out, "%s", line)
		}
	}
	counters := srv.Progress()
	printer.Info(out, "%d submitted, %d completed, %d failed\n", counters.Submitted, counters.Completed, counters.Failed)
	return nil
}

func echoVariants(ctx context.Context, srv *xfer.Service, size int) ([]*echoReport, error) {
	payload := make([]byte, size)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	var reports []*echoReport
	for _, variant := range []struct {
		name       string
		function   string
		directives *invocation.Directives
		raw        bool
	}{
		{name: "copy", function: "echo.buffer"},
		{name: "transfer", function: "echo.buffer", directives: invocation.Transfer(0)},
		{name: "bytes", function: "echo.bytes", raw: true},
	} {
		source := buffer.New(payload)
		var arg interface{} = source
		if variant.raw {
			data, err := source.ReadBytes()
			if err != nil {
				return nil, err
			}
			arg = data
		}
		output, err := srv.Run(ctx, variant.function, []interface{}{arg}, variant.directives)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", variant.name, err)
		}
		echoed, err := outputBytes(output)
		if err != nil {
			return nil, fmt.Errorf("%v: %w", variant.name, err)
		}
		_, readErr := source.ReadBytes()
		reports = append(reports, &echoReport{
			Variant:  variant.name,
			Function: variant.function,
			Matched:  bytes.Equal(payload, echoed),
			Source:   source.State(),
			Readable: readErr == nil,
		})
	}
	return reports, nil
}

func outputBytes(output interface{}) ([]byte, error) {
	switch actual := output.(type) {
	case *buffer.Buffer:
		return actual.ReadBytes()
	case []byte:
		return actual, nil
	}
	return nil, fmt.Errorf("unexpected output type %T", output)
}

func init() {
	echoCmd.Flags().IntVarP(&echoSize, "size", "s", 1024, "payload size in bytes")
	rootCmd.AddCommand(echoCmd)
}
