package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ptgen/pkg/app"
	"github.com/deploymenttheory/go-ptgen/pkg/app/generate"
)

func newPlanCommand(ctx *app.Context, opts *options) *cobra.Command {
	lf := &layoutFlags{}
	var format string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the partition layout without writing an image",
		Long: `Lay out the requested partitions and encode the table in memory, then print
the result. The output file, if given, is never opened.

Examples:
  # Check where partitions land on a cylinder-aligned MBR
  ptgen plan -h 16 -s 63 -p 16M -p 256M

  # Inspect a GPT layout as JSON
  ptgen plan -g -h 16 -s 63 -l 1024 -t ef -p 32M -p 512M --format json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ValidateFormat(format); err != nil {
				return err
			}
			ctx.OutputFormat = format
			setupContext(ctx, opts, opts.verbose)

			cfg, err := loadConfig(ctx, cmd, opts, lf)
			if err != nil {
				return err
			}
			setupContext(ctx, opts, cfg.Verbose)

			req, warnings, err := generate.FromConfig(cfg)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				ctx.Log("plan").Warn(w)
			}

			response, err := generate.Plan(ctx, req)
			if err != nil {
				return err
			}
			return generate.FormatOutput(ctx.Stdout, response, ctx.OutputFormat)
		},
	}

	lf.register(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", app.FormatTable, "output format (table, json, yaml)")
	return cmd
}
