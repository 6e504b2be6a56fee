package cmd

import (
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-ptgen/pkg/app"
	"github.com/deploymenttheory/go-ptgen/pkg/app/inspect"
)

func newInspectCommand(ctx *app.Context, opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect IMAGE",
		Short: "Decode and verify the partition table of an image",
		Long: `Read the MBR or GPT of an image and print its partitions. For GPT images both
header checksums, both entry array checksums and the mirroring of the backup
header are verified. The image is opened read-only.

Examples:
  ptgen inspect disk.img
  ptgen inspect disk.img --format yaml`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ValidateFormat(format); err != nil {
				return err
			}
			ctx.OutputFormat = format
			setupContext(ctx, opts, opts.verbose)

			response, err := inspect.Handle(ctx, &inspect.Request{ImagePath: args[0]})
			if err != nil {
				return err
			}
			if err := inspect.FormatOutput(ctx.Stdout, response, ctx.OutputFormat); err != nil {
				return err
			}
			if !response.Valid {
				return app.NewError(app.ErrCodeCorruptImage, "partition table verification failed", nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", app.FormatTable, "output format (table, json, yaml)")
	return cmd
}
