package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deploymenttheory/go-ptgen/internal/config"
	"github.com/deploymenttheory/go-ptgen/pkg/app"
	"github.com/deploymenttheory/go-ptgen/pkg/app/generate"
)

// options holds the flags shared by every command
type options struct {
	configFile string
	verbose    int
	quiet      bool
}

// Execute builds the command tree, runs it and exits with a failure status on error.
func Execute() {
	ctx := app.NewContext()
	root := NewRootCommand(ctx)
	if err := run(root, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// run executes root and reports a failure as a single line on stderr, followed by the
// usage text for command-line mistakes.
func run(root *cobra.Command, stderr io.Writer) error {
	cmd, err := root.ExecuteC()
	if err == nil {
		return nil
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if app.ErrorCode(err) == app.ErrCodeUsage {
		fmt.Fprint(stderr, cmd.UsageString())
	}
	return err
}

// NewRootCommand returns the ptgen command tree bound to ctx.
func NewRootCommand(ctx *app.Context) *cobra.Command {
	opts := &options{}
	lf := &layoutFlags{}

	root := &cobra.Command{
		Use:   "ptgen",
		Short: "Generate MBR and GPT partition table images",
		Long: `ptgen writes a partition table image for firmware and disk image builds.

It lays out the requested partitions one after another on a legacy heads/sectors
geometry, then writes either a classic four-entry MBR or a GUID partition table
with its protective MBR and backup copy. The byte offset and byte length of every
partition are printed to stdout, one number per line.

Examples:
  # Two partitions on a 4-head, 63-sector geometry
  ptgen -o disk.img -h 4 -s 63 -p 16M -p 256M

  # GPT with an EFI system partition, 1 MiB aligned
  ptgen -g -o disk.img -h 16 -s 63 -l 1024 -t ef -p 32M -t 83 -p 512M`,
		Version:       "0.1.0-dev",
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(ctx, cmd, opts, lf)
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return app.NewError(app.ErrCodeUsage, "invalid arguments", err)
	})

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ptgen.yaml in ., ./config, $HOME/.ptgen, /etc/ptgen)")
	root.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", "verbose output, repeat for more detail")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "only print errors")
	lf.register(root.Flags())

	root.AddCommand(newPlanCommand(ctx, opts), newInspectCommand(ctx, opts))
	return root
}

// loadConfig merges the config file, environment and the command's flags
func loadConfig(ctx *app.Context, cmd *cobra.Command, opts *options, lf *layoutFlags) (*config.Config, error) {
	v := config.New(config.Options{Fs: ctx.Fs, File: opts.configFile})
	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, app.NewError(app.ErrCodeUsage, "failed to load configuration", err)
	}
	if len(lf.list.partitions) > 0 {
		cfg.Partitions = lf.list.partitions
	}
	if used := config.UsedFile(v); used != "" {
		ctx.Log(cmd.Name()).WithField("file", used).Debug("loaded config file")
	}
	return cfg, nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func setupContext(ctx *app.Context, opts *options, verbose int) {
	ctx.Quiet = opts.quiet
	ctx.SetVerbosity(verbose)
}

func runGenerate(ctx *app.Context, cmd *cobra.Command, opts *options, lf *layoutFlags) error {
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
		ctx.Log("generate").Warn(w)
	}

	response, err := generate.Handle(ctx, req)
	if err != nil {
		return err
	}

	if err := generate.WriteReport(ctx.Stdout, response); err != nil {
		return app.NewError(app.ErrCodeIO, "failed to write report", err)
	}
	ctx.Log("generate").Debug(generate.FormatSummary(response))
	return nil
}

// usageArgs turns a positional argument error into a usage error
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return app.NewError(app.ErrCodeUsage, "invalid arguments", err)
		}
		return nil
	}
}
