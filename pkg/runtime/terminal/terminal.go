package terminal

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/de-tools/tradeline-atlas/pkg/config"
	"github.com/de-tools/tradeline-atlas/pkg/runtime/app"
	"github.com/de-tools/tradeline-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/tradeline-atlas/pkg/store/source"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	output  io.Writer
	env     *commands.Env
	app     *app.App
	rootCmd *cobra.Command

	configPath string
	json       bool
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Service replaces the configured analysis service; tests use it.
	Service commands.Service
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		output: opts.Output,
		env:    &commands.Env{Service: opts.Service},
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.ExecuteContext(context.Background())
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "tradeline",
		Short:             "Credit report analysis tool",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to a YAML config file")
	cmd.PersistentFlags().BoolVar(&cli.json, "json", false, "Print results as JSON")

	cmd.AddCommand(commands.NewParseCmd(cli.env))
	cmd.AddCommand(commands.NewMergeCmd(cli.env))
	cmd.AddCommand(commands.NewAnalyzeCmd(cli.env))
	cmd.AddCommand(commands.NewSimulateCmd(cli.env))
	cmd.AddCommand(commands.NewRunsCmd(cli.env))

	cmd.SetOut(cli.output)

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(cli.configPath)
	if err != nil {
		return err
	}

	logger := cfg.Log.Logger(cmd.ErrOrStderr())
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	cli.env.Reporter = newReporter(cli.output, cli.json)
	cli.env.Loader = source.NewRouter(&lazyS3{profile: cfg.AWS.Profile, region: cfg.AWS.Region})

	if cli.env.Service == nil {
		cli.app, err = app.New(ctx, cfg)
		if err != nil {
			return err
		}
		cli.env.Service = cli.app.Service
	}
	return nil
}

func (cli *CLI) close() {
	if cli.app != nil {
		_ = cli.app.Close()
		cli.app = nil
	}
}

// lazyS3 defers AWS configuration until the first s3:// location is loaded.
type lazyS3 struct {
	profile string
	region  string

	once   sync.Once
	loader *source.S3Loader
	err    error
}

func (l *lazyS3) Load(ctx context.Context, location string) (string, error) {
	l.once.Do(func() {
		l.loader, l.err = source.NewS3LoaderFromProfile(ctx, l.profile, l.region)
	})
	if l.err != nil {
		return "", l.err
	}
	return l.loader.Load(ctx, location)
}
