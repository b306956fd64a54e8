// Package suite wires configuration, outputs, profiling and the runner into a benchmark
// command.
package suite

import (
	"context"
	"fmt"
	"io"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"github.com/christophwitzko/csvbench/pkg/benchmark/output"
	"github.com/christophwitzko/csvbench/pkg/cli"
	"github.com/christophwitzko/csvbench/pkg/config"
	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/christophwitzko/csvbench/pkg/merror"
	"github.com/christophwitzko/csvbench/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory if --config is not set.
const DefaultConfigFile = "csvbench.yaml"

const profileTop = 10

// Run executes cases according to cfg and writes the results to the configured outputs.
func Run(ctx context.Context, log *logger.Logger, cfg *config.BenchConfig, cases []benchmark.Case) error {
	if err := cfg.Apply(); err != nil {
		return err
	}
	writer, err := output.New(ctx, log, cfg.Outputs, "txt")
	if err != nil {
		return err
	}

	var stopProfile func() error
	if cfg.CPUProfile != "" {
		stopProfile, err = profile.StartCPU(cfg.CPUProfile)
		if err != nil {
			return merror.MaybeMultiError(err, writer.Close())
		}
		log.Infof("writing cpu profile to %s", cfg.CPUProfile)
	}

	runner := &benchmark.Runner{
		Log:     log,
		Writer:  writer,
		Count:   cfg.Count,
		Shuffle: cfg.Shuffle,
		Seed:    cfg.Seed,
	}
	runErr := runner.Run(ctx, cases)

	var profileErr error
	if stopProfile != nil {
		profileErr = stopProfile()
		if profileErr == nil {
			profileErr = profile.LogTop(log, cfg.CPUProfile, profileTop)
		}
	}
	return merror.MaybeMultiError(runErr, profileErr, writer.Close())
}

// PrintConfig writes cfg as yaml.
func PrintConfig(w io.Writer, name string, cfg any) error {
	cfgStr, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "# %s config\n%s", name, cfgStr)
	return err
}

// NewRootCmd returns the root command of a benchmark binary accepting nArgs positional
// arguments. Wrong arguments and unparsable flags print usage. The per-command viper
// instance is loaded from the config file before the command runs.
func NewRootCmd(log *logger.Logger, v *viper.Viper, use, short, usage string, nArgs int) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		Args:          cli.ExactArgs(nArgs, usage),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(v, cmd, DefaultConfigFile); err != nil {
				log.Errorf("Config error: %v", err)
				return err
			}
			log.SetVerbose(v.GetBool("verbose"))
			log.Debug(cli.GetBuildInfo())
			if usedConfigFile := v.ConfigFileUsed(); usedConfigFile != "" {
				log.Infof("using config: %s", cli.GetRelativePath(usedConfigFile))
			}
			return nil
		},
	}
	cmd.SetFlagErrorFunc(cli.FlagErrorUsage(usage))
	return cmd
}

// Execute runs cmd with args and returns the process exit status. Usage errors print the
// usage line to stdout and the flag error, if any, to stderr. All other errors are logged
// by the command itself.
func Execute(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if usageErr, ok := cli.AsUsageError(err); ok {
			if usageErr.Err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", usageErr.Err)
			}
			fmt.Fprintln(stdout, usageErr.Usage)
		}
		return 1
	}
	return 0
}
