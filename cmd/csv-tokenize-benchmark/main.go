package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"github.com/christophwitzko/csvbench/pkg/cli"
	"github.com/christophwitzko/csvbench/pkg/config"
	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/christophwitzko/csvbench/pkg/suite"
	"github.com/christophwitzko/csvbench/pkg/tokenbench"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const usage = "Usage: ./main <csv_file>"

func main() {
	os.Exit(suite.Execute(rootCmd(logger.New()), os.Args[1:], os.Stdout, os.Stderr))
}

func rootCmd(log *logger.Logger) *cobra.Command {
	v := config.NewViper()
	cmd := suite.NewRootCmd(log, v, "csv-tokenize-benchmark <csv_file>", "benchmark tokenizing a memory mapped CSV file", usage, 1)
	cmd.Long = `Maps the given CSV file into memory and counts its rows and cells in a timed loop.
Every iteration maps the file again, so the measurement includes mapping and unmapping.`
	cmd.RunE = cli.WrapRunE(log, func(log *logger.Logger, cmd *cobra.Command, args []string) error {
		return tokenizeRun(log, v, cmd, args)
	})
	config.TokenizeSetupFlagsAndViper(cmd, v)
	return cmd
}

func tokenizeRun(log *logger.Logger, v *viper.Viper, cmd *cobra.Command, args []string) error {
	cfg, err := config.NewTokenizeConfig(v)
	if err != nil {
		return err
	}
	if cli.MustGetBool(cmd, "print-config") {
		return suite.PrintConfig(cmd.OutOrStdout(), "csv tokenize benchmark", cfg)
	}

	path := args[0]
	tokenbench.LogHeader(log, path, cfg.Dialect())
	cases := []benchmark.Case{tokenbench.Case(log, path, cfg.Dialect())}
	if cfg.CompareStdlib {
		stdlibCase, err := tokenbench.StdlibCase(log, path, cfg.Dialect())
		if err != nil {
			return err
		}
		cases = append(cases, stdlibCase)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return suite.Run(ctx, log, &cfg.BenchConfig, cases)
}
