package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/christophwitzko/csvbench/pkg/allocbench"
	"github.com/christophwitzko/csvbench/pkg/cli"
	"github.com/christophwitzko/csvbench/pkg/config"
	"github.com/christophwitzko/csvbench/pkg/logger"
	"github.com/christophwitzko/csvbench/pkg/suite"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const usage = "Usage: ./alloc-benchmark [flags]"

func main() {
	os.Exit(suite.Execute(rootCmd(logger.New()), os.Args[1:], os.Stdout, os.Stderr))
}

func rootCmd(log *logger.Logger) *cobra.Command {
	v := config.NewViper()
	cmd := suite.NewRootCmd(log, v, "alloc-benchmark", "compare separate and combined allocation of shared records", usage, 0)
	cmd.RunE = cli.WrapRunE(log, func(log *logger.Logger, cmd *cobra.Command, args []string) error {
		return allocRun(log, v, cmd)
	})
	config.BenchSetupFlagsAndViper(cmd, v)
	return cmd
}

func allocRun(log *logger.Logger, v *viper.Viper, cmd *cobra.Command) error {
	cfg, err := config.NewBenchConfig(v)
	if err != nil {
		return err
	}
	if cli.MustGetBool(cmd, "print-config") {
		return suite.PrintConfig(cmd.OutOrStdout(), "alloc benchmark", cfg)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return suite.Run(ctx, log, cfg, allocbench.Cases())
}
