package config

import (
	"fmt"

	"github.com/christophwitzko/csvbench/pkg/benchmark"
	"github.com/christophwitzko/csvbench/pkg/cli"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BenchConfig configures the harness shared by all benchmark commands.
type BenchConfig struct {
	Count      int      `yaml:"count"`
	BenchTime  string   `yaml:"benchtime"`
	Outputs    []string `yaml:"output"`
	Shuffle    bool     `yaml:"shuffle"`
	Seed       int64    `yaml:"seed"`
	CPUProfile string   `yaml:"cpuprofile,omitempty"`
	Verbose    bool     `yaml:"verbose"`
}

func NewBenchConfig(v *viper.Viper) (*BenchConfig, error) {
	c := &BenchConfig{
		Count:      v.GetInt("count"),
		BenchTime:  v.GetString("benchtime"),
		Outputs:    v.GetStringSlice("output"),
		Shuffle:    v.GetBool("shuffle"),
		Seed:       v.GetInt64("seed"),
		CPUProfile: v.GetString("cpuprofile"),
		Verbose:    v.GetBool("verbose"),
	}

	var confErr error
	if c.Count < 1 {
		confErr = multierror.Append(confErr, fmt.Errorf("count must be at least 1, got %d", c.Count))
	}
	if c.BenchTime == "" {
		confErr = multierror.Append(confErr, fmt.Errorf("missing benchtime"))
	}
	if len(c.Outputs) == 0 {
		confErr = multierror.Append(confErr, fmt.Errorf("missing output"))
	}
	if confErr != nil {
		return nil, confErr
	}
	return c, nil
}

// Apply configures the harness-wide benchmark time.
func (c *BenchConfig) Apply() error {
	if err := benchmark.SetBenchTime(c.BenchTime); err != nil {
		return fmt.Errorf("invalid benchtime %q: %w", c.BenchTime, err)
	}
	return nil
}

func BenchSetupFlagsAndViper(cmd *cobra.Command, v *viper.Viper) {
	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file")
	flags.Int("count", 1, "number of times every benchmark is executed")
	flags.String("benchtime", "1s", "run time per benchmark, or iteration count as Nx")
	flags.StringArray("output", []string{"-"}, "result output [e.g. results.csv, results.json?chunked=true, gs://bucket/results.txt]")
	flags.Bool("shuffle", false, "shuffle the benchmark order of every execution")
	flags.Int64("seed", 0, "seed used for shuffling, 0 uses the current time")
	flags.String("cpuprofile", "", "write a CPU profile of all benchmark runs to this file")
	flags.Bool("verbose", false, "enable debug logging")
	flags.Bool("print-config", false, "print the effective config and exit")
	cli.Must(v.BindPFlags(flags))
}
