package config

import (
	"fmt"

	"github.com/christophwitzko/csvbench/pkg/cli"
	"github.com/christophwitzko/csvbench/pkg/csvtok"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type TokenizeConfig struct {
	BenchConfig   `yaml:",inline"`
	Delimiter     string `yaml:"delimiter"`
	Quote         string `yaml:"quote"`
	Header        bool   `yaml:"header"`
	CompareStdlib bool   `yaml:"compare-stdlib"`

	dialect csvtok.Dialect
}

func NewTokenizeConfig(v *viper.Viper) (*TokenizeConfig, error) {
	var confErr error
	bc, err := NewBenchConfig(v)
	if err != nil {
		confErr = multierror.Append(confErr, err)
		bc = &BenchConfig{}
	}
	c := &TokenizeConfig{
		BenchConfig:   *bc,
		Delimiter:     v.GetString("delimiter"),
		Quote:         v.GetString("quote"),
		Header:        v.GetBool("header"),
		CompareStdlib: v.GetBool("compare-stdlib"),
	}
	if len(c.Delimiter) != 1 {
		confErr = multierror.Append(confErr, fmt.Errorf("delimiter must be a single byte, got %q", c.Delimiter))
	}
	if len(c.Quote) != 1 {
		confErr = multierror.Append(confErr, fmt.Errorf("quote must be a single byte, got %q", c.Quote))
	}
	if confErr != nil {
		return nil, confErr
	}
	c.dialect = csvtok.Dialect{
		Delimiter: c.Delimiter[0],
		Quote:     c.Quote[0],
		Header:    c.Header,
	}
	if err := c.dialect.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *TokenizeConfig) Dialect() csvtok.Dialect {
	return c.dialect
}

func TokenizeSetupFlagsAndViper(cmd *cobra.Command, v *viper.Viper) {
	BenchSetupFlagsAndViper(cmd, v)
	flags := cmd.Flags()
	flags.String("delimiter", ",", "cell delimiter")
	flags.String("quote", `"`, "quote character")
	flags.Bool("header", false, "treat the first row as header")
	flags.Bool("compare-stdlib", false, "also benchmark encoding/csv on the same file")
	flags.SortFlags = true
	v.SetDefault("delimiter", ",")
	v.SetDefault("quote", `"`)
	cli.Must(v.BindPFlags(flags))
}
