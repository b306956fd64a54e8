package config

import (
	"errors"
	"strings"

	"github.com/christophwitzko/csvbench/pkg/cli"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const EnvPrefix = "CSVBENCH"

// NewViper returns a viper instance reading CSVBENCH_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func InitConfig(v *viper.Viper, cmd *cobra.Command, defaultConfigFile string) error {
	configFile := cli.MustGetString(cmd, "config")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(defaultConfigFile)
	}
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}
