package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/solve3/go-solve3/config"
)

var (
	// Version is the app's semantic version. Designed to be overwritten by make.
	Version string

	vip        = viper.New()
	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "solve3",
	Short:         "verify signed single-use proofs",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaults := config.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "load configuration from file")
	flags.StringP("data-folder", "d", defaults.DataDir, "directory with the solve3 database")
	flags.String("log-level", defaults.Logging.App, "logging level of the command")
	flags.String("log-encoder", defaults.Logging.Encoder, "log as console or json")
	flags.Bool("metrics", defaults.CollectMetrics, "collect metrics")
	flags.Int("metrics-port", defaults.MetricsPort, "metrics server port")

	if err := bindFlags(vip, flags); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(
		initCmd(),
		signerCmd(),
		challengeCmd(),
		signCmd(),
		verifyCmd(),
		policyCmd(),
		campaignCmd(),
		tokenCmd(),
		keygenCmd(),
		serveCmd(),
	)
}

// bindFlags maps persistent flags onto their config keys.
func bindFlags(vip *viper.Viper, flags *pflag.FlagSet) error {
	for key, flag := range map[string]string{
		"main.data-folder":    "data-folder",
		"main.metrics":        "metrics",
		"main.metrics-port":   "metrics-port",
		"logging.app":         "log-level",
		"logging.log-encoder": "log-encoder",
	} {
		if err := vip.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// loadConfig merges defaults, the config file and the command line flags.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configPath != "" {
		if err := config.LoadConfig(configPath, vip); err != nil {
			return nil, err
		}
		cfg.ConfigFile = configPath
	}
	if err := config.Decode(vip, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
