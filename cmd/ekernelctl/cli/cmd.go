// Package cli wires together the ekernelctl subcommands: run, stats,
// and inspect. Grounded on
// _examples/arctir-proctor/proctor/cmd/cmd.go's SetupCLI/cobra
// structure and _examples/arctir-proctor/proctor/cmd/cmd_config.go's
// flag-constant layout.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/user-none/go-ekernel"
)

const (
	configFlag   = "config"
	tickHzFlag   = "tick-hz"
	debugFlag    = "debug"
	durationFlag = "duration-ms"
)

var (
	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "ekernelctl",
	Short: "Run and inspect go-ekernel reference scenarios",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <scenario>",
	Short: "Run a reference scenario against port/sim for a fixed duration",
	Args:  cobra.ExactArgs(1),
	RunE:  runScenario,
}

var statsCmd = &cobra.Command{
	Use:   "stats <scenario>",
	Short: "Run a scenario and render its CPU-share and switch-time table",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <scenario>",
	Short: "Run a scenario and dump its LED/scheduler state with go-spew",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

// SetupCLI constructs the cobra command tree, mirroring
// arctir-proctor's SetupCLI convention.
func SetupCLI() *cobra.Command {
	rootCmd.PersistentFlags().String(configFlag, defaultConfigPath(), "Path to a YAML config file (viper-loaded).")
	rootCmd.PersistentFlags().Uint32(tickHzFlag, 1000, "Tick frequency in Hz passed to Config.TickHz.")
	rootCmd.PersistentFlags().Bool(debugFlag, false, "Enable verbose logging and stack-overflow checking.")
	rootCmd.PersistentFlags().Int(durationFlag, 200, "How long to let the scenario run before reporting, in milliseconds.")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(inspectCmd)
	return rootCmd
}

// defaultConfigPath follows xdg.ConfigHome, the same base directory
// _examples/arctir-proctor/source/source.go uses (there via
// xdg.DataHome) for its own cache location.
func defaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "ekernelctl", "config.yaml")
}

func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	cfgPath, _ := cmd.Flags().GetString(configFlag)
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				if !os.IsNotExist(err) {
					return fmt.Errorf("ekernelctl: reading config: %w", err)
				}
			}
		}
	}
	_ = v.BindPFlag(tickHzFlag, cmd.Flags().Lookup(tickHzFlag))
	_ = v.BindPFlag(debugFlag, cmd.Flags().Lookup(debugFlag))
	_ = v.BindPFlag(durationFlag, cmd.Flags().Lookup(durationFlag))

	debug := v.GetBool(debugFlag)
	zcfg := zap.NewProductionConfig()
	if debug {
		zcfg = zap.NewDevelopmentConfig()
	}
	z, err := zcfg.Build()
	if err != nil {
		return fmt.Errorf("ekernelctl: building logger: %w", err)
	}
	logger = z.Sugar()
	return nil
}

// kernelConfig builds an ekernel.Config from the tick-hz and debug
// command-line flags. Values set only in the viper-loaded config file
// are not read here.
func kernelConfig(cmd *cobra.Command) ekernel.Config {
	tickHz, _ := cmd.Flags().GetUint32(tickHzFlag)
	debug, _ := cmd.Flags().GetBool(debugFlag)

	cfg := ekernel.DefaultConfig()
	cfg.TickHz = tickHz
	cfg.Debug = debug
	cfg.Logger = logger
	return cfg
}
