package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fpgatools/regen/cmd/drc"
	"github.com/fpgatools/regen/cmd/gen"
	"github.com/fpgatools/regen/cmd/tools"
	"github.com/fpgatools/regen/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var quiet bool
var verbose bool
var debug bool
var logFile string

// rootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "regen",
	Short: "HDL slave register module generator",
	Long: `Regen converts a declarative description of a memory mapped register block
into a synthesizable slave module with an AXI4-Lite style bus interface, plus
interrupt controller logic for fields marked as interrupt sources.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn

		switch {
		case debug:
			level = slog.LevelDebug
		case verbose:
			level = slog.LevelInfo
		case quiet:
			level = slog.LevelError
		}

		return logging.Init(level, logFile)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := RootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.AddCommand(gen.GenCmd, drc.DrcCmd, tools.ToolsCmd)
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.regen.yaml)")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Show only critical messages and errors")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show almost all messages, excluding debug messages")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Show all messages, including debug messages")
	RootCmd.PersistentFlags().StringVarP(&logFile, "log", "l", "", "Duplicate log messages to LOG")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".regen" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".regen")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
