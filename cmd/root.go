package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:   "data-recon",
	Short: "A database reconciliation tool",
	Long: `
  ____    _  _____  _       ____  _____ ____ ___  _   _
 |  _ \  / \|_   _|/ \     |  _ \| ____/ ___/ _ \| \ | |
 | | | |/ _ \ | | / _ \    | |_) |  _|| |  | | | |  \| |
 | |_| / ___ \| |/ ___ \   |  _ <| |__| |__| |_| | |\  |
 |____/_/   \_\_/_/   \_\  |_| \_\_____\____\___/|_| \_|

DATA RECON 🦅 - Cross-Database Table Comparison
`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./data-recon.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("data-recon")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
