package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:           "foodiebot",
	Short:         "FoodieBot conversational recommendation backend",
	Long:          "FoodieBot scores chat messages for purchase interest and ranks the fast-food catalog against them.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Running without a subcommand starts the server
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: ./config.yaml, ./config/config.yaml, /etc/foodiebot/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
