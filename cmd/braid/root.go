package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahunallar/braid/internal/cli"
)

var rootCmd = &cobra.Command{
	Use:   "braid",
	Short: "Braid is a predictable state container",
	Long:  `Braid combines independent reducers into one store and hosts it behind a CLI, HTTP API or MCP server.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
}

// loadConfig reads the configured file, falling back to defaults.
func loadConfig(cmd *cobra.Command) (cli.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return cli.LoadConfig(path)
}
