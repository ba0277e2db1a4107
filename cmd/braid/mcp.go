package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noahunallar/braid/internal/cli"
	mcpAdapter "github.com/noahunallar/braid/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long:  `Exposes the todo store as Model Context Protocol tools, over stdio by default or SSE with --port.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg)

		store, err := cli.NewTodoStore(logger)
		if err != nil {
			return err
		}
		server := mcpAdapter.NewServer(store)

		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			return server.ServeStdio()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return server.ServeSSE(ctx, port)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().IntP("port", "p", 0, "Serve over SSE on this port instead of stdio")
}
