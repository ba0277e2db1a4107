package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/noahunallar/braid"
	"github.com/noahunallar/braid/internal/cli"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the interactive todo demo",
	Long: `Starts an in-process todo store and drives it from stdin: add tasks, mark
them done, switch the visibility filter. With --session the store is loaded
from the configured snapshot backend and saved back when the loop exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := cli.NewLogger(cfg)
		plain, _ := cmd.Flags().GetBool("plain")
		sessionID, _ := cmd.Flags().GetString("session")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if sessionID == "" {
			store, err := cli.NewTodoStore(logger)
			if err != nil {
				return err
			}
			if err := cli.RunDemo(ctx, store, cli.DemoOptions{Plain: plain}); err != nil && ctx.Err() == nil {
				return err
			}
			fmt.Println("bye")
			return nil
		}

		manager, closeFn, err := cli.NewSessionManager(cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = closeFn() }()

		// Update holds the session lock for the whole loop and persists the
		// snapshot on exit.
		err = manager.Update(ctx, sessionID, func(store *braid.Store) error {
			return cli.RunDemo(ctx, store, cli.DemoOptions{Plain: plain, SessionID: sessionID})
		})
		if err != nil && ctx.Err() == nil {
			return err
		}
		fmt.Println("bye")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().Bool("plain", false, "Disable terminal rendering, print raw markdown")
	demoCmd.Flags().String("session", "", "Persist the todo list under this session ID")
}
