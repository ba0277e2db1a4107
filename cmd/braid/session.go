package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/noahunallar/braid/internal/cli"
	"github.com/noahunallar/braid/pkg/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted session IDs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessionManager(cmd, func(ctx context.Context, manager *session.Manager) error {
			sessions, err := manager.List(ctx)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Println("no sessions")
				return nil
			}
			for _, id := range sessions {
				fmt.Println(id)
			}
			return nil
		})
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print a session snapshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessionManager(cmd, func(ctx context.Context, manager *session.Manager) error {
			snap, err := manager.Load(ctx, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		})
	},
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a persisted session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSessionManager(cmd, func(ctx context.Context, manager *session.Manager) error {
			if err := manager.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		})
	},
}

// withSessionManager runs fn against the configured session manager, so the
// admin commands take the same locks as the demo's durable sessions.
func withSessionManager(cmd *cobra.Command, fn func(context.Context, *session.Manager) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	manager, closeFn, err := cli.NewSessionManager(cfg, cli.NewLogger(cfg))
	if err != nil {
		return err
	}
	defer func() { _ = closeFn() }()
	return fn(cmd.Context(), manager)
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
}
