package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (c *Cli) newSyncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Synchronize with the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Println("Synchronizing...")

			result, err := c.engine.TriggerSync(cmd.Context())
			if err != nil {
				return describeSyncError(err)
			}

			c.io.Printf("✓ Sync finished (%s)\n", result.Mode)
			c.io.Printf("  Pulled:      %d (adopted %d, auto-merged %d)\n", result.Pulled, result.Adopted, result.AutoMerged)
			c.io.Printf("  Uploaded:    %d (accepted %d, rejected %d)\n", result.Uploaded, result.Accepted, result.Rejected)
			if result.Purged > 0 {
				c.io.Printf("  Purged:      %d old entries\n", result.Purged)
			}
			if result.Conflicts > 0 {
				c.io.Printf("⚠ %d conflict(s) need your decision. Run 'habitsync conflicts'.\n", result.Conflicts)
			}
			return nil
		},
	}
}

func (c *Cli) newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show local sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			trackers, entries := c.engine.DirtyCounts()

			c.io.Printf("Client ID:    %s\n", c.engine.ClientID())
			c.io.Printf("Status:       %s\n", c.engine.Status())

			last := c.engine.LastSyncTime()
			if last == "" {
				last = "never"
			}
			c.io.Printf("Last sync:    %s\n", last)
			c.io.Printf("Trackers:     %d\n", len(c.engine.Trackers()))
			c.io.Printf("Pending:      %d tracker(s), %d entry(ies)\n", trackers, entries)
			c.io.Printf("Conflicts:    %d\n", len(c.engine.PendingConflicts()))

			if lastErr := c.engine.LastError(); lastErr != "" {
				c.io.Printf("Last error:   %s\n", lastErr)
			}
			return nil
		},
	}
}

func (c *Cli) newWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep synchronizing until interrupted",
		Long: `Keep synchronizing until interrupted.

Syncs on startup, on every change notification from the server and
periodically with --interval.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.io.Printf("Watching for changes (interval %s), press Ctrl+C to stop\n", interval)

			err := c.engine.Watch(cmd.Context(), interval)
			if errors.Is(err, context.Canceled) {
				c.io.Println("Stopped")
				return nil
			}
			if err != nil {
				return fmt.Errorf("watch failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "periodic sync interval")

	return cmd
}
