package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	clientsync "github.com/iudanet/habitsync/internal/client/sync"
	"github.com/iudanet/habitsync/internal/models"
)

func (c *Cli) newCheckinCommand() *cobra.Command {
	var (
		date  string
		value float64
		done  bool
		undo  bool
	)

	cmd := &cobra.Command{
		Use:   "checkin <tracker-id>",
		Short: "Record a tracker entry for a day",
		Long: `Record a tracker entry for a day.

Without flags the entry is marked completed for today. Use --value for
quantifiable and evaluation trackers and --undo to clear completion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			trackerID := args[0]
			t, ok := c.engine.Tracker(trackerID)
			if !ok || !t.State.IsLive() {
				return fmt.Errorf("%w: %s", clientsync.ErrTrackerNotFound, trackerID)
			}
			day := date
			if day == "" {
				day = c.today()
			}

			flags := cmd.Flags()
			if flags.Changed("done") && undo {
				return fmt.Errorf("--done and --undo cannot be used together")
			}

			var valuePtr *float64
			if flags.Changed("value") {
				valuePtr = models.Float(value)
			}

			var completedPtr *bool
			switch {
			case undo:
				completedPtr = models.Bool(false)
			case flags.Changed("done"):
				completedPtr = models.Bool(done)
			case valuePtr == nil:
				// отметка без флагов означает выполнение
				completedPtr = models.Bool(true)
			}

			entry, err := c.engine.UpsertEntry(models.EntryKey{Date: day, TrackerID: trackerID}, valuePtr, completedPtr)
			if err != nil {
				return fmt.Errorf("failed to record entry: %w", err)
			}

			c.io.Printf("✓ %s on %s: %s\n", t.Name, day, formatEntry(entry))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64Var(&value, "value", 0, "numeric value for the entry")
	cmd.Flags().BoolVar(&done, "done", true, "mark the entry completed")
	cmd.Flags().BoolVar(&undo, "undo", false, "mark the entry not completed")

	return cmd
}
