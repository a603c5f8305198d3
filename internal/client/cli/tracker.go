package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	clientsync "github.com/iudanet/habitsync/internal/client/sync"
	"github.com/iudanet/habitsync/internal/models"
)

// trackerFlags поля трекера, задаваемые флагами
type trackerFlags struct {
	id        string
	name      string
	category  string
	kind      string
	frequency string
}

func (c *Cli) newTrackerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tracker",
		Short: "Manage habit trackers",
	}

	cmd.AddCommand(c.newTrackerAddCommand())
	cmd.AddCommand(c.newTrackerEditCommand())
	cmd.AddCommand(c.newTrackerDeleteCommand())
	cmd.AddCommand(c.newTrackerListCommand())

	return cmd
}

func (c *Cli) newTrackerAddCommand() *cobra.Command {
	f := &trackerFlags{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := c.engine.UpsertTracker(clientsync.TrackerInput{
				ID:        f.id,
				Name:      args[0],
				Category:  f.category,
				Kind:      models.TrackerKind(f.kind),
				Frequency: f.frequency,
			})
			if err != nil {
				return fmt.Errorf("failed to add tracker: %w", err)
			}

			c.io.Printf("✓ Tracker %q created (id: %s, type: %s)\n", t.Name, t.ID, t.Kind)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.id, "id", "", "tracker id (generated when empty)")
	cmd.Flags().StringVar(&f.category, "category", "", "tracker category")
	cmd.Flags().StringVar(&f.kind, "type", string(models.KindSimple), "tracker type (simple|quantifiable|evaluation)")
	cmd.Flags().StringVar(&f.frequency, "frequency", "daily", "how often the habit is tracked")

	return cmd
}

func (c *Cli) newTrackerEditCommand() *cobra.Command {
	f := &trackerFlags{}

	cmd := &cobra.Command{
		Use:   "edit <tracker-id>",
		Short: "Change tracker fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			existing, ok := c.engine.Tracker(args[0])
			if !ok || !existing.State.IsLive() {
				return fmt.Errorf("%w: %s", clientsync.ErrTrackerNotFound, args[0])
			}

			in := clientsync.TrackerInput{
				ID:        existing.ID,
				Name:      existing.Name,
				Category:  existing.Category,
				Kind:      existing.Kind,
				Frequency: existing.Frequency,
				Meta:      existing.Meta,
			}
			flags := cmd.Flags()
			if flags.Changed("name") {
				in.Name = f.name
			}
			if flags.Changed("category") {
				in.Category = f.category
			}
			if flags.Changed("type") {
				in.Kind = models.TrackerKind(f.kind)
			}
			if flags.Changed("frequency") {
				in.Frequency = f.frequency
			}

			t, err := c.engine.UpsertTracker(in)
			if err != nil {
				return fmt.Errorf("failed to edit tracker: %w", err)
			}

			c.io.Printf("✓ Tracker %s updated\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&f.name, "name", "", "new tracker name")
	cmd.Flags().StringVar(&f.category, "category", "", "new tracker category")
	cmd.Flags().StringVar(&f.kind, "type", "", "new tracker type")
	cmd.Flags().StringVar(&f.frequency, "frequency", "", "new frequency")

	return cmd
}

func (c *Cli) newTrackerDeleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <tracker-id>",
		Short: "Delete a tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			t, ok := c.engine.Tracker(id)
			if !ok || !t.State.IsLive() {
				return fmt.Errorf("%w: %s", clientsync.ErrTrackerNotFound, id)
			}

			if !yes {
				answer, err := c.io.ReadInput(fmt.Sprintf("Delete tracker %q? [y/N]: ", t.Name))
				if err != nil {
					return fmt.Errorf("failed to read confirmation: %w", err)
				}
				if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
					c.io.Println("Cancelled")
					return nil
				}
			}

			if err := c.engine.DeleteTracker(id); err != nil {
				return fmt.Errorf("failed to delete tracker: %w", err)
			}

			c.io.Printf("✓ Tracker %s deleted\n", id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func (c *Cli) newTrackerListCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trackers with their entry for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := date
			if day == "" {
				day = c.today()
			}

			trackers := c.engine.Trackers()
			if len(trackers) == 0 {
				c.io.Println("No trackers yet. Create one with 'habitsync tracker add <name>'.")
				return nil
			}

			sort.Slice(trackers, func(i, j int) bool {
				if trackers[i].Category != trackers[j].Category {
					return trackers[i].Category < trackers[j].Category
				}
				return trackers[i].Name < trackers[j].Name
			})

			c.io.Printf("Trackers (%s):\n", day)
			for _, t := range trackers {
				entry, _ := c.engine.Entry(models.EntryKey{Date: day, TrackerID: t.ID})
				c.io.Printf("  %-24s %-14s %-12s %s%s\n",
					t.Name, t.Category, t.Kind, formatEntry(entry), versionSuffix(t.Version))
				c.io.Printf("    id: %s\n", t.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to show (YYYY-MM-DD, default today)")

	return cmd
}
