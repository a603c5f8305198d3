package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/iudanet/habitsync/internal/models"
)

func (c *Cli) newConflictsCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List conflicts waiting for a decision",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if remote {
				return c.printRemoteConflicts(cmd)
			}

			conflicts := c.engine.PendingConflicts()
			if len(conflicts) == 0 {
				c.io.Println("No conflicts")
				return nil
			}

			sort.Slice(conflicts, func(i, j int) bool {
				return conflicts[i].Key().String() < conflicts[j].Key().String()
			})

			c.io.Printf("%d conflict(s):\n", len(conflicts))
			for _, conflict := range conflicts {
				c.io.Printf("  %s (%s, server v%d)\n", conflict.Key(), conflict.Source, conflict.ServerVersion())
				c.io.Printf("    %s\n", describeConflict(conflict))
			}
			c.io.Println("Resolve with 'habitsync resolve <key> --use local|remote'.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "show the server conflict log for this client")

	return cmd
}

func (c *Cli) printRemoteConflicts(cmd *cobra.Command) error {
	records, err := c.engine.RemoteConflicts(cmd.Context())
	if err != nil {
		return describeSyncError(err)
	}
	if len(records) == 0 {
		c.io.Println("No open conflicts on the server")
		return nil
	}

	c.io.Printf("%d open conflict(s) on the server:\n", len(records))
	for _, r := range records {
		c.io.Printf("  #%d %s:%s at %s\n", r.ID, r.EntityType, r.EntityID, r.CreatedAt)
	}
	return nil
}

func (c *Cli) newResolveCommand() *cobra.Command {
	var (
		use string
		all bool
	)

	cmd := &cobra.Command{
		Use:   "resolve [conflict-key]",
		Short: "Resolve a conflict by keeping the local or the remote version",
		Long: `Resolve a conflict by keeping the local or the remote version.

Conflict keys look like tracker:<id> or entry:<date>|<tracker-id>,
see 'habitsync conflicts'. Use --all to resolve every pending conflict.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("--all does not take a conflict key")
			}
			if !all && len(args) != 1 {
				return errors.New("conflict key is required unless --all is set")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			choice, ok := models.ParseChoice(use)
			if !ok {
				return fmt.Errorf("invalid --use %q: must be local or remote", use)
			}

			if all {
				n, err := c.engine.ResolveAll(cmd.Context(), choice)
				if n > 0 {
					c.io.Printf("✓ Resolved %d conflict(s)\n", n)
				}
				if err != nil {
					return describeSyncError(err)
				}
				if n == 0 {
					c.io.Println("No conflicts")
				}
				return nil
			}

			key, err := models.ParseConflictKey(args[0])
			if err != nil {
				return err
			}
			if err := c.engine.Resolve(cmd.Context(), key, choice); err != nil {
				return describeSyncError(err)
			}

			c.io.Printf("✓ Conflict %s resolved (%s)\n", key, choice)
			return nil
		},
	}

	cmd.Flags().StringVar(&use, "use", "", "which version to keep (local|remote)")
	cmd.Flags().BoolVar(&all, "all", false, "resolve all pending conflicts")
	_ = cmd.MarkFlagRequired("use")

	return cmd
}
