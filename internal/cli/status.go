package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicepro/fieldsync-go/internal/offline"
)

// NewStatusCommand creates the status command.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(opts)
			if err != nil {
				return err
			}
			defer store.Close()

			entries, err := store.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println("Queue is empty.")
				return nil
			}

			fmt.Printf("%d queued event(s):\n", len(entries))
			for _, e := range entries {
				line := fmt.Sprintf("%s  %s  job=%s  queued=%s  attempts=%d",
					e.ID, e.Event, e.JobID, e.QueuedAt.Format("2006-01-02 15:04:05"), e.Attempts)
				if e.Status == offline.StatusFailed {
					line += "  FAILED: " + e.LastError
				} else if !e.NextAttemptAt.IsZero() {
					line += "  next-attempt=" + e.NextAttemptAt.Format("15:04:05")
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}
