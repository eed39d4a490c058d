package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/servicepro/fieldsync-go/internal/agent"
)

// NewCheckInCommand creates the checkin command.
func NewCheckInCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkin <job-id>",
		Short: "Check in at a job site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordEvent(cmd.Context(), opts, args[0], "checked in",
				func(ctx context.Context, a *agent.Agent, jobID string) (agent.EventResult, error) {
					return a.CheckIn(ctx, jobID)
				})
		},
	}
}

// NewCheckOutCommand creates the checkout command.
func NewCheckOutCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkout <job-id>",
		Short: "Check out of a job site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordEvent(cmd.Context(), opts, args[0], "checked out",
				func(ctx context.Context, a *agent.Agent, jobID string) (agent.EventResult, error) {
					return a.CheckOut(ctx, jobID)
				})
		},
	}
}

func recordEvent(ctx context.Context, opts *RootOptions, jobID, verb string,
	fn func(context.Context, *agent.Agent, string) (agent.EventResult, error)) error {

	a, store, err := buildAgent(opts, 0)
	if err != nil {
		return err
	}
	defer store.Close()

	// The job must be in the local list so the site geofence is known.
	if _, err := a.RefreshJobs(ctx); err != nil {
		return fmt.Errorf("could not load assignments: %w", err)
	}

	result, err := fn(ctx, a, jobID)
	if err != nil {
		return err
	}

	fmt.Printf("%s at job %s (%.0fm from site, fix quality %s)\n",
		verb, jobID, result.Check.Distance, result.Quality)
	if result.Queued {
		fmt.Printf("event queued locally (entry %s); run flush when back online\n", result.Entry.ID)
	}
	if !result.StatusSynced {
		fmt.Println("job status change did not reach the server; it will show after the next refresh")
	}
	return nil
}
