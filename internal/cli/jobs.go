package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewJobsCommand creates the jobs command.
func NewJobsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs",
		Short: "List assigned jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, store, err := buildAgent(opts, 0)
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := a.RefreshJobs(cmd.Context())
			if err != nil {
				return err
			}

			if len(jobs) == 0 {
				fmt.Println("No jobs assigned.")
				return nil
			}
			for _, j := range jobs {
				fmt.Printf("%s  [%s]  %s\n", j.ID, j.Status, j.Title)
				fmt.Printf("    site %.5f,%.5f  radius %.0fm  scheduled %s\n",
					j.SiteLatitude, j.SiteLongitude, j.CheckInRadiusMeters, j.ScheduledAt)
			}
			return nil
		},
	}
}
