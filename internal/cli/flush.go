package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/servicepro/fieldsync-go/internal/config"
	"github.com/servicepro/fieldsync-go/internal/pkg/cron"
)

// NewFlushCommand creates the flush command.
func NewFlushCommand(opts *RootOptions, agentCfg config.AgentConfig) *cobra.Command {
	var (
		watch       bool
		interval    time.Duration
		maxAttempts int
	)

	cmd := &cobra.Command{
		Use:   "flush",
		Short: "Deliver queued location events",
		Long: `Walk the durable queue once and deliver every due entry.

With --watch the queue is drained on a fixed interval until
interrupted, which is how the agent normally runs in the field.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, store, err := buildAgent(opts, maxAttempts)
			if err != nil {
				return err
			}
			defer store.Close()

			flushOnce := func(ctx context.Context) error {
				res, err := a.Flush(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("flush: delivered=%d retried=%d deferred=%d parked=%d\n",
					res.Delivered, res.Retried, res.Deferred, res.Parked)
				return nil
			}

			if !watch {
				return flushOnce(cmd.Context())
			}

			scheduler := cron.NewScheduler()
			scheduler.AddJob("queue-flush", interval, flushOnce)
			scheduler.Start()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig
			scheduler.Stop()
			return nil
		},
	}

	flushInterval := agentCfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = time.Minute
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep flushing on an interval until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", flushInterval, "flush interval with --watch")
	cmd.Flags().IntVar(&maxAttempts, "max-attempts", agentCfg.MaxAttempts, "delivery attempts before an entry is parked")

	return cmd
}
