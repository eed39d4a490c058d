// Package cli implements the fieldsync-agent command line, the
// technician-facing front end over the sync agent.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/servicepro/fieldsync-go/internal/agent"
	"github.com/servicepro/fieldsync-go/internal/config"
	"github.com/servicepro/fieldsync-go/internal/offline"
	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	Verbose bool

	ServerURL string
	Token     string
	Store     string
	QueuePath string

	// Manual position, used when the device has no GPS shim.
	Latitude  float64
	Longitude float64
	Accuracy  float64

	Offline bool
}

// NewRootCommand creates the root command for the fieldsync agent CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{}
	}

	cmd := &cobra.Command{
		Use:   "fieldsync-agent",
		Short: "Field technician sync agent",
		Long: `Offline-tolerant sync agent for field technicians.

Location events are written to a durable local queue before any
network attempt; queued events survive restarts and are drained by
"flush" once connectivity returns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))

			if opts.Store != "sqlite" && opts.Store != "file" {
				return fmt.Errorf("invalid store %q: must be sqlite or file", opts.Store)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.ServerURL, "server", cfg.Agent.ServerURL, "fieldsync API base URL")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", cfg.Agent.Token, "technician access token")
	cmd.PersistentFlags().StringVar(&opts.Store, "store", cfg.Agent.QueueStore, "queue backend (sqlite|file)")
	cmd.PersistentFlags().StringVar(&opts.QueuePath, "queue", cfg.Agent.QueuePath, "path to the durable queue")
	cmd.PersistentFlags().Float64Var(&opts.Latitude, "lat", 0, "manual latitude")
	cmd.PersistentFlags().Float64Var(&opts.Longitude, "lng", 0, "manual longitude")
	cmd.PersistentFlags().Float64Var(&opts.Accuracy, "accuracy", 15, "manual fix accuracy in meters")
	cmd.PersistentFlags().BoolVar(&opts.Offline, "offline", false, "queue events without attempting delivery")

	cmd.AddCommand(NewJobsCommand(opts))
	cmd.AddCommand(NewCheckInCommand(opts))
	cmd.AddCommand(NewCheckOutCommand(opts))
	cmd.AddCommand(NewFlushCommand(opts, cfg.Agent))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

// openStore opens the configured durable queue backend, creating the
// parent directory when missing.
func openStore(opts *RootOptions) (offline.Store, error) {
	if dir := filepath.Dir(opts.QueuePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create queue directory: %w", err)
		}
	}
	if opts.Store == "file" {
		return offline.NewFileStore(opts.QueuePath)
	}
	return offline.NewSQLiteStore(opts.QueuePath)
}

// buildAgent wires an Agent from the resolved options.
func buildAgent(opts *RootOptions, maxAttempts int) (*agent.Agent, offline.Store, error) {
	if opts.Token == "" {
		return nil, nil, fmt.Errorf("no access token: set --token or AGENT_TOKEN")
	}

	store, err := openStore(opts)
	if err != nil {
		return nil, nil, err
	}

	var source geo.Source
	if opts.Latitude != 0 || opts.Longitude != 0 {
		source = &agent.StaticSource{Fix: geo.Fix{
			Latitude:  opts.Latitude,
			Longitude: opts.Longitude,
			Accuracy:  opts.Accuracy,
		}}
	}

	client := agent.NewClient(opts.ServerURL, opts.Token)
	a := agent.NewAgent(client, store, source, maxAttempts)
	a.Offline = opts.Offline
	return a, store, nil
}
