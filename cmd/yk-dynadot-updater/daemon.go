package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/wait"
	ctrl "sigs.k8s.io/controller-runtime"
)

const (
	defaultInterval = 10 * time.Minute
	intervalJitter  = 0.1
)

func newCmdDaemon(o *options) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run the updater periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if interval <= 0 {
				return fmt.Errorf("interval must be positive, got %s", interval)
			}

			u, err := o.updater(cmd)
			if err != nil {
				return err
			}
			log := ctrl.Log.WithName("daemon")
			log.Info("starting daemon", "interval", interval, "jitter", intervalJitter)

			ctx := cmd.Context()
			wait.JitterUntilWithContext(ctx, func(ctx context.Context) {
				// Failed runs are already logged by the updater; the next tick retries.
				_, _ = u.Run(ctx)
			}, interval, intervalJitter, true)

			log.Info("daemon stopped")
			return nil
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", defaultInterval, "time between runs")
	return cmd
}
