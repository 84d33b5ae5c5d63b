package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/planwise/planwise/internal/config"
	"github.com/planwise/planwise/internal/queue"
)

// NewTriggerCmd creates the trigger command
func NewTriggerCmd() *cobra.Command {
	var userFlag string
	var dateFlag string
	var allFlag bool

	cmd := &cobra.Command{
		Use:   "trigger",
		Short: "Enqueue a sync pass",
		Long:  "Enqueue a sync job for one user (--user) or for all active users (--all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (userFlag != "") == allFlag {
				return fmt.Errorf("exactly one of --user or --all is required")
			}

			var job *queue.Job
			if allFlag {
				job = queue.NewJob(queue.JobTypeSyncAll, nil)
			} else {
				userID, err := uuid.Parse(userFlag)
				if err != nil {
					return fmt.Errorf("invalid user id: %w", err)
				}
				job = queue.NewJob(queue.JobTypeSyncUser, &userID)
			}

			if dateFlag != "" {
				target, err := time.Parse("2006-01-02", dateFlag)
				if err != nil {
					return fmt.Errorf("invalid date, expected YYYY-MM-DD: %w", err)
				}
				job.TargetDate = &target
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
			if err != nil {
				return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			defer func() {
				if err := jobQueue.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close queue: %v\n", err)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := jobQueue.Enqueue(ctx, job); err != nil {
				return fmt.Errorf("failed to enqueue job: %w", err)
			}

			fmt.Printf("Enqueued %s job %s\n", job.Type, job.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "", "user ID to sync")
	cmd.Flags().BoolVar(&allFlag, "all", false, "sync all active users")
	cmd.Flags().StringVar(&dateFlag, "date", "", "target date (YYYY-MM-DD), defaults to the next day")

	return cmd
}
