package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/planwise/planwise/internal/automation"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the worker's automation loop state",
		Long:  "Query the worker's status endpoint and print the automation loop state",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get(addrFlag + "/statusz")
			if err != nil {
				return fmt.Errorf("failed to reach worker: %w", err)
			}
			defer func() { _ = resp.Body.Close() }()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("worker returned status %d", resp.StatusCode)
			}

			var status automation.Status
			if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
				return fmt.Errorf("failed to decode status: %w", err)
			}

			fmt.Printf("State:     %s\n", status.State)
			fmt.Printf("Sync hour: %02d:00\n", status.SyncHour)
			if status.NextRun != nil {
				fmt.Printf("Next run:  %s\n", status.NextRun.Format(time.RFC3339))
			} else {
				fmt.Println("Next run:  -")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "http://localhost:8090", "worker status address")

	return cmd
}
