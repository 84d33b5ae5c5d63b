package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/planwise/planwise/internal/models"
	"github.com/planwise/planwise/internal/scheduler"
)

// previewInput is the JSON shape accepted by the preview command.
type previewInput struct {
	Items       []*models.WorkItem      `json:"items"`
	BusyPeriods []models.BusyPeriod     `json:"busy_periods,omitempty"`
	Options     *models.ScheduleOptions `json:"options,omitempty"`
}

// NewPreviewCmd creates the preview command
func NewPreviewCmd() *cobra.Command {
	var dateFlag string
	var presetFlag string

	cmd := &cobra.Command{
		Use:   "preview <items.json>",
		Short: "Run the scheduling engine locally",
		Long:  "Run a scheduling pass over work items from a JSON file without touching any service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			var input previewInput
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("failed to parse input: %w", err)
			}
			if len(input.Items) == 0 {
				return fmt.Errorf("input has no items")
			}

			date := time.Now()
			if dateFlag != "" {
				date, err = time.Parse("2006-01-02", dateFlag)
				if err != nil {
					return fmt.Errorf("invalid date, expected YYYY-MM-DD: %w", err)
				}
			}
			date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

			opts := models.DefaultScheduleOptions()
			if presetFlag != "" {
				preset, err := scheduler.PresetByKey(presetFlag)
				if err != nil {
					return fmt.Errorf("unknown preset %q", presetFlag)
				}
				opts = preset.ScheduleOptions()
			}
			if input.Options != nil {
				opts = *input.Options
			}

			slots, err := scheduler.FreeSlotsForDay(date, opts, input.BusyPeriods)
			if err != nil {
				return fmt.Errorf("failed to compute free slots: %w", err)
			}

			result := scheduler.Schedule(uuid.Nil, scheduler.Prioritize(input.Items), slots, opts)

			fmt.Printf("Schedule for %s (%s-%s)\n\n", date.Format("2006-01-02"), opts.WorkdayStart, opts.WorkdayEnd)
			for _, b := range result.Blocks {
				fmt.Printf("  %s-%s  [%-5s]  %s\n",
					b.Start.Format("15:04"), b.End.Format("15:04"), b.Type, b.Title)
			}
			if len(result.Blocks) == 0 {
				fmt.Println("  (nothing scheduled)")
			}
			if len(result.Unscheduled) > 0 {
				fmt.Printf("\nUnscheduled (%d):\n", len(result.Unscheduled))
				for _, item := range result.Unscheduled {
					fmt.Printf("  - %s (%s)\n", item.Title, item.Priority)
				}
			}
			for _, s := range result.Suggestions {
				fmt.Printf("\nSuggestion: %s\n", s)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "day to schedule (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVar(&presetFlag, "preset", "", "personality preset key supplying the options")

	return cmd
}
