package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/planwise/planwise/internal/models"
	"github.com/planwise/planwise/internal/scheduler"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Register custom validators for enums
	// These should never fail in normal operation, but log if they do
	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("work_item_status", validateWorkItemStatus); err != nil {
		panic(fmt.Sprintf("failed to register work_item_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("block_type", validateBlockType); err != nil {
		panic(fmt.Sprintf("failed to register block_type validator: %v", err))
	}
	if err := Validate.RegisterValidation("wall_clock", validateWallClock); err != nil {
		panic(fmt.Sprintf("failed to register wall_clock validator: %v", err))
	}
}

// validatePriority validates that a string is a valid Priority enum value
func validatePriority(fl validator.FieldLevel) bool {
	switch models.Priority(fl.Field().String()) {
	case models.PriorityUrgent, models.PriorityNormal, models.PriorityLow:
		return true
	default:
		return false
	}
}

// validateWorkItemStatus validates that a string is a valid WorkItemStatus enum value
func validateWorkItemStatus(fl validator.FieldLevel) bool {
	switch models.WorkItemStatus(fl.Field().String()) {
	case models.WorkItemStatusPending, models.WorkItemStatusInProgress,
		models.WorkItemStatusCompleted, models.WorkItemStatusCancelled:
		return true
	default:
		return false
	}
}

// validateBlockType validates that a string is a valid BlockType enum value
func validateBlockType(fl validator.FieldLevel) bool {
	switch models.BlockType(fl.Field().String()) {
	case models.BlockTypeTask, models.BlockTypeBreak:
		return true
	default:
		return false
	}
}

// validateWallClock validates a "HH:MM" wall clock string
func validateWallClock(fl validator.FieldLevel) bool {
	_, err := scheduler.ParseWallClock(fl.Field().String())
	return err == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	// Trim whitespace
	text = strings.TrimSpace(text)

	// Remove control characters except newline and tab
	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidatePriority validates a Priority string value
func ValidatePriority(value string) error {
	switch models.Priority(value) {
	case models.PriorityUrgent, models.PriorityNormal, models.PriorityLow:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'urgent', 'normal', or 'low')", value)
	}
}

// ValidateWorkItemStatus validates a WorkItemStatus string value
func ValidateWorkItemStatus(value string) error {
	switch models.WorkItemStatus(value) {
	case models.WorkItemStatusPending, models.WorkItemStatusInProgress,
		models.WorkItemStatusCompleted, models.WorkItemStatusCancelled:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'pending', 'in_progress', 'completed', or 'cancelled')", value)
	}
}

// ValidateScheduleOptions checks the struct tags plus the cross-field rule
// that the workday must start before it ends.
func ValidateScheduleOptions(opts *models.ScheduleOptions) error {
	if err := Validate.Struct(opts); err != nil {
		return err
	}
	start, err := scheduler.ParseWallClock(opts.WorkdayStart)
	if err != nil {
		return err
	}
	end, err := scheduler.ParseWallClock(opts.WorkdayEnd)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("workday_start %s must be before workday_end %s", opts.WorkdayStart, opts.WorkdayEnd)
	}
	return nil
}
