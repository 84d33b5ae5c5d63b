package models

import (
	"testing"
)

func TestPriorityWeight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		priority Priority
		weight   int
	}{
		{"urgent", PriorityUrgent, 3},
		{"normal", PriorityNormal, 2},
		{"low", PriorityLow, 1},
		{"unrecognized defaults to lowest", Priority("someday"), 1},
		{"empty defaults to lowest", Priority(""), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := PriorityWeight(tt.priority); got != tt.weight {
				t.Errorf("PriorityWeight(%q) = %d, want %d", tt.priority, got, tt.weight)
			}
		})
	}
}

func TestWorkItem_Schedulable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status WorkItemStatus
		want   bool
	}{
		{"pending", WorkItemStatusPending, true},
		{"in progress", WorkItemStatusInProgress, true},
		{"completed", WorkItemStatusCompleted, false},
		{"cancelled", WorkItemStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			item := &WorkItem{Status: tt.status}
			if got := item.Schedulable(); got != tt.want {
				t.Errorf("Schedulable() with status %s = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}
