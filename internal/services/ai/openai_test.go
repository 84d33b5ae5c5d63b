package ai

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/planwise/planwise/internal/models"
)

func testItems(n int) []models.WorkItem {
	items := make([]models.WorkItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.WorkItem{
			ID:       uuid.New(),
			Title:    fmt.Sprintf("item %d", i),
			Priority: models.PriorityNormal,
		})
	}
	return items
}

func TestParseAndValidateAgendaResponse(t *testing.T) {
	t.Parallel()

	items := testItems(2)

	t.Run("valid response", func(t *testing.T) {
		t.Parallel()

		content := fmt.Sprintf(`{"summary":"A focused day.","entries":[{"work_item_id":"%s","quadrant":"urgent_important"},{"work_item_id":"%s","quadrant":"not_urgent_minor"}]}`,
			items[0].ID, items[1].ID)

		summary, entries, err := parseAndValidateAgendaResponse(content, items)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if summary != "A focused day." {
			t.Errorf("Expected summary to be preserved, got %q", summary)
		}
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}
		if entries[0].Quadrant != models.QuadrantUrgentImportant {
			t.Errorf("Expected urgent_important, got %s", entries[0].Quadrant)
		}
		if entries[0].Title != items[0].Title {
			t.Errorf("Expected title from work item, got %q", entries[0].Title)
		}
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		t.Parallel()

		content := fmt.Sprintf(`Here is the agenda: {"summary":"ok","entries":[{"work_item_id":"%s","quadrant":"urgent_minor"}]} Hope that helps!`,
			items[0].ID)

		summary, entries, err := parseAndValidateAgendaResponse(content, items)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if summary != "ok" {
			t.Errorf("Expected summary 'ok', got %q", summary)
		}
		if len(entries) != 1 {
			t.Errorf("Expected 1 entry, got %d", len(entries))
		}
	})

	t.Run("unknown quadrant defaults to not_urgent_minor", func(t *testing.T) {
		t.Parallel()

		content := fmt.Sprintf(`{"summary":"ok","entries":[{"work_item_id":"%s","quadrant":"critical"}]}`, items[0].ID)

		_, entries, err := parseAndValidateAgendaResponse(content, items)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if entries[0].Quadrant != models.QuadrantNotUrgentMinor {
			t.Errorf("Expected not_urgent_minor, got %s", entries[0].Quadrant)
		}
	})

	t.Run("unknown work item is dropped", func(t *testing.T) {
		t.Parallel()

		content := fmt.Sprintf(`{"summary":"ok","entries":[{"work_item_id":"%s","quadrant":"urgent_important"}]}`, uuid.New())

		_, entries, err := parseAndValidateAgendaResponse(content, items)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected unknown item to be dropped, got %d entries", len(entries))
		}
	})

	t.Run("missing summary is an error", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseAndValidateAgendaResponse(`{"entries":[]}`, items); err == nil {
			t.Error("Expected error for missing summary")
		}
	})

	t.Run("invalid json is an error", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseAndValidateAgendaResponse("not json at all", items); err == nil {
			t.Error("Expected error for invalid json")
		}
	})
}

func TestBuildAgendaPrompt(t *testing.T) {
	t.Parallel()

	due := time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC)
	items := []models.WorkItem{
		{ID: uuid.New(), Title: "write report", Priority: models.PriorityUrgent, DueAt: &due},
		{ID: uuid.New(), Title: "clean desk", Priority: models.PriorityLow},
	}

	prompt := buildAgendaPrompt(items, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))

	for _, item := range items {
		if !strings.Contains(prompt, item.ID.String()) {
			t.Errorf("Expected prompt to contain item ID %s", item.ID)
		}
		if !strings.Contains(prompt, item.Title) {
			t.Errorf("Expected prompt to contain title %q", item.Title)
		}
	}
	if !strings.Contains(prompt, "urgent_important") {
		t.Error("Expected prompt to list quadrant names")
	}
	if !strings.Contains(prompt, due.Format(time.RFC3339)) {
		t.Error("Expected prompt to include due date")
	}
}

func TestBuildAgendaPrompt_CapsItemCount(t *testing.T) {
	t.Parallel()

	items := testItems(MaxItemsInPrompt + 10)
	prompt := buildAgendaPrompt(items, time.Now())

	for _, item := range items[MaxItemsInPrompt:] {
		if strings.Contains(prompt, item.ID.String()) {
			t.Errorf("Expected item %s beyond the cap to be excluded", item.ID)
		}
	}
}
