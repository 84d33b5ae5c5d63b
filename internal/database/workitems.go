package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/planwise/internal/models"
)

// WorkItemRepository handles work item database operations
type WorkItemRepository struct {
	db *DB
}

// NewWorkItemRepository creates a new work item repository
func NewWorkItemRepository(db *DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

const workItemColumns = `id, user_id, title, priority, status, due_at, estimated_minutes, created_at, updated_at, completed_at`

// Create creates a new work item
func (r *WorkItemRepository) Create(ctx context.Context, item *models.WorkItem) error {
	query := `
		INSERT INTO work_items (id, user_id, title, priority, status, due_at, estimated_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.UserID,
		item.Title,
		item.Priority,
		item.Status,
		item.DueAt,
		item.EstimatedMinutes,
		now,
		now,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create work item: %w", err)
	}

	return nil
}

// GetByID retrieves a work item by ID
func (r *WorkItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE id = $1`

	item, err := scanWorkItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("work item not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work item: %w", err)
	}

	return item, nil
}

// GetByUserID retrieves all work items for a user, optionally filtered by status
func (r *WorkItemRepository) GetByUserID(ctx context.Context, userID uuid.UUID, status *models.WorkItemStatus) ([]*models.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM work_items WHERE user_id = $1`
	args := []any{userID}

	if status != nil {
		query += ` AND status = $2`
		args = append(args, string(*status))
	}

	query += ` ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query work items: %w", err)
	}
	defer rows.Close()

	var items []*models.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work items: %w", err)
	}

	return items, nil
}

// GetPendingByUserID retrieves the schedulable items for a user: anything
// not completed or cancelled, ordered by creation time.
func (r *WorkItemRepository) GetPendingByUserID(ctx context.Context, userID uuid.UUID) ([]*models.WorkItem, error) {
	query := `
		SELECT ` + workItemColumns + `
		FROM work_items
		WHERE user_id = $1 AND status NOT IN ($2, $3)
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, models.WorkItemStatusCompleted, models.WorkItemStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending work items: %w", err)
	}
	defer rows.Close()

	var items []*models.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work items: %w", err)
	}

	return items, nil
}

// Update updates an existing work item
func (r *WorkItemRepository) Update(ctx context.Context, item *models.WorkItem) error {
	query := `
		UPDATE work_items
		SET title = $2, priority = $3, status = $4, due_at = $5, estimated_minutes = $6, updated_at = $7, completed_at = $8
		WHERE id = $1
		RETURNING updated_at
	`

	var completedAt sql.NullTime
	if item.CompletedAt != nil {
		completedAt = sql.NullTime{Time: *item.CompletedAt, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		item.ID,
		item.Title,
		item.Priority,
		item.Status,
		item.DueAt,
		item.EstimatedMinutes,
		time.Now(),
		completedAt,
	).Scan(&item.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("work item not found")
	}
	if err != nil {
		return fmt.Errorf("failed to update work item: %w", err)
	}

	return nil
}

// Delete deletes a work item by ID
func (r *WorkItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM work_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("work item not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkItem(row rowScanner) (*models.WorkItem, error) {
	item := &models.WorkItem{}
	var dueAt, completedAt sql.NullTime
	var estimated sql.NullInt64

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.Title,
		&item.Priority,
		&item.Status,
		&dueAt,
		&estimated,
		&item.CreatedAt,
		&item.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if dueAt.Valid {
		item.DueAt = &dueAt.Time
	}
	if estimated.Valid {
		v := int(estimated.Int64)
		item.EstimatedMinutes = &v
	}
	if completedAt.Valid {
		item.CompletedAt = &completedAt.Time
	}

	return item, nil
}
