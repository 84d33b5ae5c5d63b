package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/planwise/internal/models"
)

// BlockRepository handles scheduled block database operations
type BlockRepository struct {
	db *DB
}

// NewBlockRepository creates a new block repository
func NewBlockRepository(db *DB) *BlockRepository {
	return &BlockRepository{db: db}
}

const blockColumns = `id, user_id, work_item_id, title, description, start_at, end_at, duration_minutes, block_type, priority, color, created_at, completed_at`

// Create persists a single scheduled block
func (r *BlockRepository) Create(ctx context.Context, block *models.ScheduledBlock) error {
	query := `
		INSERT INTO scheduled_blocks (id, user_id, work_item_id, title, description, start_at, end_at, duration_minutes, block_type, priority, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		block.ID,
		block.UserID,
		block.WorkItemID,
		block.Title,
		block.Description,
		block.Start,
		block.End,
		block.DurationMinutes,
		block.Type,
		block.Priority,
		block.Color,
		time.Now(),
	).Scan(&block.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create scheduled block: %w", err)
	}

	return nil
}

// CreateBatch persists all blocks from one scheduling run in a single
// transaction so a partial day plan is never committed.
func (r *BlockRepository) CreateBatch(ctx context.Context, blocks []*models.ScheduledBlock) error {
	if len(blocks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO scheduled_blocks (id, user_id, work_item_id, title, description, start_at, end_at, duration_minutes, block_type, priority, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	now := time.Now()
	for _, block := range blocks {
		if _, err := tx.ExecContext(ctx, query,
			block.ID,
			block.UserID,
			block.WorkItemID,
			block.Title,
			block.Description,
			block.Start,
			block.End,
			block.DurationMinutes,
			block.Type,
			block.Priority,
			block.Color,
			now,
		); err != nil {
			return fmt.Errorf("failed to insert scheduled block: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit scheduled blocks: %w", err)
	}

	return nil
}

// GetByUserAndRange retrieves blocks overlapping [start, end) for a user,
// ordered by start time. This is the busy-period source for scheduling runs.
func (r *BlockRepository) GetByUserAndRange(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.ScheduledBlock, error) {
	query := `
		SELECT ` + blockColumns + `
		FROM scheduled_blocks
		WHERE user_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*models.ScheduledBlock
	for rows.Next() {
		block, err := scanBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scheduled block: %w", err)
		}
		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scheduled blocks: %w", err)
	}

	return blocks, nil
}

// Complete marks a block as completed
func (r *BlockRepository) Complete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE scheduled_blocks SET completed_at = $3 WHERE id = $1 AND user_id = $2 AND completed_at IS NULL`,
		id, userID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to complete scheduled block: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("scheduled block not found or already completed")
	}

	return nil
}

// Delete deletes a block owned by the user
func (r *BlockRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scheduled_blocks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete scheduled block: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("scheduled block not found")
	}

	return nil
}

func scanBlock(row rowScanner) (*models.ScheduledBlock, error) {
	block := &models.ScheduledBlock{}
	var workItemID sql.NullString
	var description, color sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&block.ID,
		&block.UserID,
		&workItemID,
		&block.Title,
		&description,
		&block.Start,
		&block.End,
		&block.DurationMinutes,
		&block.Type,
		&block.Priority,
		&color,
		&block.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if workItemID.Valid {
		id, err := uuid.Parse(workItemID.String)
		if err != nil {
			return nil, fmt.Errorf("invalid work item id %q: %w", workItemID.String, err)
		}
		block.WorkItemID = &id
	}
	if description.Valid {
		block.Description = description.String
	}
	if color.Valid {
		block.Color = color.String
	}
	if completedAt.Valid {
		block.CompletedAt = &completedAt.Time
	}

	return block, nil
}
