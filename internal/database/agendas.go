package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/planwise/planwise/internal/models"
)

// AgendaRepository handles daily agenda database operations
type AgendaRepository struct {
	db *DB
}

// NewAgendaRepository creates a new agenda repository
func NewAgendaRepository(db *DB) *AgendaRepository {
	return &AgendaRepository{db: db}
}

// Create persists an agenda. Entries are stored as JSON.
func (r *AgendaRepository) Create(ctx context.Context, agenda *models.Agenda) error {
	entriesJSON, err := json.Marshal(agenda.Entries)
	if err != nil {
		return fmt.Errorf("failed to marshal agenda entries: %w", err)
	}

	query := `
		INSERT INTO agendas (id, user_id, agenda_date, summary, entries, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		agenda.ID,
		agenda.UserID,
		agenda.Date,
		agenda.Summary,
		entriesJSON,
		agenda.Source,
		time.Now(),
	).Scan(&agenda.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create agenda: %w", err)
	}

	return nil
}

// GetByUserAndDate retrieves the agenda for a user on a calendar day.
// Returns nil without error when none exists.
func (r *AgendaRepository) GetByUserAndDate(ctx context.Context, userID uuid.UUID, date time.Time) (*models.Agenda, error) {
	query := `
		SELECT id, user_id, agenda_date, summary, entries, source, created_at
		FROM agendas
		WHERE user_id = $1 AND agenda_date = $2
	`

	agenda := &models.Agenda{}
	var entriesJSON []byte

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	err := r.db.QueryRowContext(ctx, query, userID, day).Scan(
		&agenda.ID,
		&agenda.UserID,
		&agenda.Date,
		&agenda.Summary,
		&entriesJSON,
		&agenda.Source,
		&agenda.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get agenda: %w", err)
	}

	if err := json.Unmarshal(entriesJSON, &agenda.Entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal agenda entries: %w", err)
	}

	return agenda, nil
}
