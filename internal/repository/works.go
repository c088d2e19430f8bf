package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/portfolio-importer/api/internal/entity"
)

// ErrWorkNotFound indicates the work does not exist for the given owner.
var ErrWorkNotFound = errors.New("work not found")

const workColumns = `id, user_id, title, description, url, created_at, updated_at`

// WorkFields carries the work columns to write. Nil fields are left untouched on update.
type WorkFields struct {
	Title       *string
	Description *string
	URL         *string
}

// WorksRepository persists portfolio works.
type WorksRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Work, error)
	Create(ctx context.Context, userID uuid.UUID, fields WorkFields) (*entity.Work, error)
	Update(ctx context.Context, userID, id uuid.UUID, fields WorkFields) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// PGXWorksRepository implements WorksRepository with pgx.
type PGXWorksRepository struct {
	db DBTX
}

// NewPGXWorksRepository instantiates a works repository.
func NewPGXWorksRepository(db DBTX) *PGXWorksRepository {
	return &PGXWorksRepository{db: db}
}

// ListByUser returns the user's works in creation order.
func (r *PGXWorksRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Work, error) {
	rows, err := r.db.Query(ctx, `SELECT `+workColumns+` FROM works WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list works: %w", err)
	}
	defer rows.Close()

	works := []entity.Work{}
	for rows.Next() {
		var (
			work        entity.Work
			description sql.NullString
		)
		if err := rows.Scan(&work.ID, &work.UserID, &work.Title, &description, &work.URL, &work.CreatedAt, &work.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan work: %w", err)
		}
		work.Description = nullStringToPtr(description)
		works = append(works, work)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate works: %w", err)
	}
	return works, nil
}

// Create inserts a work. A missing url is stored as an empty string.
func (r *PGXWorksRepository) Create(ctx context.Context, userID uuid.UUID, fields WorkFields) (*entity.Work, error) {
	if fields.Title == nil {
		return nil, fmt.Errorf("work title is required")
	}
	url := ""
	if fields.URL != nil {
		url = *fields.URL
	}

	var (
		work        entity.Work
		description sql.NullString
	)
	err := r.db.QueryRow(ctx, `
        INSERT INTO works (user_id, title, description, url)
        VALUES ($1, $2, $3, $4)
        RETURNING `+workColumns,
		userID, *fields.Title, fields.Description, url,
	).Scan(&work.ID, &work.UserID, &work.Title, &description, &work.URL, &work.CreatedAt, &work.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert work: %w", err)
	}
	work.Description = nullStringToPtr(description)
	return &work, nil
}

// Update patches a work owned by userID.
func (r *PGXWorksRepository) Update(ctx context.Context, userID, id uuid.UUID, fields WorkFields) error {
	var assignments []assignment
	assignments = appendIfSet(assignments, "title", fields.Title)
	assignments = appendIfSet(assignments, "description", fields.Description)
	assignments = appendIfSet(assignments, "url", fields.URL)
	if len(assignments) == 0 {
		return nil
	}

	clauses, args, idx := setClauses(assignments)
	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE works SET %s WHERE id = $%d AND user_id = $%d`, strings.Join(clauses, ", "), idx, idx+1)

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update work: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrWorkNotFound
	}
	return nil
}

// Delete removes a work owned by userID.
func (r *PGXWorksRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM works WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete work: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrWorkNotFound
	}
	return nil
}
