package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octobees/portfolio-importer/api/internal/entity"
)

// ErrMediaNotFound indicates the media item does not exist for the given client.
var ErrMediaNotFound = errors.New("client media not found")

const mediaColumns = `id, client_id, url, type, title, description, created_at, updated_at`

// MediaFields carries the media columns to write. Nil fields are left untouched on update.
type MediaFields struct {
	URL         *string
	Type        *string
	Title       *string
	Description *string
}

// ClientMediaRepository persists photos and videos attached to clients.
type ClientMediaRepository interface {
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.ClientMedia, error)
	Create(ctx context.Context, clientID uuid.UUID, fields MediaFields) (*entity.ClientMedia, error)
	Update(ctx context.Context, clientID, id uuid.UUID, fields MediaFields) error
	Delete(ctx context.Context, clientID, id uuid.UUID) error
}

// PGXClientMediaRepository implements ClientMediaRepository with pgx.
type PGXClientMediaRepository struct {
	db DBTX
}

// NewPGXClientMediaRepository instantiates a client media repository.
func NewPGXClientMediaRepository(db DBTX) *PGXClientMediaRepository {
	return &PGXClientMediaRepository{db: db}
}

// ListByClient returns the client's media in creation order.
func (r *PGXClientMediaRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]entity.ClientMedia, error) {
	rows, err := r.db.Query(ctx, `SELECT `+mediaColumns+` FROM client_media WHERE client_id = $1 ORDER BY created_at ASC, id ASC`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list client media: %w", err)
	}
	defer rows.Close()

	items := []entity.ClientMedia{}
	for rows.Next() {
		media, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client media: %w", err)
		}
		items = append(items, *media)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client media: %w", err)
	}
	return items, nil
}

// Create attaches a media item to clientID.
func (r *PGXClientMediaRepository) Create(ctx context.Context, clientID uuid.UUID, fields MediaFields) (*entity.ClientMedia, error) {
	if fields.URL == nil {
		return nil, fmt.Errorf("media url is required")
	}
	row := r.db.QueryRow(ctx, `
        INSERT INTO client_media (client_id, url, type, title, description)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING `+mediaColumns,
		clientID, *fields.URL, fields.Type, fields.Title, fields.Description,
	)
	media, err := scanMedia(row)
	if err != nil {
		return nil, fmt.Errorf("insert client media: %w", err)
	}
	return media, nil
}

// Update patches a media item belonging to clientID.
func (r *PGXClientMediaRepository) Update(ctx context.Context, clientID, id uuid.UUID, fields MediaFields) error {
	var assignments []assignment
	assignments = appendIfSet(assignments, "url", fields.URL)
	assignments = appendIfSet(assignments, "type", fields.Type)
	assignments = appendIfSet(assignments, "title", fields.Title)
	assignments = appendIfSet(assignments, "description", fields.Description)
	if len(assignments) == 0 {
		return nil
	}

	clauses, args, idx := setClauses(assignments)
	args = append(args, id, clientID)
	query := fmt.Sprintf(`UPDATE client_media SET %s WHERE id = $%d AND client_id = $%d`, strings.Join(clauses, ", "), idx, idx+1)

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update client media: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}

// Delete removes a media item belonging to clientID.
func (r *PGXClientMediaRepository) Delete(ctx context.Context, clientID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM client_media WHERE id = $1 AND client_id = $2`, id, clientID)
	if err != nil {
		return fmt.Errorf("delete client media: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}

func scanMedia(row pgx.Row) (*entity.ClientMedia, error) {
	var (
		media       entity.ClientMedia
		mediaType   sql.NullString
		title       sql.NullString
		description sql.NullString
	)
	if err := row.Scan(&media.ID, &media.ClientID, &media.URL, &mediaType, &title, &description, &media.CreatedAt, &media.UpdatedAt); err != nil {
		return nil, err
	}
	media.Type = nullStringToPtr(mediaType)
	media.Title = nullStringToPtr(title)
	media.Description = nullStringToPtr(description)
	return &media, nil
}
