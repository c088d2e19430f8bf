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

// ErrClientNotFound indicates the client does not exist for the given owner.
var ErrClientNotFound = errors.New("client not found")

const clientColumns = `id, user_id, name, photo_url, introduction, job_title, feedback, created_at, updated_at`

// ClientFields carries the client columns to write. Nil fields are left untouched on update.
type ClientFields struct {
	Name         *string
	PhotoURL     *string
	Introduction *string
	JobTitle     *string
	Feedback     *string
}

// ClientsRepository persists client testimonials.
type ClientsRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Client, error)
	Create(ctx context.Context, userID uuid.UUID, fields ClientFields) (*entity.Client, error)
	Update(ctx context.Context, userID, id uuid.UUID, fields ClientFields) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// PGXClientsRepository implements ClientsRepository with pgx.
type PGXClientsRepository struct {
	db DBTX
}

// NewPGXClientsRepository instantiates a clients repository.
func NewPGXClientsRepository(db DBTX) *PGXClientsRepository {
	return &PGXClientsRepository{db: db}
}

// ListByUser returns the user's clients in creation order, each with its media.
func (r *PGXClientsRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]entity.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients WHERE user_id = $1 ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	clients := []entity.Client{}
	for rows.Next() {
		client, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		clients = append(clients, *client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	rows.Close()

	if len(clients) == 0 {
		return clients, nil
	}

	ids := make([]string, 0, len(clients))
	index := make(map[uuid.UUID]int, len(clients))
	for i, c := range clients {
		ids = append(ids, c.ID.String())
		index[c.ID] = i
	}

	mediaRows, err := r.db.Query(ctx, `SELECT `+mediaColumns+` FROM client_media WHERE client_id = ANY($1::uuid[]) ORDER BY created_at ASC, id ASC`, ids)
	if err != nil {
		return nil, fmt.Errorf("list client media: %w", err)
	}
	defer mediaRows.Close()

	for mediaRows.Next() {
		media, err := scanMedia(mediaRows)
		if err != nil {
			return nil, fmt.Errorf("scan client media: %w", err)
		}
		if i, ok := index[media.ClientID]; ok {
			clients[i].Media = append(clients[i].Media, *media)
		}
	}
	if err := mediaRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate client media: %w", err)
	}
	return clients, nil
}

// Create inserts a client for userID.
func (r *PGXClientsRepository) Create(ctx context.Context, userID uuid.UUID, fields ClientFields) (*entity.Client, error) {
	if fields.Name == nil {
		return nil, fmt.Errorf("client name is required")
	}
	row := r.db.QueryRow(ctx, `
        INSERT INTO clients (user_id, name, photo_url, introduction, job_title, feedback)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING `+clientColumns,
		userID, *fields.Name, fields.PhotoURL, fields.Introduction, fields.JobTitle, fields.Feedback,
	)
	client, err := scanClient(row)
	if err != nil {
		return nil, fmt.Errorf("insert client: %w", err)
	}
	return client, nil
}

// Update patches a client owned by userID.
func (r *PGXClientsRepository) Update(ctx context.Context, userID, id uuid.UUID, fields ClientFields) error {
	var assignments []assignment
	assignments = appendIfSet(assignments, "name", fields.Name)
	assignments = appendIfSet(assignments, "photo_url", fields.PhotoURL)
	assignments = appendIfSet(assignments, "introduction", fields.Introduction)
	assignments = appendIfSet(assignments, "job_title", fields.JobTitle)
	assignments = appendIfSet(assignments, "feedback", fields.Feedback)
	if len(assignments) == 0 {
		return nil
	}

	clauses, args, idx := setClauses(assignments)
	args = append(args, id, userID)
	query := fmt.Sprintf(`UPDATE clients SET %s WHERE id = $%d AND user_id = $%d`, strings.Join(clauses, ", "), idx, idx+1)

	cmd, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// Delete removes a client owned by userID together with its media.
func (r *PGXClientsRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		client       entity.Client
		photoURL     sql.NullString
		introduction sql.NullString
		jobTitle     sql.NullString
		feedback     sql.NullString
	)
	err := row.Scan(
		&client.ID,
		&client.UserID,
		&client.Name,
		&photoURL,
		&introduction,
		&jobTitle,
		&feedback,
		&client.CreatedAt,
		&client.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	client.PhotoURL = nullStringToPtr(photoURL)
	client.Introduction = nullStringToPtr(introduction)
	client.JobTitle = nullStringToPtr(jobTitle)
	client.Feedback = nullStringToPtr(feedback)
	client.Media = []entity.ClientMedia{}
	return &client, nil
}
