package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/octobees/portfolio-importer/api/internal/entity"
)

// ErrUserNotFound is returned when no user matches the lookup criteria.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameTaken  = errors.New("username already exists")
	ErrEmailDuplicate = errors.New("email already exists")
)

const userColumns = `id, name, username, email, job_title, phone, verified_at, address, social_urls, bio, expertise, skills, created_at, updated_at`

// UserFields carries the profile columns to change. Nil fields are left untouched.
type UserFields struct {
	Name       *string
	Email      *string
	JobTitle   *string
	Phone      *string
	Address    *string
	Bio        *string
	Expertise  *string
	Skills     *string
	SocialURLs *[]string
}

// IsEmpty reports whether no field is set.
func (f UserFields) IsEmpty() bool {
	return f.Name == nil && f.Email == nil && f.JobTitle == nil && f.Phone == nil &&
		f.Address == nil && f.Bio == nil && f.Expertise == nil && f.Skills == nil && f.SocialURLs == nil
}

// UsersRepository declares persistence operations for portfolio owners.
type UsersRepository interface {
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Create(ctx context.Context, username, name string) (*entity.User, error)
	Update(ctx context.Context, id uuid.UUID, fields UserFields) (*entity.User, error)
	DeleteByUsername(ctx context.Context, username string) error
	Search(ctx context.Context, query string, limit int) ([]entity.User, error)
}

// PGXUsersRepository implements UsersRepository with pgx.
type PGXUsersRepository struct {
	db DBTX
}

// NewPGXUsersRepository instantiates a users repository.
func NewPGXUsersRepository(db DBTX) *PGXUsersRepository {
	return &PGXUsersRepository{db: db}
}

// FindByUsername fetches a user by username if present.
func (r *PGXUsersRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by username: %w", err)
	}
	return user, nil
}

// Create inserts a new user row.
func (r *PGXUsersRepository) Create(ctx context.Context, username, name string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `
        INSERT INTO users (username, name)
        VALUES ($1, $2)
        RETURNING `+userColumns, username, name)

	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err, "users_username_key") {
			return nil, fmt.Errorf("%w: %v", ErrUsernameTaken, err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// Update patches user attributes.
func (r *PGXUsersRepository) Update(ctx context.Context, id uuid.UUID, fields UserFields) (*entity.User, error) {
	var assignments []assignment
	assignments = appendIfSet(assignments, "name", fields.Name)
	assignments = appendIfSet(assignments, "email", fields.Email)
	assignments = appendIfSet(assignments, "job_title", fields.JobTitle)
	assignments = appendIfSet(assignments, "phone", fields.Phone)
	assignments = appendIfSet(assignments, "address", fields.Address)
	assignments = appendIfSet(assignments, "bio", fields.Bio)
	assignments = appendIfSet(assignments, "expertise", fields.Expertise)
	assignments = appendIfSet(assignments, "skills", fields.Skills)
	if fields.SocialURLs != nil {
		encoded, err := json.Marshal(stringSliceOrEmpty(*fields.SocialURLs))
		if err != nil {
			return nil, fmt.Errorf("marshal social urls: %w", err)
		}
		assignments = append(assignments, assignment{column: "social_urls", value: string(encoded)})
	}

	if len(assignments) == 0 {
		return r.findByID(ctx, id)
	}

	clauses, args, idx := setClauses(assignments)
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`, strings.Join(clauses, ", "), idx, userColumns)

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		if isUniqueViolation(err, "users_email_key") {
			return nil, fmt.Errorf("%w: %v", ErrEmailDuplicate, err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (r *PGXUsersRepository) findByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// DeleteByUsername removes a user; works, clients and media go with it.
func (r *PGXUsersRepository) DeleteByUsername(ctx context.Context, username string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Search matches users whose username or profile text contains query, case-insensitively.
func (r *PGXUsersRepository) Search(ctx context.Context, query string, limit int) ([]entity.User, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"

	rows, err := r.db.Query(ctx, `
        SELECT `+userColumns+`
        FROM users
        WHERE username ILIKE $1
           OR name ILIKE $1
           OR job_title ILIKE $1
           OR bio ILIKE $1
           OR expertise ILIKE $1
           OR skills ILIKE $1
        ORDER BY updated_at DESC, username ASC
        LIMIT $2
    `, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		user       entity.User
		name       sql.NullString
		email      sql.NullString
		jobTitle   sql.NullString
		phone      sql.NullString
		verifiedAt sql.NullTime
		address    sql.NullString
		socialJSON []byte
		bio        sql.NullString
		expertise  sql.NullString
		skills     sql.NullString
	)

	err := row.Scan(
		&user.ID,
		&name,
		&user.Username,
		&email,
		&jobTitle,
		&phone,
		&verifiedAt,
		&address,
		&socialJSON,
		&bio,
		&expertise,
		&skills,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Name = nullStringToPtr(name)
	user.Email = nullStringToPtr(email)
	user.JobTitle = nullStringToPtr(jobTitle)
	user.Phone = nullStringToPtr(phone)
	user.Address = nullStringToPtr(address)
	user.Bio = nullStringToPtr(bio)
	user.Expertise = nullStringToPtr(expertise)
	user.Skills = nullStringToPtr(skills)
	if verifiedAt.Valid {
		ts := verifiedAt.Time
		user.VerifiedAt = &ts
	}
	user.SocialURLs = []string{}
	if len(socialJSON) > 0 {
		if err := json.Unmarshal(socialJSON, &user.SocialURLs); err != nil {
			return nil, fmt.Errorf("unmarshal social urls: %w", err)
		}
		user.SocialURLs = stringSliceOrEmpty(user.SocialURLs)
	}

	return &user, nil
}

func nullStringToPtr(value sql.NullString) *string {
	if value.Valid {
		val := value.String
		return &val
	}
	return nil
}

func stringSliceOrEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func escapeLike(value string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(value)
}
