package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var testUserID = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")

func userRow(username string, socialJSON string) []any {
	now := time.Now()
	return []any{
		testUserID,
		sql.NullString{String: "Jane Doe", Valid: true},
		username,
		sql.NullString{},
		sql.NullString{String: "Video Editor", Valid: true},
		sql.NullString{},
		sql.NullTime{},
		sql.NullString{},
		[]byte(socialJSON),
		sql.NullString{String: "Editor since 2015", Valid: true},
		sql.NullString{},
		sql.NullString{},
		now,
		now,
	}
}

func TestPGXUsersRepository_FindByUsername(t *testing.T) {
	db := &stubDB{queryRowFn: func(sql string, args ...any) pgx.Row {
		if args[0] == "ghost" {
			return stubRow{err: pgx.ErrNoRows}
		}
		return stubRow{values: userRow("jane", `["https://instagram.com/jane"]`)}
	}}
	repo := NewPGXUsersRepository(db)

	user, err := repo.FindByUsername(context.Background(), "jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Username != "jane" || user.Name == nil || *user.Name != "Jane Doe" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Email != nil || user.VerifiedAt != nil {
		t.Fatalf("expected null columns to stay nil")
	}
	if len(user.SocialURLs) != 1 || user.SocialURLs[0] != "https://instagram.com/jane" {
		t.Fatalf("unexpected social urls: %v", user.SocialURLs)
	}

	if _, err := repo.FindByUsername(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_NullSocialURLs(t *testing.T) {
	db := &stubDB{queryRowFn: func(sql string, args ...any) pgx.Row {
		return stubRow{values: userRow("jane", `null`)}
	}}
	user, err := NewPGXUsersRepository(db).FindByUsername(context.Background(), "jane")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.SocialURLs == nil || len(user.SocialURLs) != 0 {
		t.Fatalf("expected empty non-nil social urls, got %#v", user.SocialURLs)
	}
}

func TestPGXUsersRepository_CreateUsernameTaken(t *testing.T) {
	db := &stubDB{queryRowFn: func(sql string, args ...any) pgx.Row {
		return stubRow{err: &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}}
	}}

	_, err := NewPGXUsersRepository(db).Create(context.Background(), "jane", "Jane")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if !strings.Contains(db.last().sql, "INSERT INTO users") {
		t.Fatalf("unexpected sql: %s", db.last().sql)
	}
}

func TestPGXUsersRepository_UpdateBuildsSetClause(t *testing.T) {
	db := &stubDB{queryRowFn: func(sql string, args ...any) pgx.Row {
		return stubRow{values: userRow("jane", `[]`)}
	}}
	repo := NewPGXUsersRepository(db)

	name := "Jane Doe"
	socials := []string{"https://x.com/jane"}
	if _, err := repo.Update(context.Background(), testUserID, UserFields{Name: &name, SocialURLs: &socials}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	call := db.last()
	for _, want := range []string{"name = $1", "social_urls = $2", "updated_at = NOW()", "WHERE id = $3"} {
		if !strings.Contains(call.sql, want) {
			t.Fatalf("expected %q in sql: %s", want, call.sql)
		}
	}
	if len(call.args) != 3 || call.args[0] != "Jane Doe" || call.args[1] != `["https://x.com/jane"]` || call.args[2] != testUserID {
		t.Fatalf("unexpected args: %v", call.args)
	}
}

func TestPGXUsersRepository_UpdateErrors(t *testing.T) {
	var rowErr error
	db := &stubDB{queryRowFn: func(sql string, args ...any) pgx.Row {
		return stubRow{err: rowErr}
	}}
	repo := NewPGXUsersRepository(db)
	email := "taken@example.com"

	rowErr = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	if _, err := repo.Update(context.Background(), testUserID, UserFields{Email: &email}); !errors.Is(err, ErrEmailDuplicate) {
		t.Fatalf("expected ErrEmailDuplicate, got %v", err)
	}

	rowErr = pgx.ErrNoRows
	if _, err := repo.Update(context.Background(), testUserID, UserFields{Email: &email}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_UpdateWithoutFieldsReads(t *testing.T) {
	db := &stubDB{queryRowFn: func(sql string, args ...any) pgx.Row {
		return stubRow{values: userRow("jane", `[]`)}
	}}
	if _, err := NewPGXUsersRepository(db).Update(context.Background(), testUserID, UserFields{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(db.last().sql, "UPDATE") {
		t.Fatalf("expected a plain select, got %s", db.last().sql)
	}
}

func TestPGXUsersRepository_DeleteByUsername(t *testing.T) {
	affected := "DELETE 1"
	db := &stubDB{execFn: func(sql string, args ...any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag(affected), nil
	}}
	repo := NewPGXUsersRepository(db)

	if err := repo.DeleteByUsername(context.Background(), "jane"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	affected = "DELETE 0"
	if err := repo.DeleteByUsername(context.Background(), "jane"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestPGXUsersRepository_SearchEscapesPattern(t *testing.T) {
	db := &stubDB{queryFn: func(sql string, args ...any) (pgx.Rows, error) {
		return &stubRows{rows: [][]any{userRow("jane", `[]`)}}, nil
	}}

	users, err := NewPGXUsersRepository(db).Search(context.Background(), "  50%_off ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	call := db.last()
	if call.args[0] != `%50\%\_off%` {
		t.Fatalf("unexpected pattern: %v", call.args[0])
	}
	if call.args[1] != 20 {
		t.Fatalf("expected default limit 20, got %v", call.args[1])
	}
}

func TestEscapeLike(t *testing.T) {
	if got := escapeLike(`a\b%c_d`); got != `a\\b\%c\_d` {
		t.Fatalf("unexpected escape: %s", got)
	}
}
