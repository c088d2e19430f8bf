package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by the pool and an open transaction.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

type pgxPool interface {
	DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

var (
	_ pgxPool = (*pgxpool.Pool)(nil)
	_ DBTX    = (pgx.Tx)(nil)
)

// Repositories groups the repositories bound to one connection or transaction.
type Repositories struct {
	Users   UsersRepository
	Works   WorksRepository
	Clients ClientsRepository
	Media   ClientMediaRepository
}

// NewRepositories binds every repository to db.
func NewRepositories(db DBTX) Repositories {
	return Repositories{
		Users:   NewPGXUsersRepository(db),
		Works:   NewPGXWorksRepository(db),
		Clients: NewPGXClientsRepository(db),
		Media:   NewPGXClientMediaRepository(db),
	}
}

// TxRunner executes fn atomically. Returning an error from fn rolls back every change.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

// Store hands out pool-bound repositories and runs transactions.
type Store struct {
	pool pgxPool
}

// NewStore wraps a pgx pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Repositories returns repositories that run outside any transaction.
func (s *Store) Repositories() Repositories {
	return NewRepositories(s.pool)
}

// WithinTx runs fn inside a single transaction and commits when it succeeds.
func (s *Store) WithinTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ TxRunner = (*Store)(nil)

type assignment struct {
	column string
	value  any
}

// setClauses renders "col = $n" fragments starting at placeholder 1 and
// returns the next free placeholder index.
func setClauses(assignments []assignment) ([]string, []any, int) {
	clauses := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+2)
	idx := 1
	for _, a := range assignments {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", a.column, idx))
		args = append(args, a.value)
		idx++
	}
	clauses = append(clauses, "updated_at = NOW()")
	return clauses, args, idx
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return pgErr.ConstraintName == constraint || strings.Contains(pgErr.Message, constraint)
}

func appendIfSet(list []assignment, column string, value *string) []assignment {
	if value == nil {
		return list
	}
	return append(list, assignment{column: column, value: *value})
}
