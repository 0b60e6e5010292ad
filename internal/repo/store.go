package repo

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repo can run inside
// or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store hands out repos bound either to the pool or to one open transaction.
type Store struct {
	db *sql.DB
	tx *sql.Tx
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) conn() DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) Organisations() *OrganisationRepo { return NewOrganisationRepo(s.conn()) }
func (s *Store) Users() *UserRepo                 { return NewUserRepo(s.conn()) }
func (s *Store) Employees() *EmployeeRepo         { return NewEmployeeRepo(s.conn()) }
func (s *Store) Teams() *TeamRepo                 { return NewTeamRepo(s.conn()) }
func (s *Store) Memberships() *MembershipRepo     { return NewMembershipRepo(s.conn()) }
func (s *Store) Audit() *AuditRepo                { return NewAuditRepo(s.conn()) }

// Ping checks the underlying pool.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn against a Store bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise (including on panic).
// Nested calls reuse the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&Store{db: s.db, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
