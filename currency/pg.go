package currency

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"github.com/lib/pq"
)

var ErrConflict = fmt.Errorf("conflict")

// PGTable is a Table backed by Postgres, for deployments that manage the
// currency list in the database instead of the built-in one. Expected schema:
//
//	CREATE TABLE currencies (
//	    code         char(3) PRIMARY KEY,
//	    numeric_code char(3) NOT NULL,
//	    decimals     int     NOT NULL
//	);
type PGTable struct {
	db *sql.DB
}

func NewPGTable(db *sql.DB) *PGTable {
	return &PGTable{db: db}
}

func (t *PGTable) Find(code string) (Currency, error) {
	row := t.db.QueryRowContext(context.Background(), `
		SELECT code, numeric_code, decimals FROM currencies WHERE code=$1
	`, strings.ToUpper(code))
	var c Currency
	if err := row.Scan(&c.Code, &c.Numeric, &c.Decimals); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Currency{}, ErrNotFound
		}
		return Currency{}, err
	}
	return c, nil
}

// Add inserts a currency. Inserting a code that already exists returns
// ErrConflict.
func (t *PGTable) Add(ctx context.Context, c Currency) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO currencies(code, numeric_code, decimals) VALUES ($1,$2,$3)
	`, strings.ToUpper(c.Code), c.Numeric, c.Decimals)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

// Ping returns DB readiness
func (t *PGTable) Ping(ctx context.Context) error {
	return t.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
