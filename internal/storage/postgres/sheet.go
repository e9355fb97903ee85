package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSheetNotFound is returned when a sheet lookup yields no results.
var ErrSheetNotFound = errors.New("character sheet not found")

// Sheet is one archived character save.
type Sheet struct {
	ID        int64
	Name      string
	Data      []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SheetSummary lists an archived sheet without its payload.
type SheetSummary struct {
	ID        int64
	Name      string
	UpdatedAt time.Time
}

// SheetRepository archives character saves by name.
type SheetRepository struct {
	db *pgxpool.Pool
}

// NewSheetRepository creates a SheetRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSheetRepository(db *pgxpool.Pool) *SheetRepository {
	return &SheetRepository{db: db}
}

// Save stores data under name, replacing any sheet with the same name.
//
// Precondition: name must be non-empty; data must be a JSON document.
// Postcondition: Returns the id of the inserted or updated row.
func (r *SheetRepository) Save(ctx context.Context, name string, data []byte) (int64, error) {
	if name == "" {
		return 0, errors.New("saving sheet: name must not be empty")
	}
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO character_sheets (name, data)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		RETURNING id`,
		name, data,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("saving sheet %q: %w", name, err)
	}
	return id, nil
}

// Get retrieves a sheet by its primary key.
//
// Postcondition: Returns the Sheet or ErrSheetNotFound.
func (r *SheetRepository) Get(ctx context.Context, id int64) (*Sheet, error) {
	return r.queryOne(ctx, `
		SELECT id, name, data, created_at, updated_at
		FROM character_sheets WHERE id = $1`, id)
}

// GetByName retrieves a sheet by its unique name.
//
// Postcondition: Returns the Sheet or ErrSheetNotFound.
func (r *SheetRepository) GetByName(ctx context.Context, name string) (*Sheet, error) {
	return r.queryOne(ctx, `
		SELECT id, name, data, created_at, updated_at
		FROM character_sheets WHERE name = $1`, name)
}

func (r *SheetRepository) queryOne(ctx context.Context, sql string, arg any) (*Sheet, error) {
	var s Sheet
	err := r.db.QueryRow(ctx, sql, arg).Scan(&s.ID, &s.Name, &s.Data, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("querying sheet: %w", err)
	}
	return &s, nil
}

// List returns every archived sheet, most recently updated first.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *SheetRepository) List(ctx context.Context) ([]SheetSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, updated_at
		FROM character_sheets ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	defer rows.Close()

	out := make([]SheetSummary, 0)
	for rows.Next() {
		var s SheetSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning sheet row: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Delete removes a sheet.
//
// Postcondition: Returns nil on success, ErrSheetNotFound if no row was deleted.
func (r *SheetRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM character_sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	return nil
}
