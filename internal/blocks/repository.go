package blocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samithkalyan/telehealth-booking/internal/schedule"
)

type db interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository stores blocks in the relational database. Unlike bookings,
// blocks are hard-deleted by the admin UI.
type Repository struct {
	db db
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("blocks: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db db) *Repository {
	return &Repository{db: db}
}

// List returns all blocks ordered by their date expression.
func (r *Repository) List(ctx context.Context) ([]*Block, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, block_date, block_window, scope, created_at FROM blocks ORDER BY block_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("blocks: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.ID, &b.Date, &b.Window, &b.Scope, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("blocks: scan failed: %w", err)
		}
		out = append(out, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("blocks: list rows: %w", err)
	}
	return out, nil
}

// Rules returns all blocks in the resolver's predicate form.
func (r *Repository) Rules(ctx context.Context) ([]schedule.BlockRule, error) {
	list, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]schedule.BlockRule, 0, len(list))
	for _, b := range list {
		rules = append(rules, b.Rule())
	}
	return rules, nil
}

// Create inserts a new block.
func (r *Repository) Create(ctx context.Context, req *UpsertBlockRequest) (*Block, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}
	b := &Block{
		ID:     uuid.New().String(),
		Date:   req.Date,
		Window: req.Window,
		Scope:  req.Scope,
	}
	var createdAt time.Time
	if err := r.db.QueryRow(ctx,
		`INSERT INTO blocks (id, block_date, block_window, scope) VALUES ($1, $2, $3, $4) RETURNING created_at`,
		b.ID, b.Date, b.Window, b.Scope,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("blocks: insert failed: %w", err)
	}
	b.CreatedAt = createdAt
	return b, nil
}

// Update rewrites an existing block's fields.
func (r *Repository) Update(ctx context.Context, id string, req *UpsertBlockRequest) error {
	if err := req.Normalize(); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE blocks SET block_date = $1, block_window = $2, scope = $3 WHERE id = $4`,
		req.Date, req.Window, req.Scope, id)
	if err != nil {
		return fmt.Errorf("blocks: update failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// Delete removes a block permanently.
func (r *Repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("blocks: delete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBlockNotFound
	}
	return nil
}
