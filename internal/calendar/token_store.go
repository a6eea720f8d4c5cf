package calendar

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tokenDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresTokenStore reads the practitioner's Google refresh token from the
// oauth_tokens table, where the OAuth callback flow deposited it.
type PostgresTokenStore struct {
	db tokenDB
}

// NewPostgresTokenStore initializes a token store backed by pgxpool.
func NewPostgresTokenStore(pool *pgxpool.Pool) *PostgresTokenStore {
	if pool == nil {
		panic("calendar: pgx pool required")
	}
	return &PostgresTokenStore{db: pool}
}

// NewPostgresTokenStoreWithDB allows injecting a mock database for testing.
func NewPostgresTokenStoreWithDB(db tokenDB) *PostgresTokenStore {
	return &PostgresTokenStore{db: db}
}

// RefreshToken returns the stored Google refresh token, or "" when none has
// been connected yet.
func (s *PostgresTokenStore) RefreshToken(ctx context.Context) (string, error) {
	var token string
	err := s.db.QueryRow(ctx,
		`SELECT refresh_token FROM oauth_tokens WHERE provider = 'google' ORDER BY created_at DESC LIMIT 1`,
	).Scan(&token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("calendar: select refresh token: %w", err)
	}
	return token, nil
}

var _ TokenSource = (*PostgresTokenStore)(nil)
