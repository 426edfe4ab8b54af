package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// RevocationLedger records tokens invalidated before natural expiry.
// IsRevoked sits on the hot path of every authenticated request, so
// implementations keep the read cheap. Revoke must tolerate duplicate
// submissions of the same token.
type RevocationLedger interface {
	Revoke(ctx context.Context, token string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	// PurgeExpired drops entries whose token already expired; an expired
	// token fails validation regardless of revocation status.
	PurgeExpired(ctx context.Context) (int64, error)
}

type revokedTokenRepository struct {
	DB *sql.DB
}

func NewRevokedTokenRepository(db *sql.DB) RevocationLedger {
	return &revokedTokenRepository{DB: db}
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	// ON CONFLICT DO NOTHING: двойной logout не должен падать
	const q = `
		INSERT INTO revoked_tokens (token, revoked_at, expiration_date)
		VALUES ($1, NOW(), $2)
		ON CONFLICT (token) DO NOTHING
	`
	if _, err := r.DB.ExecContext(ctx, q, token, expiresAt); err != nil {
		return fmt.Errorf("revoked_token insert: %w", err)
	}
	return nil
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, token string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM revoked_tokens WHERE token = $1)`, token,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("revoked_token lookup: %w", err)
	}
	return exists, nil
}

func (r *revokedTokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expiration_date < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("revoked_token purge: %w", err)
	}
	return res.RowsAffected()
}
