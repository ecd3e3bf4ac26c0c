package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/auth-service/internal/model"
)

// Each user owns at most one row in `authentications`, keyed by user_id.
// Issuing and retiring a code/token pair rewrite that row wholesale inside
// the caller's transaction; consuming a code touches only code_used.
const upsertAuthenticationSQL = `INSERT INTO authentications
	(user_id, code, code_expires_in, code_used, token, expires_in, is_active, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE code = VALUES(code), code_expires_in = VALUES(code_expires_in),
	code_used = VALUES(code_used), token = VALUES(token), expires_in = VALUES(expires_in),
	is_active = VALUES(is_active), created_at = VALUES(created_at), updated_at = VALUES(updated_at)`

// upsertAuthentication stores a's code and token for userID. A code or
// token already held by another user yields ErrConflict.
func upsertAuthentication(ctx context.Context, tx *sql.Tx, userID string, a *model.Authentication) error {
	_, err := tx.ExecContext(ctx, upsertAuthenticationSQL,
		userID, a.Code, a.CodeExpiresIn.Milliseconds(), a.CodeUsed, a.Token, a.ExpiresIn.Milliseconds(),
		a.IsActive, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return fmt.Errorf("upsert authentication: %w", err)
	}
	return nil
}

// ConsumeCode marks an unused code as used in a single statement, so of
// several concurrent callers exactly one sees success. A code that is
// unknown or already used yields ErrNotFound.
func (r *UserRepo) ConsumeCode(ctx context.Context, code string, at time.Time) error {
	if code == "" {
		return ErrNotFound
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE authentications SET code_used = 1, updated_at = ? WHERE code = ? AND code_used = 0",
		at, code)
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume code: %w", err)
	}
	if n != 1 {
		return ErrNotFound
	}
	return nil
}
