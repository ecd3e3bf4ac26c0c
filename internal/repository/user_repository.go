package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/auth-service/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

const selectUser = `SELECT u.id, u.username, u.password_hash, u.email, u.image, u.is_active,
	u.email_validation_token, u.email_validation_expires_in, u.email_validation_created_at,
	u.password_recovery_token, u.password_recovery_expires_in, u.password_recovery_created_at,
	u.created_at, u.updated_at,
	a.code, a.code_expires_in, a.code_used, a.token, a.expires_in, a.is_active, a.created_at, a.updated_at
FROM users u
LEFT JOIN authentications a ON a.user_id = u.id`

// UserRepo is the MySQL credential store. Users live in `users`, their single
// Authentication in `authentications` keyed by user_id.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts the user and, when present, its Authentication in one
// transaction. A duplicate username yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, user *model.User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, email, image, is_active,
			email_validation_token, email_validation_expires_in, email_validation_created_at,
			password_recovery_token, password_recovery_expires_in, password_recovery_created_at,
			created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		user.ID, user.Username, user.Password, user.Email, nullString(user.Image), user.IsActive,
		nullString(user.EmailValidationToken), user.EmailValidationExpiresIn.Milliseconds(), nullTime(user.EmailValidationCreatedAt),
		nullString(user.PasswordRecoveryToken), user.PasswordRecoveryExpiresIn.Milliseconds(), nullTime(user.PasswordRecoveryCreatedAt),
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}

	if user.Authentication != nil {
		if err := upsertAuthentication(ctx, tx, user.ID, user.Authentication); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "u.username = ?", username)
}

func (r *UserRepo) GetByToken(ctx context.Context, token string) (*model.User, error) {
	return r.getOne(ctx, "a.token = ?", token)
}

func (r *UserRepo) GetByCode(ctx context.Context, code string) (*model.User, error) {
	return r.getOne(ctx, "a.code = ?", code)
}

func (r *UserRepo) GetByPasswordRecoveryToken(ctx context.Context, token string) (*model.User, error) {
	return r.getOne(ctx, "u.password_recovery_token = ?", token)
}

func (r *UserRepo) GetByEmailValidationToken(ctx context.Context, token string) (*model.User, error) {
	return r.getOne(ctx, "u.email_validation_token = ?", token)
}

// UpdateByUsername rewrites the user's mutable columns and upserts its
// Authentication. The user row is locked with SELECT ... FOR UPDATE so
// concurrent writers for the same username are serialized; the last
// commit wins.
func (r *UserRepo) UpdateByUsername(ctx context.Context, username string, user *model.User) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id string
	err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE username = ? FOR UPDATE", username).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, email = ?, image = ?, is_active = ?,
			email_validation_token = ?, email_validation_expires_in = ?, email_validation_created_at = ?,
			password_recovery_token = ?, password_recovery_expires_in = ?, password_recovery_created_at = ?,
			updated_at = ?
		WHERE id = ?`,
		user.Password, user.Email, nullString(user.Image), user.IsActive,
		nullString(user.EmailValidationToken), user.EmailValidationExpiresIn.Milliseconds(), nullTime(user.EmailValidationCreatedAt),
		nullString(user.PasswordRecoveryToken), user.PasswordRecoveryExpiresIn.Milliseconds(), nullTime(user.PasswordRecoveryCreatedAt),
		user.UpdatedAt, id)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if user.Authentication != nil {
		if err := upsertAuthentication(ctx, tx, id, user.Authentication); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *UserRepo) getOne(ctx context.Context, where string, arg string) (*model.User, error) {
	if arg == "" {
		return nil, ErrNotFound
	}

	var (
		u                                 model.User
		image, validationTok, recoveryTok sql.NullString
		validationMs, recoveryMs          int64
		validationAt, recoveryAt          sql.NullTime
		code, token                       sql.NullString
		codeMs, tokenMs                   sql.NullInt64
		codeUsed, authActive              sql.NullBool
		authCreated, authUpdated          sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, selectUser+" WHERE "+where+" LIMIT 1", arg).Scan(
		&u.ID, &u.Username, &u.Password, &u.Email, &image, &u.IsActive,
		&validationTok, &validationMs, &validationAt,
		&recoveryTok, &recoveryMs, &recoveryAt,
		&u.CreatedAt, &u.UpdatedAt,
		&code, &codeMs, &codeUsed, &token, &tokenMs, &authActive, &authCreated, &authUpdated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}

	u.Image = image.String
	u.EmailValidationToken = validationTok.String
	u.EmailValidationExpiresIn = time.Duration(validationMs) * time.Millisecond
	u.EmailValidationCreatedAt = validationAt.Time
	u.PasswordRecoveryToken = recoveryTok.String
	u.PasswordRecoveryExpiresIn = time.Duration(recoveryMs) * time.Millisecond
	u.PasswordRecoveryCreatedAt = recoveryAt.Time

	if code.Valid && token.Valid {
		u.Authentication = &model.Authentication{
			Code:          code.String,
			CodeExpiresIn: time.Duration(codeMs.Int64) * time.Millisecond,
			CodeUsed:      codeUsed.Bool,
			Token:         token.String,
			ExpiresIn:     time.Duration(tokenMs.Int64) * time.Millisecond,
			IsActive:      authActive.Bool,
			CreatedAt:     authCreated.Time,
			UpdatedAt:     authUpdated.Time,
		}
	}
	return &u, nil
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// nullString stores empty optional strings as NULL so unique indexes on
// token columns ignore them.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
