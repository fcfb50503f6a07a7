package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/mundocomputo/authd/internal/auth/domain"
	"github.com/mundocomputo/authd/pkg/guard"
)

type profilesRepo struct {
	db *sql.DB
}

const profileColumns = `id, email, role, mfa_code, mfa_expires_at, mfa_verified, created_at, updated_at`

func (r *profilesRepo) GetProfileByEmail(ctx context.Context, email string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	now := time.Now().UTC()
	var role sql.NullString
	if p.Role != nil {
		role = sql.NullString{String: p.Role.String(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, role, mfa_verified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Email, role, p.MFAVerified, now, now)
	return mapConflict(err)
}

func (r *profilesRepo) SetPendingCode(ctx context.Context, email, code string, expiresAt time.Time) error {
	// Overwrites any prior outstanding code; zero matched rows is not an
	// error, matching the rest driver.
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles
		 SET mfa_code = ?, mfa_expires_at = ?, mfa_verified = 0, updated_at = ?
		 WHERE email = ?`,
		code, expiresAt.UTC(), time.Now().UTC(), email)
	return err
}

func (r *profilesRepo) CompleteVerification(ctx context.Context, profileID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles
		 SET mfa_code = NULL, mfa_expires_at = NULL, mfa_verified = 1, updated_at = ?
		 WHERE id = ?`,
		time.Now().UTC(), profileID)
	return err
}

func (r *profilesRepo) SetRole(ctx context.Context, profileID string, role guard.Role) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET role = ?, updated_at = ? WHERE id = ?`,
		role.String(), time.Now().UTC(), profileID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var (
		p         domain.Profile
		role      sql.NullString
		code      sql.NullString
		expiresAt sql.NullTime
	)
	err := row.Scan(&p.ID, &p.Email, &role, &code, &expiresAt, &p.MFAVerified, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	if role.Valid && role.String != "" {
		parsed, err := guard.ParseRole(role.String)
		if err != nil {
			return domain.Profile{}, err
		}
		p.Role = &parsed
	}
	if code.Valid {
		v := code.String
		p.MFACode = &v
	}
	if expiresAt.Valid {
		v := expiresAt.Time
		p.MFAExpiresAt = &v
	}
	return p, nil
}
