// registration_repository.go implements RegistrationRepository, providing
// database queries for membership rows: transactional inserts during
// registration, credential and token reads for login, and the query-endpoint
// lookups.
package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/network-onboarding/network-onboarding/internal/db/models"
)

// RegistrationRepository handles membership-row database operations
type RegistrationRepository struct {
	db *sqlx.DB
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// NextOrgIDTx allocates a fresh organization identifier from the database
// sequence. Sequence values are monotonic and never reused, so two concurrent
// registrations cannot allocate the same id.
func (r *RegistrationRepository) NextOrgIDTx(ctx context.Context, tx *sqlx.Tx) (int64, error) {
	var id int64
	if err := tx.QueryRowxContext(ctx, `SELECT nextval('org_id_seq')`).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// InsertTx inserts a membership row inside a registration transaction.
// A duplicate username surfaces as a unique violation; use IsUniqueViolation
// to detect it.
func (r *RegistrationRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (
			orgid, orgname, usertype, username, usermailid, password, orgpolicy, projectid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := tx.ExecContext(ctx, query,
		reg.OrgID, reg.OrgName, reg.UserType, reg.Username,
		reg.Email, reg.Password, reg.OrgPolicy, reg.ProjectID,
	)
	return err
}

// ListByProjectTx returns every membership row of a project, inside the
// provisioning transaction so the recipient list matches the committed state.
func (r *RegistrationRepository) ListByProjectTx(ctx context.Context, tx *sqlx.Tx, projectID int64) ([]*models.Registration, error) {
	var regs []*models.Registration
	query := `SELECT * FROM registrations WHERE projectid = $1`
	if err := tx.SelectContext(ctx, &regs, query, projectID); err != nil {
		return nil, err
	}
	return regs, nil
}

// GetByUsername retrieves a membership row by username
func (r *RegistrationRepository) GetByUsername(ctx context.Context, username string) (*models.Registration, error) {
	var reg models.Registration
	query := `SELECT * FROM registrations WHERE username = $1`
	err := r.db.GetContext(ctx, &reg, query, username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// UsernameExists reports whether a membership row exists for the username
func (r *RegistrationRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var one int
	query := `SELECT 1 FROM registrations WHERE username = $1`
	err := r.db.QueryRowxContext(ctx, query, username).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetToken returns the latest issued token for a username. found is false when
// no membership row exists; a row with no token yet returns an invalid
// NullString with found=true.
func (r *RegistrationRepository) GetToken(ctx context.Context, username string) (token sql.NullString, found bool, err error) {
	query := `SELECT token FROM registrations WHERE username = $1`
	err = r.db.QueryRowxContext(ctx, query, username).Scan(&token)
	if err == sql.ErrNoRows {
		return sql.NullString{}, false, nil
	}
	if err != nil {
		return sql.NullString{}, false, err
	}
	return token, true, nil
}

// UpdateToken overwrites the latest issued token for a username (last-login-wins).
func (r *RegistrationRepository) UpdateToken(ctx context.Context, username, token string) error {
	query := `UPDATE registrations SET token = $2 WHERE username = $1`
	_, err := r.db.ExecContext(ctx, query, username, token)
	return err
}

// GetStoredPassword returns the raw stored password column for the row
// matching username, organization name, and email. The caller decides how to
// interpret the value (the reversible read path attempts AES-GCM decryption).
func (r *RegistrationRepository) GetStoredPassword(ctx context.Context, username, orgname, email string) (string, bool, error) {
	var stored string
	query := `
		SELECT password FROM registrations
		WHERE username = $1 AND orgname = $2 AND usermailid = $3
	`
	err := r.db.QueryRowxContext(ctx, query, username, orgname, email).Scan(&stored)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return stored, true, nil
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (e.g. a duplicate username racing a concurrent registration).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
