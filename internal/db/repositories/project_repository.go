// Package repositories implements the data access layer for the onboarding
// service. Each repository type encapsulates all database queries for one
// entity. Handlers never issue SQL directly — all database access goes through
// this layer.
//
// Methods with a Tx suffix run inside a caller-owned transaction; the caller
// (a workflow handler) begins the transaction, threads the *sqlx.Tx through
// every statement, and commits or rolls back. Plain methods are single-read or
// single-write operations that need no transaction.
package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/network-onboarding/network-onboarding/internal/db/models"
)

// ProjectRepository handles project database operations
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateTx inserts a project row and returns its generated identifier.
func (r *ProjectRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, name string, gs1Org sql.NullString) (int64, error) {
	query := `
		INSERT INTO projects (projectname, gs1_org)
		VALUES ($1, $2)
		RETURNING projectid
	`

	var id int64
	if err := tx.QueryRowxContext(ctx, query, name, gs1Org).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetTx retrieves a project by identifier inside a transaction.
func (r *ProjectRepository) GetTx(ctx context.Context, tx *sqlx.Tx, id int64) (*models.Project, error) {
	var project models.Project
	query := `SELECT * FROM projects WHERE projectid = $1`
	err := tx.GetContext(ctx, &project, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// SetNetworkTx records the network identifier and documentation URI assigned
// during provisioning.
func (r *ProjectRepository) SetNetworkTx(ctx context.Context, tx *sqlx.Tx, id int64, networkID, swaggerURL string) error {
	query := `
		UPDATE projects
		SET networkid = $2, swagger_url = $3
		WHERE projectid = $1
	`
	_, err := tx.ExecContext(ctx, query, id, networkID, swaggerURL)
	return err
}

// GetByID retrieves a project by identifier outside any transaction.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	var project models.Project
	query := `SELECT * FROM projects WHERE projectid = $1`
	err := r.db.GetContext(ctx, &project, query, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}
