// Package models defines the persisted entities of the onboarding service:
// projects (top-level tenants) and registrations (per-user organization
// membership rows).
package models

import (
	"database/sql"
	"time"
)

// Project is a top-level tenant grouping one or more organizations. NetworkID
// and SwaggerURL stay NULL until the project is confirmed; login for the
// project's users is blocked while NetworkID is unset.
type Project struct {
	ID         int64          `db:"projectid"`
	Name       string         `db:"projectname"`
	GS1Org     sql.NullString `db:"gs1_org"`
	NetworkID  sql.NullString `db:"networkid"`
	SwaggerURL sql.NullString `db:"swagger_url"`
	CreatedAt  time.Time      `db:"created_at"`
}

// Provisioned reports whether the project has been confirmed and assigned a
// network identifier.
func (p *Project) Provisioned() bool {
	return p.NetworkID.Valid && p.NetworkID.String != ""
}
