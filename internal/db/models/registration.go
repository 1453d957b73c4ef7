package models

import (
	"database/sql"
	"time"
)

// Registration is one user's membership row: organization affiliation,
// credentials, role, and the latest issued session token. Username is the
// primary key and is unique across the whole system, not per organization.
type Registration struct {
	OrgID     int64          `db:"orgid"`
	OrgName   string         `db:"orgname"`
	UserType  string         `db:"usertype"`
	Username  string         `db:"username"`
	Email     string         `db:"usermailid"`
	Password  string         `db:"password"`
	OrgPolicy string         `db:"orgpolicy"`
	ProjectID int64          `db:"projectid"`
	Token     sql.NullString `db:"token"`
	CreatedAt time.Time      `db:"created_at"`
}
