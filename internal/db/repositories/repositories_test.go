package repositories

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

// newMockDB returns an sqlx handle backed by sqlmock.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

// projectCols are the columns returned by `SELECT * FROM projects`.
var projectCols = []string{"projectid", "projectname", "gs1_org", "networkid", "swagger_url", "created_at"}

// registrationCols are the columns returned by `SELECT * FROM registrations`.
var registrationCols = []string{
	"orgid", "orgname", "usertype", "username", "usermailid",
	"password", "orgpolicy", "projectid", "token", "created_at",
}

func sampleProjectRow() *sqlmock.Rows {
	return sqlmock.NewRows(projectCols).
		AddRow(int64(7), "supply-chain", "urn:gs1:org:1", "a1b2c3d4", "https://docs.example.com/7", time.Now())
}

func sampleRegistrationRow(username string) *sqlmock.Rows {
	return sqlmock.NewRows(registrationCols).
		AddRow(int64(3), "acme", "admin", username, username+"@example.com",
			"$2a$10$hash", "open", int64(7), nil, time.Now())
}
