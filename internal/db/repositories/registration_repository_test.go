package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/network-onboarding/network-onboarding/internal/db/models"
)

func TestNextOrgIDTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT nextval").
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(12)))

	tx, _ := db.BeginTxx(context.Background(), nil)

	id, err := repo.NextOrgIDTx(context.Background(), tx)
	if err != nil {
		t.Fatalf("NextOrgIDTx: %v", err)
	}
	if id != 12 {
		t.Errorf("orgid = %d, want 12", id)
	}
}

func TestInsertTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO registrations").
		WithArgs(int64(3), "acme", "admin", "alice", "alice@example.com", "$2a$10$hash", "open", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, _ := db.BeginTxx(context.Background(), nil)

	reg := &models.Registration{
		OrgID: 3, OrgName: "acme", UserType: "admin", Username: "alice",
		Email: "alice@example.com", Password: "$2a$10$hash", OrgPolicy: "open", ProjectID: 7,
	}
	if err := repo.InsertTx(context.Background(), tx, reg); err != nil {
		t.Fatalf("InsertTx: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByProjectTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM registrations").
		WithArgs(int64(7)).
		WillReturnRows(sampleRegistrationRow("alice").
			AddRow(int64(3), "acme", "user", "bob", "bob@example.com",
				"$2a$10$hash", "open", int64(7), nil, time.Now()))

	tx, _ := db.BeginTxx(context.Background(), nil)

	regs, err := repo.ListByProjectTx(context.Background(), tx, 7)
	if err != nil {
		t.Fatalf("ListByProjectTx: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("len(regs) = %d, want 2", len(regs))
	}
	if regs[1].Username != "bob" {
		t.Errorf("second username = %q, want bob", regs[1].Username)
	}
}

func TestGetByUsername(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT \\* FROM registrations").
		WithArgs("alice").
		WillReturnRows(sampleRegistrationRow("alice"))

	reg, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if reg == nil || reg.Email != "alice@example.com" {
		t.Errorf("reg = %+v, want alice row", reg)
	}
}

func TestGetByUsernameNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT \\* FROM registrations").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(registrationCols))

	reg, err := repo.GetByUsername(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if reg != nil {
		t.Errorf("reg = %+v, want nil", reg)
	}
}

func TestUsernameExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT 1 FROM registrations").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM registrations").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.UsernameExists(context.Background(), "alice")
	if err != nil || !exists {
		t.Errorf("UsernameExists(alice) = (%v, %v), want (true, nil)", exists, err)
	}

	exists, err = repo.UsernameExists(context.Background(), "ghost")
	if err != nil || exists {
		t.Errorf("UsernameExists(ghost) = (%v, %v), want (false, nil)", exists, err)
	}
}

func TestGetToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT token FROM registrations").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow("jwt-value"))

	token, found, err := repo.GetToken(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if !found || !token.Valid || token.String != "jwt-value" {
		t.Errorf("GetToken = (%+v, %v), want jwt-value/found", token, found)
	}
}

func TestGetTokenNeverLoggedIn(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT token FROM registrations").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"token"}).AddRow(nil))

	token, found, err := repo.GetToken(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetToken: %v", err)
	}
	if !found || token.Valid {
		t.Errorf("GetToken = (%+v, %v), want null token with found=true", token, found)
	}
}

func TestUpdateToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectExec("UPDATE registrations SET token").
		WithArgs("alice", "new-jwt").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateToken(context.Background(), "alice", "new-jwt"); err != nil {
		t.Fatalf("UpdateToken: %v", err)
	}
}

func TestGetStoredPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery("SELECT password FROM registrations").
		WithArgs("alice", "acme", "alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"password"}).AddRow("ciphertext"))

	stored, found, err := repo.GetStoredPassword(context.Background(), "alice", "acme", "alice@example.com")
	if err != nil || !found || stored != "ciphertext" {
		t.Errorf("GetStoredPassword = (%q, %v, %v), want (ciphertext, true, nil)", stored, found, err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if !IsUniqueViolation(&pq.Error{Code: "23505"}) {
		t.Error("expected 23505 to be a unique violation")
	}
	if IsUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Error("foreign-key violation misdetected as unique violation")
	}
	if IsUniqueViolation(errors.New("plain error")) {
		t.Error("plain error misdetected as unique violation")
	}
}
