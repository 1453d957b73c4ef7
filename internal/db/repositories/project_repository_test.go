package repositories

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

func TestProjectCreateTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO projects").
		WithArgs("supply-chain", sql.NullString{String: "urn:gs1:org:1", Valid: true}).
		WillReturnRows(sqlmock.NewRows([]string{"projectid"}).AddRow(int64(7)))

	tx, err := db.BeginTxx(context.Background(), nil)
	if err != nil {
		t.Fatalf("BeginTxx: %v", err)
	}

	id, err := repo.CreateTx(context.Background(), tx, "supply-chain",
		sql.NullString{String: "urn:gs1:org:1", Valid: true})
	if err != nil {
		t.Fatalf("CreateTx: %v", err)
	}
	if id != 7 {
		t.Errorf("id = %d, want 7", id)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProjectGetTxNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM projects").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(projectCols))

	tx, _ := db.BeginTxx(context.Background(), nil)

	project, err := repo.GetTx(context.Background(), tx, 99)
	if err != nil {
		t.Fatalf("GetTx: %v", err)
	}
	if project != nil {
		t.Errorf("project = %+v, want nil", project)
	}
}

func TestProjectSetNetworkTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE projects").
		WithArgs(int64(7), "a1b2c3d4", "https://docs.example.com/7").
		WillReturnResult(sqlmock.NewResult(0, 1))

	tx, _ := db.BeginTxx(context.Background(), nil)

	if err := repo.SetNetworkTx(context.Background(), tx, 7, "a1b2c3d4", "https://docs.example.com/7"); err != nil {
		t.Fatalf("SetNetworkTx: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestProjectGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectQuery("SELECT \\* FROM projects").
		WithArgs(int64(7)).
		WillReturnRows(sampleProjectRow())

	project, err := repo.GetByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if project == nil {
		t.Fatal("project = nil, want row")
	}
	if project.Name != "supply-chain" {
		t.Errorf("name = %q, want supply-chain", project.Name)
	}
	if !project.Provisioned() {
		t.Error("Provisioned() = false, want true")
	}
}
