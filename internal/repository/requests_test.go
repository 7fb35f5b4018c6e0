package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/atinyakov/RentVerify/internal/models"
)

func setupRequestMock(t *testing.T) (*PostgresRequestRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	return NewPostgresRequestRepository(db), mock, func() { db.Close() }
}

func requestRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "listing_id", "property_name", "address", "status",
		"tenant_name", "tenant_email", "tenant_phone", "move_in_date",
		"employment", "refs", "documents", "notes", "history",
		"created_at", "submitted_at", "updated_at",
	})
}

func addRequestRow(rows *sqlmock.Rows, id, tenant, status, notes string, at time.Time) *sqlmock.Rows {
	return rows.AddRow(
		id, tenant, "1", "Modern 2BHK", "123 Main Street", status,
		"Rahul", "tenant@example.com", "9876543220", "2024-02-01",
		[]byte(`{"employerName":"Tech Corp","monthlyIncome":120000}`),
		[]byte(`[{"name":"Amit","phone":"9876500001","email":"amit@example.com"}]`),
		[]byte(`[{"name":"ID Proof","url":"/id.pdf"}]`),
		notes,
		[]byte(`[]`),
		at, at, at,
	)
}

func TestPostgresRequestRepository_Create(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	now := time.Now().UTC()
	req := &models.VerificationRequest{ID: "req-1", TenantID: "t1", ListingID: "1", Status: models.StatusSubmitted, CreatedAt: now, SubmittedAt: now, UpdatedAt: now}

	args := []driver.Value{"req-1", "t1", "1", "", "", "submitted", "", "", "", "",
		sqlmock.AnyArg(), []byte(`[]`), []byte(`[]`), "", []byte(`[]`), now, now, now}
	mock.ExpectExec(regexp.QuoteMeta(insertRequestQuery)).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := repo.Create(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRequestRepository_CreateDuplicate(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertRequestQuery)).
		WillReturnError(&pq.Error{Code: uniqueViolation})

	_, err := repo.Create(context.Background(), &models.VerificationRequest{ID: "req-1"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPostgresRequestRepository_ListFiltersByTenantAndStatus(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(listRequestsQuery)).
		WithArgs("t1", pq.Array([]string{"submitted"})).
		WillReturnRows(addRequestRow(requestRows(), "req-1", "t1", "submitted", "", at))

	got, err := repo.List(context.Background(), models.RequestFilter{TenantID: "t1", Statuses: []models.Status{models.StatusSubmitted}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 request, got %d", len(got))
	}
	if got[0].Employment.EmployerName != "Tech Corp" || len(got[0].References) != 1 || len(got[0].Documents) != 1 {
		t.Errorf("json columns not decoded: %+v", got[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRequestRepository_GetNotFound(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(getRequestQuery)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostgresRequestRepository_UpdateInTransaction(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	at := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockRequestQuery)).
		WithArgs("req-1").
		WillReturnRows(addRequestRow(requestRows(), "req-1", "t1", "submitted", "", at))
	mock.ExpectExec(regexp.QuoteMeta(updateRequestQuery)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	date := "2024-03-01"
	got, err := repo.Update(context.Background(), "req-1", models.RequestPatch{MoveInDate: &date})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MoveInDate != date || got.PropertyName != "Modern 2BHK" {
		t.Errorf("unexpected merge result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRequestRepository_UpdateMissingRollsBack(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockRequestQuery)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Update(context.Background(), "missing", models.RequestPatch{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRequestRepository_Delete(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteRequestQuery)).
		WithArgs("req-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteRequestQuery)).
		WithArgs("req-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "req-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Delete(context.Background(), "req-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresRequestRepository_SetStatus(t *testing.T) {
	repo, mock, cleanup := setupRequestMock(t)
	defer cleanup()

	at := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	note := "\nRejection reason: income too low"
	mock.ExpectQuery(regexp.QuoteMeta(setStatusQuery)).
		WithArgs("req-1", "rejected", note, sqlmock.AnyArg(), at).
		WillReturnRows(addRequestRow(requestRows(), "req-1", "t1", "rejected", note, at))

	got, err := repo.SetStatus(context.Background(), "req-1", models.StatusRejected, note,
		models.HistoryEntry{At: at, Actor: "l1", Action: "reject", Message: "income too low"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != models.StatusRejected || got.Notes != note {
		t.Errorf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
