package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/atinyakov/RentVerify/internal/models"
)

const requestColumns = `id, tenant_id, listing_id, property_name, address, status, tenant_name, tenant_email, tenant_phone, move_in_date, employment, refs, documents, notes, history, created_at, submitted_at, updated_at`

const (
	insertRequestQuery = `INSERT INTO verification_requests (` + requestColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	listRequestsQuery = `SELECT ` + requestColumns + ` FROM verification_requests WHERE deleted = false AND ($1 = '' OR tenant_id = $1) AND (cardinality($2::text[]) = 0 OR status = ANY($2)) ORDER BY created_at, id`

	getRequestQuery = `SELECT ` + requestColumns + ` FROM verification_requests WHERE id = $1 AND deleted = false`

	lockRequestQuery = getRequestQuery + ` FOR UPDATE`

	updateRequestQuery = `UPDATE verification_requests SET listing_id = $2, property_name = $3, address = $4, tenant_name = $5, tenant_email = $6, tenant_phone = $7, move_in_date = $8, employment = $9, refs = $10, documents = $11, notes = $12, updated_at = $13 WHERE id = $1`

	deleteRequestQuery = `UPDATE verification_requests SET deleted = true, deleted_at = $2 WHERE id = $1 AND deleted = false`

	setStatusQuery = `UPDATE verification_requests SET status = $2, notes = notes || $3, history = history || $4::jsonb, updated_at = $5 WHERE id = $1 AND deleted = false RETURNING ` + requestColumns
)

// PostgresRequestRepository stores verification requests in PostgreSQL.
// Deleted rows are only flagged; db.StartSoftDeleteCleaner purges them.
type PostgresRequestRepository struct {
	DB *sql.DB
}

// NewPostgresRequestRepository creates a repository over db.
func NewPostgresRequestRepository(db *sql.DB) *PostgresRequestRepository {
	return &PostgresRequestRepository{DB: db}
}

// Create inserts req.
func (r *PostgresRequestRepository) Create(ctx context.Context, req *models.VerificationRequest) (*models.VerificationRequest, error) {
	enc, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	_, err = r.DB.ExecContext(ctx, insertRequestQuery,
		req.ID, req.TenantID, req.ListingID, req.PropertyName, req.Address, string(req.Status),
		req.TenantName, req.TenantEmail, req.TenantPhone, req.MoveInDate,
		enc.employment, enc.references, enc.documents, req.Notes, enc.history,
		req.CreatedAt, req.SubmittedAt, req.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert request: %w", err)
	}
	return req.Clone(), nil
}

// List returns live requests matching filter, oldest first.
func (r *PostgresRequestRepository) List(ctx context.Context, filter models.RequestFilter) ([]*models.VerificationRequest, error) {
	statuses := make([]string, 0, len(filter.Statuses))
	for _, s := range filter.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.DB.QueryContext(ctx, listRequestsQuery, filter.TenantID, pq.Array(statuses))
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []*models.VerificationRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// Get returns the live request with id.
func (r *PostgresRequestRepository) Get(ctx context.Context, id string) (*models.VerificationRequest, error) {
	return scanRequest(r.DB.QueryRowContext(ctx, getRequestQuery, id))
}

// Update locks the row, merges patch and writes it back in one transaction.
func (r *PostgresRequestRepository) Update(ctx context.Context, id string, patch models.RequestPatch) (*models.VerificationRequest, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	req, err := scanRequest(tx.QueryRowContext(ctx, lockRequestQuery, id))
	if err != nil {
		return nil, err
	}
	patch.Apply(req)
	req.UpdatedAt = time.Now().UTC()

	enc, err := encodeRequest(req)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, updateRequestQuery,
		req.ID, req.ListingID, req.PropertyName, req.Address,
		req.TenantName, req.TenantEmail, req.TenantPhone, req.MoveInDate,
		enc.employment, enc.references, enc.documents, req.Notes, req.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("update request: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return req, nil
}

// Delete soft-deletes the request so that no view returns it any more.
func (r *PostgresRequestRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, deleteRequestQuery, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStatus updates status, notes and history in a single statement.
func (r *PostgresRequestRepository) SetStatus(ctx context.Context, id string, status models.Status, note string, entry models.HistoryEntry) (*models.VerificationRequest, error) {
	h, err := json.Marshal([]models.HistoryEntry{entry})
	if err != nil {
		return nil, fmt.Errorf("encode history: %w", err)
	}
	row := r.DB.QueryRowContext(ctx, setStatusQuery, id, string(status), note, h, entry.At)
	return scanRequest(row)
}

type encodedRequest struct {
	employment []byte
	references []byte
	documents  []byte
	history    []byte
}

func encodeRequest(req *models.VerificationRequest) (encodedRequest, error) {
	var (
		enc encodedRequest
		err error
	)
	refs := req.References
	if refs == nil {
		refs = []models.Reference{}
	}
	docs := req.Documents
	if docs == nil {
		docs = []models.Document{}
	}
	hist := req.History
	if hist == nil {
		hist = []models.HistoryEntry{}
	}
	if enc.employment, err = json.Marshal(req.Employment); err != nil {
		return enc, fmt.Errorf("encode employment: %w", err)
	}
	if enc.references, err = json.Marshal(refs); err != nil {
		return enc, fmt.Errorf("encode references: %w", err)
	}
	if enc.documents, err = json.Marshal(docs); err != nil {
		return enc, fmt.Errorf("encode documents: %w", err)
	}
	if enc.history, err = json.Marshal(hist); err != nil {
		return enc, fmt.Errorf("encode history: %w", err)
	}
	return enc, nil
}

func scanRequest(row rowScanner) (*models.VerificationRequest, error) {
	var (
		req                          models.VerificationRequest
		status                       string
		employment, refs, docs, hist []byte
	)
	err := row.Scan(
		&req.ID, &req.TenantID, &req.ListingID, &req.PropertyName, &req.Address, &status,
		&req.TenantName, &req.TenantEmail, &req.TenantPhone, &req.MoveInDate,
		&employment, &refs, &docs, &req.Notes, &hist,
		&req.CreatedAt, &req.SubmittedAt, &req.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan request: %w", err)
	}
	req.Status = models.Status(status)

	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{employment, &req.Employment},
		{refs, &req.References},
		{docs, &req.Documents},
		{hist, &req.History},
	} {
		if len(f.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode request %s: %w", req.ID, err)
		}
	}
	return &req, nil
}
