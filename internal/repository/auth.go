package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/atinyakov/RentVerify/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique constraint breach.
const uniqueViolation = "23505"

const (
	insertUserQuery = `INSERT INTO users (id, name, email, phone, role, password_hash, address, bio, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	selectUserQuery = `SELECT id, name, email, phone, role, password_hash, address, bio, created_at FROM users`
	updateUserQuery = `UPDATE users SET name = $2, email = $3, phone = $4, address = $5, bio = $6 WHERE id = $1`
)

// PostgresUserRepository stores accounts in PostgreSQL.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// CreateUser inserts u. A taken email is reported as ErrDuplicate.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u *models.User) error {
	_, err := r.DB.ExecContext(ctx, insertUserQuery,
		u.ID, u.Name, strings.ToLower(u.Email), u.Phone, string(u.Role),
		u.PasswordHash, u.Address, u.Bio, u.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// GetUserByEmail looks an account up by email, case-insensitively.
func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, selectUserQuery+` WHERE email = $1`, strings.ToLower(email))
	return scanUser(row)
}

// GetUserByID looks an account up by id.
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	row := r.DB.QueryRowContext(ctx, selectUserQuery+` WHERE id = $1`, id)
	return scanUser(row)
}

// UpdateUser writes the editable profile fields of u.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx, updateUserQuery,
		u.ID, u.Name, strings.ToLower(u.Email), u.Phone, u.Address, u.Bio,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		role string
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &u.PasswordHash, &u.Address, &u.Bio, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.Role = models.Role(role)
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
