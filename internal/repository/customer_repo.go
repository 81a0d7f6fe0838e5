package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ticket-hub/internal/domain"
)

// CustomerRepository define el contrato de persistencia para cuentas.
type CustomerRepository interface {
	Create(ctx context.Context, customer domain.Customer) error
	GetByID(ctx context.Context, id string) (domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	UpdateProfile(ctx context.Context, id, email, name string) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetOTP(ctx context.Context, id, otpHash string, expiresAt time.Time, intent domain.OTPIntent) error
	// ConsumeOTPVerify marca la cuenta como verificada y activa, y limpia el
	// slot OTP en un solo UPDATE condicionado al hash vigente. Devuelve false
	// si el codigo ya fue consumido o pisado por otra request.
	ConsumeOTPVerify(ctx context.Context, id, otpHash string) (bool, error)
	// ConsumeOTPSetPassword reescribe el hash de password y limpia el slot
	// OTP bajo la misma condicion compare-and-swap.
	ConsumeOTPSetPassword(ctx context.Context, id, otpHash, passwordHash string) (bool, error)
}

// PgCustomerRepository implementa CustomerRepository usando pgxpool.
type PgCustomerRepository struct {
	pool *pgxpool.Pool
}

func NewPgCustomerRepository(pool *pgxpool.Pool) *PgCustomerRepository {
	return &PgCustomerRepository{pool: pool}
}

const customerColumns = `
	id, email, name, password_hash, is_active, is_staff, is_superuser,
	email_verified, COALESCE(otp_hash, ''), otp_expires_at,
	COALESCE(otp_intent, ''), created_at
`

func scanCustomer(row pgx.Row) (domain.Customer, error) {
	var c domain.Customer
	var intent string
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.Name,
		&c.PasswordHash,
		&c.IsActive,
		&c.IsStaff,
		&c.IsSuperuser,
		&c.EmailVerified,
		&c.OTPHash,
		&c.OTPExpiresAt,
		&intent,
		&c.CreatedAt,
	)
	c.OTPIntent = domain.OTPIntent(intent)
	return c, err
}

func (r *PgCustomerRepository) Create(ctx context.Context, customer domain.Customer) error {
	const query = `
		INSERT INTO customers (id, email, name, password_hash, is_active,
			is_staff, is_superuser, email_verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		customer.ID,
		customer.Email,
		customer.Name,
		customer.PasswordHash,
		customer.IsActive,
		customer.IsStaff,
		customer.IsSuperuser,
		customer.EmailVerified,
		customer.CreatedAt,
	)
	return err
}

func (r *PgCustomerRepository) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

func (r *PgCustomerRepository) GetByEmail(ctx context.Context, email string) (domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	return scanCustomer(r.pool.QueryRow(ctx, query, email))
}

func (r *PgCustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	const query = `SELECT ` + customerColumns + ` FROM customers ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (r *PgCustomerRepository) UpdateProfile(ctx context.Context, id, email, name string) error {
	const query = `UPDATE customers SET email = $2, name = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, email, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCustomerRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const query = `UPDATE customers SET password_hash = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCustomerRepository) SetOTP(ctx context.Context, id, otpHash string, expiresAt time.Time, intent domain.OTPIntent) error {
	const query = `
		UPDATE customers
		SET otp_hash = $2, otp_expires_at = $3, otp_intent = $4
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, otpHash, expiresAt, string(intent))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCustomerRepository) ConsumeOTPVerify(ctx context.Context, id, otpHash string) (bool, error) {
	const query = `
		UPDATE customers
		SET email_verified = TRUE, is_active = TRUE,
			otp_hash = NULL, otp_expires_at = NULL, otp_intent = NULL
		WHERE id = $1 AND otp_hash = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, otpHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgCustomerRepository) ConsumeOTPSetPassword(ctx context.Context, id, otpHash, passwordHash string) (bool, error) {
	const query = `
		UPDATE customers
		SET password_hash = $3,
			otp_hash = NULL, otp_expires_at = NULL, otp_intent = NULL
		WHERE id = $1 AND otp_hash = $2
	`
	tag, err := r.pool.Exec(ctx, query, id, otpHash, passwordHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
