package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ticket-hub/internal/domain"
)

// OrderRepository define el contrato de persistencia para ordenes.
type OrderRepository interface {
	Create(ctx context.Context, order domain.Order) (domain.Order, error)
	GetByID(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	Update(ctx context.Context, order domain.Order) error
	Delete(ctx context.Context, id int64) error
}

// PgOrderRepository implementa OrderRepository usando pgxpool.
type PgOrderRepository struct {
	pool *pgxpool.Pool
}

func NewPgOrderRepository(pool *pgxpool.Pool) *PgOrderRepository {
	return &PgOrderRepository{pool: pool}
}

func (r *PgOrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	const query = `
		INSERT INTO orders (customer_id, event_id)
		VALUES ($1, $2)
		RETURNING id, order_time
	`
	err := r.pool.QueryRow(ctx, query, order.CustomerID, order.EventID).
		Scan(&order.ID, &order.OrderTime)
	return order, err
}

func (r *PgOrderRepository) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	const query = `
		SELECT id, order_time, customer_id, event_id
		FROM orders
		WHERE id = $1
	`
	var o domain.Order
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.OrderTime,
		&o.CustomerID,
		&o.EventID,
	)
	return o, err
}

func (r *PgOrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	const query = `
		SELECT id, order_time, customer_id, event_id
		FROM orders
		ORDER BY order_time DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PgOrderRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	const query = `
		SELECT id, order_time, customer_id, event_id
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_time DESC
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (r *PgOrderRepository) Update(ctx context.Context, order domain.Order) error {
	const query = `UPDATE orders SET customer_id = $2, event_id = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, order.ID, order.CustomerID, order.EventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgOrderRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM orders WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.OrderTime, &o.CustomerID, &o.EventID); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
