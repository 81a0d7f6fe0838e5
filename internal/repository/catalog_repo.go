package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ticket-hub/internal/domain"
)

// BannerRepository define el contrato de persistencia para banners.
type BannerRepository interface {
	Create(ctx context.Context, banner domain.Banner) (domain.Banner, error)
	GetByID(ctx context.Context, id int64) (domain.Banner, error)
	List(ctx context.Context) ([]domain.Banner, error)
	Update(ctx context.Context, banner domain.Banner) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository define el contrato de persistencia para categorias.
type CategoryRepository interface {
	Create(ctx context.Context, category domain.Category) (domain.Category, error)
	GetByID(ctx context.Context, id int64) (domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category domain.Category) error
	Delete(ctx context.Context, id int64) error
}

// EventRepository define el contrato de persistencia para eventos.
type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	GetByID(ctx context.Context, id int64) (domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) error
	Delete(ctx context.Context, id int64) error
}

// PgBannerRepository implementa BannerRepository usando pgxpool.
type PgBannerRepository struct {
	pool *pgxpool.Pool
}

func NewPgBannerRepository(pool *pgxpool.Pool) *PgBannerRepository {
	return &PgBannerRepository{pool: pool}
}

func (r *PgBannerRepository) Create(ctx context.Context, banner domain.Banner) (domain.Banner, error) {
	const query = `
		INSERT INTO banners (banner_name, banner_image)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, banner.Name, banner.Image).Scan(&banner.ID)
	return banner, err
}

func (r *PgBannerRepository) GetByID(ctx context.Context, id int64) (domain.Banner, error) {
	const query = `SELECT id, banner_name, banner_image FROM banners WHERE id = $1`
	var b domain.Banner
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Image)
	return b, err
}

func (r *PgBannerRepository) List(ctx context.Context) ([]domain.Banner, error) {
	const query = `SELECT id, banner_name, banner_image FROM banners ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []domain.Banner
	for rows.Next() {
		var b domain.Banner
		if err := rows.Scan(&b.ID, &b.Name, &b.Image); err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

func (r *PgBannerRepository) Update(ctx context.Context, banner domain.Banner) error {
	const query = `UPDATE banners SET banner_name = $2, banner_image = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, banner.ID, banner.Name, banner.Image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgBannerRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM banners WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// PgCategoryRepository implementa CategoryRepository usando pgxpool.
type PgCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPgCategoryRepository(pool *pgxpool.Pool) *PgCategoryRepository {
	return &PgCategoryRepository{pool: pool}
}

func (r *PgCategoryRepository) Create(ctx context.Context, category domain.Category) (domain.Category, error) {
	const query = `
		INSERT INTO categories (category_name, category_image)
		VALUES ($1, $2)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query, category.Name, category.Image).Scan(&category.ID)
	return category, err
}

func (r *PgCategoryRepository) GetByID(ctx context.Context, id int64) (domain.Category, error) {
	const query = `SELECT id, category_name, category_image FROM categories WHERE id = $1`
	var c domain.Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Image)
	return c, err
}

func (r *PgCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `SELECT id, category_name, category_image FROM categories ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Image); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PgCategoryRepository) Update(ctx context.Context, category domain.Category) error {
	const query = `UPDATE categories SET category_name = $2, category_image = $3 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, category.ID, category.Name, category.Image)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgCategoryRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM categories WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// PgEventRepository implementa EventRepository usando pgxpool.
type PgEventRepository struct {
	pool *pgxpool.Pool
}

func NewPgEventRepository(pool *pgxpool.Pool) *PgEventRepository {
	return &PgEventRepository{pool: pool}
}

const eventColumns = `
	id, event_name, event_image, event_date, event_time, event_location,
	sale_date, ticket_price, category_id
`

func (r *PgEventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	const query = `
		INSERT INTO events (event_name, event_image, event_date, event_time,
			event_location, sale_date, ticket_price, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		event.Name,
		event.Image,
		event.Date,
		event.Time,
		event.Location,
		event.SaleDate,
		event.TicketPrice,
		event.CategoryID,
	).Scan(&event.ID)
	return event, err
}

func (r *PgEventRepository) GetByID(ctx context.Context, id int64) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	var e domain.Event
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Name,
		&e.Image,
		&e.Date,
		&e.Time,
		&e.Location,
		&e.SaleDate,
		&e.TicketPrice,
		&e.CategoryID,
	)
	return e, err
}

func (r *PgEventRepository) List(ctx context.Context) ([]domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Image,
			&e.Date,
			&e.Time,
			&e.Location,
			&e.SaleDate,
			&e.TicketPrice,
			&e.CategoryID,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *PgEventRepository) Update(ctx context.Context, event domain.Event) error {
	const query = `
		UPDATE events
		SET event_name = $2, event_image = $3, event_date = $4, event_time = $5,
			event_location = $6, sale_date = $7, ticket_price = $8, category_id = $9
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Image,
		event.Date,
		event.Time,
		event.Location,
		event.SaleDate,
		event.TicketPrice,
		event.CategoryID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgEventRepository) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM events WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
