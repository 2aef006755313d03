package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/types"
)

// InstrumentRepository handles persistence for instruments.
type InstrumentRepository struct {
	db *sql.DB
}

func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

const instrumentSelect = `
	SELECT i.id, i.name, i.description, i.price, i.stock,
		i.category_id, c.name, i.brand_id, b.name, i.photo_key,
		i.created_at, i.updated_at
	FROM instruments i
	JOIN categories c ON c.id = i.category_id
	JOIN brands b ON b.id = i.brand_id`

func scanInstrumentRows(rows *sql.Rows, limit int) ([]types.Instrument, error) {
	instruments := make([]types.Instrument, 0, limit)
	for rows.Next() {
		var instrument types.Instrument
		if err := rows.Scan(
			&instrument.ID,
			&instrument.Name,
			&instrument.Description,
			&instrument.Price,
			&instrument.Stock,
			&instrument.CategoryID,
			&instrument.CategoryName,
			&instrument.BrandID,
			&instrument.BrandName,
			&instrument.PhotoKey,
			&instrument.CreatedAt,
			&instrument.UpdatedAt,
		); err != nil {
			return nil, err
		}
		instruments = append(instruments, instrument)
	}
	return instruments, rows.Err()
}

// List returns a page of instruments, optionally filtered. A non-empty
// nameQuery matches names case-insensitively; a non-zero categoryID or
// brandID restricts to that category or brand.
func (r *InstrumentRepository) List(ctx context.Context, filter types.InstrumentFilter, offset, limit int) ([]types.Instrument, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `
		SELECT COUNT(1)
		FROM instruments i
		WHERE ($1 = '' OR i.name ILIKE '%' || $1 || '%')
			AND ($2 = 0 OR i.category_id = $2)
			AND ($3 = 0 OR i.brand_id = $3)`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, filter.NameQuery, filter.CategoryID, filter.BrandID).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = instrumentSelect + `
		WHERE ($1 = '' OR i.name ILIKE '%' || $1 || '%')
			AND ($2 = 0 OR i.category_id = $2)
			AND ($3 = 0 OR i.brand_id = $3)
		ORDER BY i.id
		OFFSET $4 LIMIT $5`
	rows, err := r.db.QueryContext(ctx, listQuery, filter.NameQuery, filter.CategoryID, filter.BrandID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	instruments, err := scanInstrumentRows(rows, limit)
	if err != nil {
		return nil, 0, err
	}
	return instruments, total, nil
}

func (r *InstrumentRepository) Get(ctx context.Context, id int) (types.Instrument, error) {
	const query = instrumentSelect + ` WHERE i.id = $1`
	var instrument types.Instrument
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&instrument.ID,
		&instrument.Name,
		&instrument.Description,
		&instrument.Price,
		&instrument.Stock,
		&instrument.CategoryID,
		&instrument.CategoryName,
		&instrument.BrandID,
		&instrument.BrandName,
		&instrument.PhotoKey,
		&instrument.CreatedAt,
		&instrument.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Instrument{}, ErrNotFound
		}
		return types.Instrument{}, err
	}
	return instrument, nil
}

func (r *InstrumentRepository) Create(ctx context.Context, instrument types.Instrument) (types.Instrument, error) {
	now := time.Now()
	instrument.CreatedAt = now
	instrument.UpdatedAt = now

	const query = `
		INSERT INTO instruments (name, description, price, stock, category_id, brand_id, photo_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		instrument.Name,
		instrument.Description,
		instrument.Price,
		instrument.Stock,
		instrument.CategoryID,
		instrument.BrandID,
		instrument.PhotoKey,
		instrument.CreatedAt,
		instrument.UpdatedAt,
	).Scan(&instrument.ID); err != nil {
		return types.Instrument{}, err
	}
	return instrument, nil
}

func (r *InstrumentRepository) Update(ctx context.Context, instrument types.Instrument) (types.Instrument, error) {
	instrument.UpdatedAt = time.Now()

	const query = `
		UPDATE instruments
		SET name = $1,
			description = $2,
			price = $3,
			stock = $4,
			category_id = $5,
			brand_id = $6,
			updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		instrument.Name,
		instrument.Description,
		instrument.Price,
		instrument.Stock,
		instrument.CategoryID,
		instrument.BrandID,
		instrument.UpdatedAt,
		instrument.ID,
	)
	if err != nil {
		return types.Instrument{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Instrument{}, err
	}
	if affected == 0 {
		return types.Instrument{}, ErrNotFound
	}
	return instrument, nil
}

// SetPhotoKey records the object-storage key of an instrument's photo.
func (r *InstrumentRepository) SetPhotoKey(ctx context.Context, id int, key string) error {
	const query = `UPDATE instruments SET photo_key = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, key, time.Now(), id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InstrumentRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM instruments WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
