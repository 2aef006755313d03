package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Petroslyros/musical-instrument-shop/types"
)

// BrandRepository handles persistence for brands.
type BrandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) List(ctx context.Context, offset, limit int) ([]types.Brand, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit < 1 {
		limit = 20
	}

	const countQuery = `SELECT COUNT(1) FROM brands`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, err
	}

	const listQuery = `
		SELECT id, name, country, created_at, updated_at
		FROM brands
		ORDER BY id
		OFFSET $1 LIMIT $2`
	rows, err := r.db.QueryContext(ctx, listQuery, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	brands := make([]types.Brand, 0, limit)
	for rows.Next() {
		var brand types.Brand
		if err := rows.Scan(&brand.ID, &brand.Name, &brand.Country, &brand.CreatedAt, &brand.UpdatedAt); err != nil {
			return nil, 0, err
		}
		brands = append(brands, brand)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return brands, total, nil
}

func (r *BrandRepository) Get(ctx context.Context, id int) (types.Brand, error) {
	const query = `
		SELECT id, name, country, created_at, updated_at
		FROM brands
		WHERE id = $1`
	var brand types.Brand
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&brand.ID,
		&brand.Name,
		&brand.Country,
		&brand.CreatedAt,
		&brand.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Brand{}, ErrNotFound
		}
		return types.Brand{}, err
	}
	return brand, nil
}

func (r *BrandRepository) ExistsByID(ctx context.Context, id int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM brands WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BrandRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM brands WHERE name = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *BrandRepository) Create(ctx context.Context, brand types.Brand) (types.Brand, error) {
	now := time.Now()
	brand.CreatedAt = now
	brand.UpdatedAt = now

	const query = `
		INSERT INTO brands (name, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		brand.Name,
		brand.Country,
		brand.CreatedAt,
		brand.UpdatedAt,
	).Scan(&brand.ID); err != nil {
		return types.Brand{}, err
	}
	return brand, nil
}

func (r *BrandRepository) Update(ctx context.Context, brand types.Brand) (types.Brand, error) {
	brand.UpdatedAt = time.Now()

	const query = `
		UPDATE brands
		SET name = $1,
			country = $2,
			updated_at = $3
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query, brand.Name, brand.Country, brand.UpdatedAt, brand.ID)
	if err != nil {
		return types.Brand{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Brand{}, err
	}
	if affected == 0 {
		return types.Brand{}, ErrNotFound
	}
	return brand, nil
}

func (r *BrandRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM brands WHERE id = $1`
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
