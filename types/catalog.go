package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Brand is an instrument manufacturer. Names are unique.
type Brand struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Country   string    `json:"country" db:"country"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Category groups instruments (e.g. "Guitars"). Names are unique.
type Category struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// InstrumentFilter narrows instrument listings. Zero values mean
// "no filter" for each field.
type InstrumentFilter struct {
	NameQuery  string
	CategoryID int
	BrandID    int
}

// Instrument is a sellable catalog item.
type Instrument struct {
	// ID is the unique identifier of the instrument.
	ID int `json:"id" db:"id"`

	// Name is the display name of the instrument.
	Name string `json:"name" db:"name"`

	// Description is optional free text.
	Description string `json:"description" db:"description"`

	// Price is the current unit price. Stored as NUMERIC; decimal.Decimal
	// keeps order totals exact.
	Price decimal.Decimal `json:"price" db:"price"`

	// Stock is the units available for sale. Never negative; order
	// placement decrements it under a row lock.
	Stock int `json:"stock" db:"stock"`

	// CategoryID and BrandID reference the owning category and brand.
	CategoryID int `json:"category_id" db:"category_id"`
	BrandID    int `json:"brand_id" db:"brand_id"`

	// CategoryName and BrandName are denormalized on reads for API
	// responses; they are not columns of the instruments table.
	CategoryName string `json:"category_name,omitempty" db:"-"`
	BrandName    string `json:"brand_name,omitempty" db:"-"`

	// PhotoKey is the object-storage key of the instrument photo,
	// empty when no photo has been uploaded.
	PhotoKey string `json:"photo_key,omitempty" db:"photo_key"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
