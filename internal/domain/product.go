package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Size is a garment size from the closed catalog vocabulary.
type Size string

const (
	SizeXS  Size = "XS"
	SizeS   Size = "S"
	SizeM   Size = "M"
	SizeL   Size = "L"
	SizeXL  Size = "XL"
	SizeXXL Size = "XXL"
	Size3XL Size = "XXXL"
)

// Category is a product category from the closed catalog vocabulary.
type Category string

const (
	CategoryShirts  Category = "shirts"
	CategoryPants   Category = "pants"
	CategoryHoodies Category = "hoodies"
	CategoryHats    Category = "hats"
)

// Audience is the target group a product is sold to.
type Audience string

const (
	AudienceMen    Audience = "men"
	AudienceWomen  Audience = "women"
	AudienceKid    Audience = "kid"
	AudienceUnisex Audience = "unisex"
)

// Sizes, Categories and Audiences are the exhaustive choices the admin UI renders.
var (
	Sizes      = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL, SizeXXL, Size3XL}
	Categories = []Category{CategoryShirts, CategoryPants, CategoryHoodies, CategoryHats}
	Audiences  = []Audience{AudienceMen, AudienceWomen, AudienceKid, AudienceUnisex}
)

func (s Size) Valid() bool     { return slices.Contains(Sizes, s) }
func (c Category) Valid() bool { return slices.Contains(Categories, c) }
func (a Audience) Valid() bool { return slices.Contains(Audiences, a) }

// Product is a persisted catalog entry.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	Slug        string    `json:"slug" db:"slug"`
	Sizes       []Size    `json:"sizes" db:"sizes"`
	Tags        []string  `json:"tags" db:"tags"`
	Images      []string  `json:"images" db:"images"`
	Category    Category  `json:"category" db:"category"`
	Audience    Audience  `json:"audience" db:"audience"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
