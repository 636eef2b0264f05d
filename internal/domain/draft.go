package domain

import "github.com/google/uuid"

// Identity distinguishes a draft for a product that does not exist yet from a
// draft editing a persisted product. Submitting the former inserts, the latter
// replaces. The interface is sealed so the branch is exhaustive at the one
// place that switches on it.
type Identity interface {
	isIdentity()
}

// NewProduct marks a draft with no persisted counterpart.
type NewProduct struct{}

// Existing marks a draft editing the product with the given ID.
type Existing struct {
	ID uuid.UUID
}

func (NewProduct) isIdentity() {}
func (Existing) isIdentity()   {}

// DraftProduct is the in-progress, not-yet-committed edit of a product. It is
// owned by a single editing session and mutated only through the session's
// draft store.
type DraftProduct struct {
	Title       string   `json:"title" validate:"required,min=2"`
	Description string   `json:"description" validate:"required"`
	Stock       int      `json:"stock" validate:"gte=0"`
	Price       float64  `json:"price" validate:"gte=0"`
	Sizes       []Size   `json:"sizes" validate:"dive,oneof=XS S M L XL XXL XXXL"`
	Slug        string   `json:"slug" validate:"required,nospace"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	Category    Category `json:"category" validate:"omitempty,oneof=shirts pants hoodies hats"`
	Audience    Audience `json:"audience" validate:"omitempty,oneof=men women kid unisex"`
}

// DraftFromProduct projects a persisted product into an editable draft.
func DraftFromProduct(p *Product) DraftProduct {
	return DraftProduct{
		Title:       p.Title,
		Description: p.Description,
		Stock:       p.Stock,
		Price:       p.Price,
		Sizes:       slicesClone(p.Sizes),
		Slug:        p.Slug,
		Tags:        slicesClone(p.Tags),
		Images:      slicesClone(p.Images),
		Category:    p.Category,
		Audience:    p.Audience,
	}
}

// ToProduct materializes the draft into a product carrying the given ID.
// Timestamps are owned by the persistence layer.
func (d DraftProduct) ToProduct(id uuid.UUID) *Product {
	return &Product{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Stock:       d.Stock,
		Slug:        d.Slug,
		Sizes:       slicesClone(d.Sizes),
		Tags:        slicesClone(d.Tags),
		Images:      slicesClone(d.Images),
		Category:    d.Category,
		Audience:    d.Audience,
	}
}

// Clone returns a deep copy; snapshots handed to observers must not alias the
// draft's own collections.
func (d DraftProduct) Clone() DraftProduct {
	d.Sizes = slicesClone(d.Sizes)
	d.Tags = slicesClone(d.Tags)
	d.Images = slicesClone(d.Images)
	return d
}

func slicesClone[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
