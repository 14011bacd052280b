package request

import "github.com/velvetlane/storefront/cart/pkg/store"

type AddItem struct {
	Slug      string `json:"slug"      validate:"required"`
	Name      string `json:"name"      validate:"required"`
	Size      string `json:"size"      validate:"required,oneof=XS S M L XL XXL"`
	Color     string `json:"color"`
	ImageURL  string `json:"imageUrl"`
	ProductID int64  `json:"productId" validate:"required"`
}

func (r AddItem) Line() store.Line {
	return store.Line{
		Slug:      r.Slug,
		Name:      r.Name,
		Size:      r.Size,
		Color:     r.Color,
		ImageURL:  r.ImageURL,
		ProductID: r.ProductID,
	}
}

// LineKey addresses an existing cart line.
type LineKey struct {
	Slug  string `json:"slug" validate:"required"`
	Size  string `json:"size" validate:"required"`
	Color string `json:"color"`
}

func (r LineKey) Key() store.Key {
	return store.Key{Slug: r.Slug, Size: r.Size, Color: r.Color}
}

// UpdateQuantity carries the new quantity for a line. Out of range values
// are not rejected here, the cart leaves the line untouched.
type UpdateQuantity struct {
	Slug     string `json:"slug" validate:"required"`
	Size     string `json:"size" validate:"required"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

func (r UpdateQuantity) Key() store.Key {
	return store.Key{Slug: r.Slug, Size: r.Size, Color: r.Color}
}
