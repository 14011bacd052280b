package request

import (
	"encoding/json"

	storeErrors "github.com/velvetlane/storefront/internal/errors"
)

// Product is one submitted order line.
type Product struct {
	Name     string `json:"name,omitempty"`
	Size     string `json:"size,omitempty"`
	Color    string `json:"color,omitempty"`
	ID       int64  `json:"id"`
	Quantity int    `json:"quantity"`
}

type Submission struct {
	Products []Product `json:"products"`
}

// ParseSubmission validates an inbound order body. The payload may be the
// submission itself or wrapped in a { data: ... } envelope. Each rejection
// carries its own message, callers return it to the client verbatim.
func ParseSubmission(body []byte) (Submission, error) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Submission{}, storeErrors.ErrPayloadNotObject
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return Submission{}, storeErrors.ErrPayloadNotObject
	}
	if wrapped, found := object["data"]; found {
		object, ok = wrapped.(map[string]any)
		if !ok {
			return Submission{}, storeErrors.ErrPayloadNotObject
		}
	}

	rawProducts, ok := object["products"].([]any)
	if !ok || len(rawProducts) == 0 {
		return Submission{}, storeErrors.ErrNoProducts
	}

	submission := Submission{Products: make([]Product, 0, len(rawProducts))}
	for _, rawProduct := range rawProducts {
		entry, ok := rawProduct.(map[string]any)
		if !ok {
			return Submission{}, storeErrors.ErrInvalidProduct
		}

		id, ok := entry["id"].(float64)
		if !ok {
			return Submission{}, storeErrors.ErrInvalidProduct
		}

		quantity := 1
		if rawQuantity, found := entry["quantity"]; found {
			numeric, ok := rawQuantity.(float64)
			if !ok {
				return Submission{}, storeErrors.ErrInvalidProduct
			}
			quantity = int(numeric)
		}

		product := Product{ID: int64(id), Quantity: quantity}
		product.Name, _ = entry["name"].(string)
		product.Size, _ = entry["size"].(string)
		product.Color, _ = entry["color"].(string)
		submission.Products = append(submission.Products, product)
	}

	return submission, nil
}
