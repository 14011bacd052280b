package response

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ImageURLs accepts both shapes the content repository emits for image
// references: a JSON array of strings or a single whitespace-separated
// string.
type ImageURLs []string

func (u *ImageURLs) UnmarshalJSON(data []byte) error {
	var asSlice []string
	if err := json.Unmarshal(data, &asSlice); err == nil {
		*u = asSlice
		return nil
	}

	var asString string
	if err := json.Unmarshal(data, &asString); err != nil {
		return err
	}
	*u = ImageURLs(strings.Fields(asString))
	return nil
}

type Product struct {
	Attributes ProductAttributes `json:"attributes"`
	ID         int64             `json:"id"`
}

type ProductAttributes struct {
	ProductName   string           `json:"productName"`
	Slug          string           `json:"slug"`
	Details       string           `json:"details"`
	DetailsEn     string           `json:"details_en"`
	Materials     string           `json:"materials"`
	MaterialsEn   string           `json:"materials_en"`
	Color         string           `json:"color"`
	GarmentCare   string           `json:"garmentCare"`
	GarmentCareEn string           `json:"garmentCare_en"`
	ImageUrl      ImageURLs        `json:"imageUrl"`
	Categories    CategoryRelation `json:"categories"`
	Price         decimal.Decimal  `json:"price"`
	Order         int              `json:"order"`
	Active        bool             `json:"active"`
	IsFeatured    bool             `json:"isFeatured"`
}

type CategoryRelation struct {
	Data []CategoryEntry `json:"data"`
}

type CategoryEntry struct {
	Attributes CategoryAttributes `json:"attributes"`
}

type CategoryAttributes struct {
	Slug         string `json:"slug"`
	CategoryName string `json:"categoryName"`
}

type Category struct {
	Attributes CategoryAttributes `json:"attributes"`
	ID         int64              `json:"id"`
}

type Collection struct {
	CollectionName string    `json:"collectionName"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	DescriptionEn  string    `json:"description_en"`
	ImageUrl       ImageURLs `json:"imageUrl"`
	ID             int64     `json:"id"`
	Order          int       `json:"order"`
}

type HomeImage struct {
	HomeImageName string        `json:"homeImageName"`
	Slug          string        `json:"slug"`
	Image         HomeImageFile `json:"image"`
	ID            int64         `json:"id"`
	Order         int           `json:"order"`
	Active        bool          `json:"active"`
}

type HomeImageFile struct {
	URL string `json:"url"`
	ID  int64  `json:"id"`
}
