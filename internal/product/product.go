package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Manufacturer and Category are snapshots embedded in the product record.
type Manufacturer struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Image references an upload.
type Image struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

type Product struct {
	ID                int             `json:"id"`
	Name              string          `json:"name"`
	Manufacturer      Manufacturer    `json:"manufacturer"`
	Category          Category        `json:"category"`
	NumberInStock     int             `json:"numberInStock"`
	ActiveIngredients []string        `json:"activeIngredients"`
	Rate              float64         `json:"rate"`
	Price             decimal.Decimal `json:"price"`
	Description       string          `json:"description"`
	Images            []Image         `json:"images"`
	DateAdded         time.Time       `json:"dateAdded"`
}

// FirstImage returns the primary image, if any.
func (p Product) FirstImage() *Image {
	if len(p.Images) == 0 {
		return nil
	}
	img := p.Images[0]
	return &img
}
