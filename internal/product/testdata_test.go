package product

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wichananm65/pharmacy-backend/internal/category"
	"github.com/wichananm65/pharmacy-backend/internal/manufacturer"
	"github.com/wichananm65/pharmacy-backend/internal/upload"
)

const longDescription = "Fast acting relief for headaches, toothache and muscle pain in adults."

func sampleProduct(id int, name string, stock int) Product {
	return Product{
		ID:                id,
		Name:              name,
		Manufacturer:      Manufacturer{ID: 1, Name: "Acme Pharma", Email: "info@acme.com"},
		Category:          Category{ID: 1, Name: "Painkillers"},
		NumberInStock:     stock,
		ActiveIngredients: []string{"Ibuprofen", "Caffeine"},
		Price:             decimal.NewFromInt(15),
		Description:       longDescription,
		DateAdded:         time.Date(2024, 1, id, 0, 0, 0, 0, time.UTC),
	}
}

type fixture struct {
	repo    *InMemoryRepository
	uploads *upload.InMemoryRepository
	service *Service
	image   upload.Upload
}

func newFixture(products ...Product) fixture {
	manufacturers := manufacturer.NewInMemoryRepository([]manufacturer.Manufacturer{
		{ID: 1, Name: "Acme Pharma", Email: "info@acme.com", Mobile: "0123456789", Address: "1 Main Street"},
	})
	categories := category.NewInMemoryRepository([]category.Category{{ID: 1, Name: "Painkillers"}, {ID: 2, Name: "Vitamins"}})
	uploads := upload.NewInMemoryRepository()
	img, _ := uploads.Save(context.Background(), upload.Upload{
		ID:          "2b1c6a8e-0d0e-4a51-9a7e-3f9c1a3e5b10",
		Filename:    "3f9c1a3e5b10.png",
		ContentType: "image/png",
	}, []byte("png"))

	repo := NewInMemoryRepository(products)
	return fixture{
		repo:    repo,
		uploads: uploads,
		service: NewService(repo, manufacturers, categories, upload.NewService(uploads, 0)),
		image:   img,
	}
}
