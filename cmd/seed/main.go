// Command seed loads a small demo catalogue and two accounts into an empty database.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/wichananm65/pharmacy-backend/internal/category"
	"github.com/wichananm65/pharmacy-backend/internal/config"
	"github.com/wichananm65/pharmacy-backend/internal/logger"
	"github.com/wichananm65/pharmacy-backend/internal/manufacturer"
	"github.com/wichananm65/pharmacy-backend/internal/product"
	"github.com/wichananm65/pharmacy-backend/internal/storage"
	"github.com/wichananm65/pharmacy-backend/internal/upload"
	"github.com/wichananm65/pharmacy-backend/internal/user"
)

var seedUsers = []user.User{
	{Name: "Pharmacy Admin", Email: "admin@pharmacy.local", Password: "admin12345", IsAdmin: true},
	{Name: "Demo Customer", Email: "customer@pharmacy.local", Password: "customer12345"},
}

var seedCategories = []string{"Pain Relief", "Vitamins", "Cold and Flu"}

var seedManufacturers = []manufacturer.Manufacturer{
	{Name: "Siam Pharmaceutical", Email: "contact@siampharma.local", Mobile: "0812345678", Address: "12 Rama IV Road, Bangkok"},
	{Name: "Northern Remedies", Email: "sales@northern.local", Mobile: "0898765432", Address: "45 Nimman Road, Chiang Mai"},
}

type seedProduct struct {
	name         string
	manufacturer int
	category     int
	stock        int
	ingredients  []string
	price        string
	description  string
}

var seedProducts = []seedProduct{
	{"Paracetamol 500mg", 0, 0, 200, []string{"paracetamol", "povidone"}, "35.00",
		"Film-coated tablets for the relief of mild to moderate pain and fever."},
	{"Ibuprofen 400mg", 1, 0, 120, []string{"ibuprofen", "croscarmellose"}, "59.50",
		"Anti-inflammatory tablets for headache, dental pain and muscle aches."},
	{"Vitamin C 1000mg", 0, 1, 80, []string{"ascorbic acid", "sodium bicarbonate"}, "250.00",
		"Effervescent vitamin C tablets that dissolve in water, orange flavour."},
	{"Cough Syrup", 1, 2, 40, []string{"dextromethorphan", "guaifenesin"}, "89.00",
		"Syrup that relieves dry and chesty coughs; suitable for adults and teens."},
}

func main() {
	cfg := config.MustLoad()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("seed failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	db, err := storage.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.EnsureSchema(ctx, db); err != nil {
		return err
	}

	users := user.NewService(user.NewPostgresRepository(db), cfg.JWTSecret)
	for _, u := range seedUsers {
		created, err := users.Register(ctx, u)
		if errors.Is(err, user.ErrEmailExists) {
			log.Info("user already present", zap.String("email", u.Email))
			continue
		}
		if err != nil {
			return err
		}
		log.Info("user created", zap.Int("id", created.ID), zap.Bool("admin", created.IsAdmin))
	}

	categoryRepo := category.NewPostgresRepository(db)
	existing, err := categoryRepo.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Info("catalogue already seeded", zap.Int("categories", len(existing)))
		return nil
	}

	categories := category.NewService(categoryRepo)
	categoryIDs := make([]int, 0, len(seedCategories))
	for _, name := range seedCategories {
		c, err := categories.Create(ctx, name)
		if err != nil {
			return err
		}
		categoryIDs = append(categoryIDs, c.ID)
	}

	manufacturerRepo := manufacturer.NewPostgresRepository(db)
	manufacturers := manufacturer.NewService(manufacturerRepo)
	manufacturerIDs := make([]int, 0, len(seedManufacturers))
	for _, m := range seedManufacturers {
		created, err := manufacturers.Create(ctx, m)
		if err != nil {
			return err
		}
		manufacturerIDs = append(manufacturerIDs, created.ID)
	}

	uploads := upload.NewService(upload.NewPostgresRepository(db), int64(cfg.MaxUploadBytes))
	products := product.NewService(product.NewPostgresRepository(db), manufacturerRepo, categoryRepo, uploads)
	for _, sp := range seedProducts {
		price, err := decimal.NewFromString(sp.price)
		if err != nil {
			return err
		}
		p, err := products.Create(ctx, product.Input{
			Name:              sp.name,
			ManufacturerID:    manufacturerIDs[sp.manufacturer],
			CategoryID:        categoryIDs[sp.category],
			NumberInStock:     sp.stock,
			ActiveIngredients: sp.ingredients,
			Price:             price,
			Description:       sp.description,
		})
		if err != nil {
			return err
		}
		log.Info("product created", zap.Int("id", p.ID), zap.String("name", p.Name))
	}
	return nil
}
