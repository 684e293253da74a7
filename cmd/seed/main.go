package main

import (
	"github.com/glowmart/glowmart-api/internal/config"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	categories := []models.Category{
		{Slug: "cleansers", Name: "Cleansers", Description: "Face washes and cleansing balms", SortOrder: 1},
		{Slug: "moisturizers", Name: "Moisturizers", Description: "Day and night creams, gels and lotions", SortOrder: 2},
		{Slug: "serums", Name: "Serums", Description: "Active-led treatment serums", SortOrder: 3},
		{Slug: "sunscreens", Name: "Sunscreens", Description: "Broad spectrum SPF for Indian weather", SortOrder: 4},
	}
	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"cleansers", "moisturizers", "serums", "sunscreens"}).Find(&categoryList).Error; err != nil {
		stdLog.Fatalf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}

	products := []models.Product{
		{
			CategoryID:  categoryIDs["cleansers"],
			Slug:        "gentle-foaming-face-wash",
			Name:        "Gentle Foaming Face Wash",
			Description: "Sulphate-free daily cleanser with green tea and niacinamide.",
			Price:       models.NewMoneyFromFloat(349),
			MRP:         models.NewMoneyFromFloat(399),
			SKU:         "GM-CL-001",
			ProductType: "cleanser",
			SkinType:    "all",
			Concerns:    models.StringArray{"dullness", "oil-control"},
			Ingredients: "Green tea extract, niacinamide, glycerin",
			HowToUse:    "Massage onto damp skin morning and night, rinse well.",
			Stock:       200,
			IsFeatured:  true,
			SortOrder:   1,
		},
		{
			CategoryID:  categoryIDs["moisturizers"],
			Slug:        "ceramide-barrier-cream",
			Name:        "Ceramide Barrier Repair Cream",
			Description: "Rich cream with ceramides and hyaluronic acid for dry, stressed skin.",
			Price:       models.NewMoneyFromFloat(599),
			MRP:         models.NewMoneyFromFloat(699),
			SKU:         "GM-MO-001",
			ProductType: "moisturizer",
			SkinType:    "dry",
			Concerns:    models.StringArray{"dryness", "barrier-repair"},
			Ingredients: "Ceramide NP, hyaluronic acid, shea butter",
			HowToUse:    "Apply on cleansed skin as the last step of your routine.",
			Stock:       150,
			SortOrder:   2,
		},
		{
			CategoryID:  categoryIDs["serums"],
			Slug:        "vitamin-c-glow-serum",
			Name:        "10% Vitamin C Glow Serum",
			Description: "Stabilised ethyl ascorbic acid serum for brighter, even-toned skin.",
			Price:       models.NewMoneyFromFloat(799),
			MRP:         models.NewMoneyFromFloat(899),
			SKU:         "GM-SE-001",
			ProductType: "serum",
			SkinType:    "all",
			Concerns:    models.StringArray{"pigmentation", "dullness"},
			Ingredients: "Ethyl ascorbic acid 10%, vitamin E, ferulic acid",
			HowToUse:    "Use 3-4 drops every morning before sunscreen.",
			Stock:       120,
			IsFeatured:  true,
			SortOrder:   3,
		},
		{
			CategoryID:  categoryIDs["sunscreens"],
			Slug:        "spf50-invisible-sunscreen",
			Name:        "SPF 50 PA++++ Invisible Sunscreen",
			Description: "Lightweight hybrid sunscreen with no white cast.",
			Price:       models.NewMoneyFromFloat(499),
			MRP:         models.NewMoneyFromFloat(549),
			SKU:         "GM-SU-001",
			ProductType: "sunscreen",
			SkinType:    "all",
			Concerns:    models.StringArray{"sun-protection"},
			Ingredients: "Uvinul A Plus, Tinosorb S, niacinamide",
			HowToUse:    "Apply two finger lengths 15 minutes before sun exposure.",
			Stock:       300,
			IsFeatured:  true,
			SortOrder:   4,
		},
	}
	for _, product := range products {
		if product.CategoryID == 0 {
			stdLog.Printf("Skipping product %s: category missing", product.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	// Cosmetics attract 18% GST; keep a 12% rate around for ayurvedic lines.
	gstRates := []models.GSTRate{
		{Name: "GST 18", Description: "Standard rate for cosmetics", Percentage: 18, IsActive: true},
		{Name: "GST 12", Description: "Reduced rate for ayurvedic products", Percentage: 12, IsActive: false},
	}
	for _, rate := range gstRates {
		var existing models.GSTRate
		if err := models.DB.Where("name = ?", rate.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&rate).Error; err != nil {
				stdLog.Printf("Failed to create GST rate %s: %v", rate.Name, err)
			} else {
				stdLog.Printf("Created GST rate: %s (%.0f%%)", rate.Name, rate.Percentage)
			}
		} else {
			stdLog.Printf("GST rate already exists: %s", rate.Name)
		}
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	stdLog.Printf("Seed completed")
}
