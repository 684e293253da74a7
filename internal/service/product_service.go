package service

import (
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"

	"github.com/shopspring/decimal"
)

// ProductService catalog product management
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	reviewRepo   repository.ReviewRepository
}

// NewProductService creates the product service
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, reviewRepo repository.ReviewRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		reviewRepo:   reviewRepo,
	}
}

// ProductInput create/update payload
type ProductInput struct {
	CategoryID  uint
	Slug        string
	Name        string
	Description string
	Price       decimal.Decimal
	MRP         decimal.Decimal
	SKU         string
	Images      []string
	ProductType string
	SkinType    string
	Concerns    []string
	Ingredients string
	HowToUse    string
	Stock       int
	IsActive    bool
	IsFeatured  bool
	SortOrder   int
}

// List lists products with filters and pagination
func (s *ProductService) List(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

// Get fetches one product
func (s *ProductService) Get(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// GetBySlug fetches an active product for the public catalog
func (s *ProductService) GetBySlug(slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if !product.IsActive {
		return nil, ErrProductInactive
	}
	return product, nil
}

// Create creates a product
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	count, err := s.productRepo.CountBySlug(input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	product := models.Product{
		CategoryID:  input.CategoryID,
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		Price:       models.NewMoneyFromDecimal(input.Price),
		MRP:         models.NewMoneyFromDecimal(input.MRP),
		SKU:         input.SKU,
		Images:      models.StringArray(input.Images),
		ProductType: input.ProductType,
		SkinType:    input.SkinType,
		Concerns:    models.StringArray(input.Concerns),
		Ingredients: input.Ingredients,
		HowToUse:    input.HowToUse,
		Stock:       input.Stock,
		IsActive:    input.IsActive,
		IsFeatured:  input.IsFeatured,
		SortOrder:   input.SortOrder,
	}
	if err := s.productRepo.Create(&product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Update updates a product
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	category, err := s.categoryRepo.GetByID(input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	count, err := s.productRepo.CountBySlug(input.Slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	product.CategoryID = input.CategoryID
	product.Slug = input.Slug
	product.Name = input.Name
	product.Description = input.Description
	product.Price = models.NewMoneyFromDecimal(input.Price)
	product.MRP = models.NewMoneyFromDecimal(input.MRP)
	product.SKU = input.SKU
	product.Images = models.StringArray(input.Images)
	product.ProductType = input.ProductType
	product.SkinType = input.SkinType
	product.Concerns = models.StringArray(input.Concerns)
	product.Ingredients = input.Ingredients
	product.HowToUse = input.HowToUse
	product.Stock = input.Stock
	product.IsActive = input.IsActive
	product.IsFeatured = input.IsFeatured
	product.SortOrder = input.SortOrder

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product
func (s *ProductService) Delete(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// RefreshRating recomputes and stores a product's rating aggregate from
// its approved reviews
func (s *ProductService) RefreshRating(productID uint) error {
	avg, count, err := s.reviewRepo.AggregateForProduct(productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(productID, avg, int(count))
}
