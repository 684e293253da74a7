package service

import (
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"
)

// CategoryService category management
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService creates the category service
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput create/update payload
type CategoryInput struct {
	Slug        string
	Name        string
	Description string
	ImageURL    string
	IsActive    bool
	SortOrder   int
}

// List lists categories; onlyActive hides disabled ones for the public
// catalog
func (s *CategoryService) List(onlyActive bool) ([]models.Category, error) {
	return s.repo.List(onlyActive)
}

// Get fetches one category
func (s *CategoryService) Get(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create creates a category
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	count, err := s.repo.CountBySlug(input.Slug, nil)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	category := models.Category{
		Slug:        input.Slug,
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive,
		SortOrder:   input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update updates a category
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	count, err := s.repo.CountBySlug(input.Slug, &id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugTaken
	}

	category.Slug = input.Slug
	category.Name = input.Name
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	category.IsActive = input.IsActive
	category.SortOrder = input.SortOrder

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category; blocked while products still reference it
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	products, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if products > 0 {
		return ErrCategoryInUse
	}
	return s.repo.Delete(id)
}
