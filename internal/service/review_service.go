package service

import (
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"
)

// ReviewService product reviews and the rating aggregates they feed
type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates the review service
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// ReviewInput create payload
type ReviewInput struct {
	ProductID uint
	UserID    uint
	Rating    int
	Comment   string
}

// List lists reviews with filters
func (s *ReviewService) List(filter repository.ReviewListFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(filter)
}

// Create stores a review and refreshes the product's rating aggregate
func (s *ReviewService) Create(input ReviewInput) (*models.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, ErrReviewInvalidRating
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	review := models.Review{
		ProductID:  input.ProductID,
		UserID:     input.UserID,
		Rating:     input.Rating,
		Comment:    input.Comment,
		IsApproved: true,
	}
	if err := s.reviewRepo.Create(&review); err != nil {
		return nil, err
	}
	if err := s.refreshAggregate(input.ProductID); err != nil {
		return nil, err
	}
	return &review, nil
}

// Moderate flips a review's approval and refreshes the aggregate
func (s *ReviewService) Moderate(id uint, approved bool) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, ErrReviewNotFound
	}
	review.IsApproved = approved
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	if err := s.refreshAggregate(review.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review and refreshes the aggregate
func (s *ReviewService) Delete(id uint) error {
	review, err := s.reviewRepo.GetByID(id)
	if err != nil {
		return err
	}
	if review == nil {
		return ErrReviewNotFound
	}
	if err := s.reviewRepo.Delete(id); err != nil {
		return err
	}
	return s.refreshAggregate(review.ProductID)
}

func (s *ReviewService) refreshAggregate(productID uint) error {
	avg, count, err := s.reviewRepo.AggregateForProduct(productID)
	if err != nil {
		return err
	}
	return s.productRepo.UpdateRating(productID, avg, int(count))
}
