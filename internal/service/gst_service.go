package service

import (
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"
)

// GSTService manages the store-wide GST rate and per-product overrides.
// At most one store rate is active at a time.
type GSTService struct {
	gstRepo     repository.GSTRepository
	productRepo repository.ProductRepository
}

// NewGSTService creates the GST service
func NewGSTService(gstRepo repository.GSTRepository, productRepo repository.ProductRepository) *GSTService {
	return &GSTService{gstRepo: gstRepo, productRepo: productRepo}
}

// GSTRateInput create/update payload for a store rate
type GSTRateInput struct {
	Name        string
	Description string
	Percentage  float64
	IsActive    bool
}

func (in GSTRateInput) validate() error {
	if in.Percentage < 0 || in.Percentage > 100 {
		return ErrGSTInvalidPercent
	}
	return nil
}

// ListRates lists all store rates
func (s *GSTService) ListRates() ([]models.GSTRate, error) {
	return s.gstRepo.ListRates()
}

// CreateRate creates a store rate; creating an active rate deactivates
// the rest
func (s *GSTService) CreateRate(input GSTRateInput) (*models.GSTRate, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	rate := &models.GSTRate{
		Name:        input.Name,
		Description: input.Description,
		Percentage:  input.Percentage,
		IsActive:    input.IsActive,
	}
	if err := s.gstRepo.CreateRate(rate); err != nil {
		return nil, err
	}
	logger.Infow("gst_rate_created", "rate_id", rate.ID, "percentage", rate.Percentage, "active", rate.IsActive)
	return rate, nil
}

// UpdateRate updates a store rate's fields; activation goes through
// ActivateRate so exclusivity holds
func (s *GSTService) UpdateRate(id uint, input GSTRateInput) (*models.GSTRate, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	rate, err := s.gstRepo.GetRateByID(id)
	if err != nil {
		return nil, err
	}
	if rate == nil {
		return nil, ErrGSTRateNotFound
	}
	rate.Name = input.Name
	rate.Description = input.Description
	rate.Percentage = input.Percentage
	if err := s.gstRepo.UpdateRate(rate); err != nil {
		return nil, err
	}
	if input.IsActive && !rate.IsActive {
		if err := s.gstRepo.ActivateRate(rate.ID); err != nil {
			return nil, err
		}
		rate.IsActive = true
	}
	return rate, nil
}

// ActivateRate makes one rate active and deactivates every other rate
func (s *GSTService) ActivateRate(id uint) error {
	rate, err := s.gstRepo.GetRateByID(id)
	if err != nil {
		return err
	}
	if rate == nil {
		return ErrGSTRateNotFound
	}
	if err := s.gstRepo.ActivateRate(id); err != nil {
		return err
	}
	logger.Infow("gst_rate_activated", "rate_id", id)
	return nil
}

// DeleteRate removes a rate; the only active rate cannot be deleted
func (s *GSTService) DeleteRate(id uint) error {
	rate, err := s.gstRepo.GetRateByID(id)
	if err != nil {
		return err
	}
	if rate == nil {
		return ErrGSTRateNotFound
	}
	if rate.IsActive {
		others, err := s.gstRepo.CountActiveRates(&id)
		if err != nil {
			return err
		}
		if others == 0 {
			return ErrGSTRateInUse
		}
	}
	return s.gstRepo.DeleteRate(id)
}

// EffectivePercentage resolves the GST percentage to charge for a
// product: its override when present, else the active store rate, else
// zero.
func (s *GSTService) EffectivePercentage(productID uint) (float64, error) {
	override, err := s.gstRepo.GetProductRate(productID)
	if err != nil {
		return 0, err
	}
	if override != nil && override.IsActive {
		return override.Percentage, nil
	}
	active, err := s.gstRepo.GetActiveRate()
	if err != nil {
		return 0, err
	}
	if active == nil {
		return 0, nil
	}
	return active.Percentage, nil
}

// ProductRateInput per-product override payload
type ProductRateInput struct {
	ProductID  uint
	Percentage float64
}

// SetProductRate upserts a per-product override
func (s *GSTService) SetProductRate(input ProductRateInput) (*models.ProductGSTRate, error) {
	if input.Percentage < 0 || input.Percentage > 100 {
		return nil, ErrGSTInvalidPercent
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	rate := &models.ProductGSTRate{
		ProductID:  input.ProductID,
		Percentage: input.Percentage,
		IsActive:   true,
	}
	if err := s.gstRepo.UpsertProductRate(rate); err != nil {
		return nil, err
	}
	return rate, nil
}

// ListProductRates lists all per-product overrides
func (s *GSTService) ListProductRates() ([]models.ProductGSTRate, error) {
	return s.gstRepo.ListProductRates()
}

// RemoveProductRate deletes a product override
func (s *GSTService) RemoveProductRate(productID uint) error {
	rate, err := s.gstRepo.GetProductRate(productID)
	if err != nil {
		return err
	}
	if rate == nil {
		return ErrGSTRateNotFound
	}
	return s.gstRepo.DeleteProductRate(productID)
}
