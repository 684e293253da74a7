package repository

import (
	"errors"

	"github.com/glowmart/glowmart-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GSTRepository GST rate data access
type GSTRepository interface {
	ListRates() ([]models.GSTRate, error)
	GetRateByID(id uint) (*models.GSTRate, error)
	GetActiveRate() (*models.GSTRate, error)
	CreateRate(rate *models.GSTRate) error
	UpdateRate(rate *models.GSTRate) error
	DeleteRate(id uint) error
	ActivateRate(id uint) error
	CountActiveRates(excludeID *uint) (int64, error)
	ListProductRates() ([]models.ProductGSTRate, error)
	GetProductRate(productID uint) (*models.ProductGSTRate, error)
	UpsertProductRate(rate *models.ProductGSTRate) error
	DeleteProductRate(productID uint) error
}

// GormGSTRepository GORM implementation
type GormGSTRepository struct {
	db *gorm.DB
}

// NewGSTRepository creates the GST repository
func NewGSTRepository(db *gorm.DB) *GormGSTRepository {
	return &GormGSTRepository{db: db}
}

// ListRates GST rate list
func (r *GormGSTRepository) ListRates() ([]models.GSTRate, error) {
	var rates []models.GSTRate
	if err := r.db.Order("id asc").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// GetRateByID fetches a rate by ID
func (r *GormGSTRepository) GetRateByID(id uint) (*models.GSTRate, error) {
	var rate models.GSTRate
	if err := r.db.First(&rate, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// GetActiveRate fetches the single active rate
func (r *GormGSTRepository) GetActiveRate() (*models.GSTRate, error) {
	var rate models.GSTRate
	if err := r.db.Where("is_active = ?", true).First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// CreateRate creates a rate
func (r *GormGSTRepository) CreateRate(rate *models.GSTRate) error {
	if !rate.IsActive {
		return r.db.Create(rate).Error
	}
	// creating an active rate deactivates the rest
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GSTRate{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(rate).Error
	})
}

// UpdateRate updates a rate
func (r *GormGSTRepository) UpdateRate(rate *models.GSTRate) error {
	return r.db.Save(rate).Error
}

// DeleteRate removes a rate
func (r *GormGSTRepository) DeleteRate(id uint) error {
	return r.db.Delete(&models.GSTRate{}, id).Error
}

// ActivateRate makes the rate the single active one
func (r *GormGSTRepository) ActivateRate(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.GSTRate{}).Where("id != ? AND is_active = ?", id, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.GSTRate{}).Where("id = ?", id).
			Update("is_active", true).Error
	})
}

// CountActiveRates counts active rates
func (r *GormGSTRepository) CountActiveRates(excludeID *uint) (int64, error) {
	var count int64
	query := r.db.Model(&models.GSTRate{}).Where("is_active = ?", true)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListProductRates per-product override list
func (r *GormGSTRepository) ListProductRates() ([]models.ProductGSTRate, error) {
	var rates []models.ProductGSTRate
	if err := r.db.Order("product_id asc").Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// GetProductRate fetches the override for a product
func (r *GormGSTRepository) GetProductRate(productID uint) (*models.ProductGSTRate, error) {
	var rate models.ProductGSTRate
	if err := r.db.Where("product_id = ?", productID).First(&rate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rate, nil
}

// UpsertProductRate inserts or updates the per-product override
func (r *GormGSTRepository) UpsertProductRate(rate *models.ProductGSTRate) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"percentage", "is_active", "updated_at"}),
	}).Create(rate).Error
}

// DeleteProductRate removes a product override
func (r *GormGSTRepository) DeleteProductRate(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&models.ProductGSTRate{}).Error
}
