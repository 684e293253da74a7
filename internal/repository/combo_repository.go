package repository

import (
	"errors"
	"time"

	"github.com/glowmart/glowmart-api/internal/models"

	"gorm.io/gorm"
)

// ComboRepository combo offer data access
type ComboRepository interface {
	List(filter ComboListFilter) ([]models.ComboOffer, int64, error)
	GetByID(id uint) (*models.ComboOffer, error)
	Create(combo *models.ComboOffer, items []models.ComboOfferItem) error
	Update(combo *models.ComboOffer) error
	ReplaceItems(comboID uint, items []models.ComboOfferItem) error
	Delete(id uint) error
}

// GormComboRepository GORM implementation
type GormComboRepository struct {
	db *gorm.DB
}

// NewComboRepository creates the combo repository
func NewComboRepository(db *gorm.DB) *GormComboRepository {
	return &GormComboRepository{db: db}
}

// List combo offer list. OnlyLive additionally bounds the validity window
// against the current time.
func (r *GormComboRepository) List(filter ComboListFilter) ([]models.ComboOffer, int64, error) {
	var combos []models.ComboOffer
	query := r.db.Model(&models.ComboOffer{})

	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.OnlyLive {
		now := time.Now()
		query = query.Where("(starts_at IS NULL OR starts_at <= ?) AND (ends_at IS NULL OR ends_at >= ?)", now, now)
	}
	if filter.Search != "" {
		cond, argCount := buildLikeCondition(r.db, []string{"title", "description"})
		if argCount > 0 {
			like := "%" + filter.Search + "%"
			query = query.Where(cond, repeatLikeArgs(like, argCount)...)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items").Preload("Items.Product").Order("id desc").Find(&combos).Error; err != nil {
		return nil, 0, err
	}
	return combos, total, nil
}

// GetByID fetches a combo with its items and products
func (r *GormComboRepository) GetByID(id uint) (*models.ComboOffer, error) {
	var combo models.ComboOffer
	if err := r.db.Preload("Items").Preload("Items.Product").First(&combo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &combo, nil
}

// Create creates a combo with its items
func (r *GormComboRepository) Create(combo *models.ComboOffer, items []models.ComboOfferItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(combo).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ComboOfferID = combo.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Update updates combo fields
func (r *GormComboRepository) Update(combo *models.ComboOffer) error {
	return r.db.Save(combo).Error
}

// ReplaceItems rewrites the combo's item rows
func (r *GormComboRepository) ReplaceItems(comboID uint, items []models.ComboOfferItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_offer_id = ?", comboID).Delete(&models.ComboOfferItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].ID = 0
			items[i].ComboOfferID = comboID
		}
		return tx.Create(&items).Error
	})
}

// Delete removes a combo and its items
func (r *GormComboRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("combo_offer_id = ?", id).Delete(&models.ComboOfferItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ComboOffer{}, id).Error
	})
}
