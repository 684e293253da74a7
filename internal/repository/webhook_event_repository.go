package repository

import (
	"errors"
	"time"

	"github.com/glowmart/glowmart-api/internal/models"

	"gorm.io/gorm"
)

// WebhookEventRepository webhook dead-letter data access
type WebhookEventRepository interface {
	List(filter WebhookEventListFilter) ([]models.WebhookEvent, int64, error)
	GetByID(id uint) (*models.WebhookEvent, error)
	Create(event *models.WebhookEvent) error
	MarkApplied(id uint, at time.Time) error
	MarkRetryFailed(id uint, reason string) error
}

// GormWebhookEventRepository GORM implementation
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates the webhook event repository
func NewWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// List dead-letter list
func (r *GormWebhookEventRepository) List(filter WebhookEventListFilter) ([]models.WebhookEvent, int64, error) {
	var events []models.WebhookEvent
	query := r.db.Model(&models.WebhookEvent{})

	if filter.AWBNumber != "" {
		query = query.Where("awb_number = ?", filter.AWBNumber)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("id desc").Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetByID fetches an event by ID
func (r *GormWebhookEventRepository) GetByID(id uint) (*models.WebhookEvent, error) {
	var event models.WebhookEvent
	if err := r.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// Create records a failed delivery
func (r *GormWebhookEventRepository) Create(event *models.WebhookEvent) error {
	return r.db.Create(event).Error
}

// MarkApplied flags the event as reconciled
func (r *GormWebhookEventRepository) MarkApplied(id uint, at time.Time) error {
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":     "applied",
		"applied_at": at,
	}).Error
}

// MarkRetryFailed bumps the retry counter with the latest failure
func (r *GormWebhookEventRepository) MarkRetryFailed(id uint, reason string) error {
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"retry_count": gorm.Expr("retry_count + 1"),
		"fail_reason": reason,
	}).Error
}
