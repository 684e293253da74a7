package repository

import (
	"time"

	"github.com/glowmart/glowmart-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository aggregate queries for the admin dashboard
type DashboardRepository interface {
	CountOrdersByStatus() (map[string]int64, error)
	CountShipmentsByStatus() (map[string]int64, error)
	SumRevenue(from, to *time.Time) (decimal.Decimal, error)
	CountUsers() (int64, error)
	CountProducts() (int64, error)
	ListLowStockProducts(threshold int, limit int) ([]models.Product, error)
	ListRecentOrders(limit int) ([]models.Order, error)
}

// GormDashboardRepository GORM implementation
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates the dashboard repository
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

type statusCountRow struct {
	Status string
	Count  int64
}

// CountOrdersByStatus buckets orders by status
func (r *GormDashboardRepository) CountOrdersByStatus() (map[string]int64, error) {
	var rows []statusCountRow
	if err := r.db.Model(&models.Order{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// CountShipmentsByStatus buckets orders by shipment status
func (r *GormDashboardRepository) CountShipmentsByStatus() (map[string]int64, error) {
	var rows []statusCountRow
	if err := r.db.Model(&models.Order{}).
		Select("shipment_status as status, COUNT(*) as count").
		Group("shipment_status").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// SumRevenue totals paid order amounts in the window; cancelled orders
// are excluded
func (r *GormDashboardRepository) SumRevenue(from, to *time.Time) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	query := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0) as total").
		Where("status != ?", "cancelled")
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}
	if err := query.Take(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// CountUsers total registered users
func (r *GormDashboardRepository) CountUsers() (int64, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountProducts total products
func (r *GormDashboardRepository) CountProducts() (int64, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListLowStockProducts active products at or below the stock threshold
func (r *GormDashboardRepository) ListLowStockProducts(threshold int, limit int) ([]models.Product, error) {
	var products []models.Product
	if limit <= 0 {
		limit = 10
	}
	if err := r.db.Where("is_active = ? AND stock <= ?", true, threshold).
		Order("stock asc").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListRecentOrders newest orders
func (r *GormDashboardRepository) ListRecentOrders(limit int) ([]models.Order, error) {
	var orders []models.Order
	if limit <= 0 {
		limit = 10
	}
	if err := r.db.Preload("User").Order("id desc").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
