package service

import (
	"context"
	"fmt"
	"time"

	"github.com/glowmart/glowmart-api/internal/cache"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/models"
	"github.com/glowmart/glowmart-api/internal/repository"
)

const (
	dashboardCacheTTL   = 45 * time.Second
	dashboardCacheKey   = "dashboard:overview"
	lowStockThreshold   = 5
	recentOrdersDisplay = 10
)

// DashboardService aggregates the admin home-page numbers.
type DashboardService struct {
	repo repository.DashboardRepository
}

// NewDashboardService creates the dashboard service.
func NewDashboardService(repo repository.DashboardRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

// DashboardQueryInput dashboard query options
type DashboardQueryInput struct {
	From         *time.Time
	To           *time.Time
	ForceRefresh bool
}

// DashboardOverviewResponse dashboard overview payload
type DashboardOverviewResponse struct {
	GeneratedAt       string           `json:"generated_at"`
	OrdersByStatus    map[string]int64 `json:"orders_by_status"`
	ShipmentsByStatus map[string]int64 `json:"shipments_by_status"`
	Revenue           string           `json:"revenue"`
	TotalUsers        int64            `json:"total_users"`
	TotalProducts     int64            `json:"total_products"`
	LowStockProducts  []models.Product `json:"low_stock_products"`
	RecentOrders      []models.Order   `json:"recent_orders"`
}

// Overview returns the dashboard snapshot, served from redis when fresh.
func (s *DashboardService) Overview(ctx context.Context, input DashboardQueryInput) (*DashboardOverviewResponse, error) {
	cacheKey := dashboardOverviewKey(input)
	if !input.ForceRefresh {
		var cached DashboardOverviewResponse
		hit, err := cache.GetJSON(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warnw("dashboard_cache_read_failed", "error", err)
		}
		if hit {
			return &cached, nil
		}
	}

	ordersByStatus, err := s.repo.CountOrdersByStatus()
	if err != nil {
		return nil, err
	}
	shipmentsByStatus, err := s.repo.CountShipmentsByStatus()
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.SumRevenue(input.From, input.To)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.repo.CountUsers()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.repo.CountProducts()
	if err != nil {
		return nil, err
	}
	lowStock, err := s.repo.ListLowStockProducts(lowStockThreshold, recentOrdersDisplay)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListRecentOrders(recentOrdersDisplay)
	if err != nil {
		return nil, err
	}

	resp := &DashboardOverviewResponse{
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		OrdersByStatus:    ordersByStatus,
		ShipmentsByStatus: shipmentsByStatus,
		Revenue:           revenue.Round(2).StringFixed(2),
		TotalUsers:        totalUsers,
		TotalProducts:     totalProducts,
		LowStockProducts:  lowStock,
		RecentOrders:      recent,
	}

	if err := cache.SetJSON(ctx, cacheKey, resp, dashboardCacheTTL); err != nil {
		logger.Warnw("dashboard_cache_write_failed", "error", err)
	}
	return resp, nil
}

func dashboardOverviewKey(input DashboardQueryInput) string {
	from, to := "", ""
	if input.From != nil {
		from = input.From.UTC().Format("20060102")
	}
	if input.To != nil {
		to = input.To.UTC().Format("20060102")
	}
	return fmt.Sprintf("%s:%s:%s", dashboardCacheKey, from, to)
}
