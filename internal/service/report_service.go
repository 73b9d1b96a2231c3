package service

import (
	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/repository"
)

// DashboardStats is the overview block the dashboard polls on every view
// load. Four independent read queries, cheap by construction.
type DashboardStats struct {
	TodayRevenue      int64 `json:"today_revenue"` // céntimos
	TodayTransactions int64 `json:"today_transactions"`
	TotalProducts     int64 `json:"total_products"`
	LowStockCount     int64 `json:"low_stock_count"`
	TotalCustomers    int64 `json:"total_customers"`
}

type ReportService interface {
	TodaySales() ([]model.Sale, error)
	GetDashboardStats() (*DashboardStats, error)
	TopProducts(limit int) ([]repository.TopProduct, error)
	LowStock() ([]model.Product, error)
}

type reportService struct {
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	saleRepo     repository.SaleRepository
}

func NewReportService(pRepo repository.ProductRepository, cRepo repository.CustomerRepository, sRepo repository.SaleRepository) ReportService {
	return &reportService{
		productRepo:  pRepo,
		customerRepo: cRepo,
		saleRepo:     sRepo,
	}
}

func (s *reportService) TodaySales() ([]model.Sale, error) {
	return s.saleRepo.TodaySales()
}

func (s *reportService) GetDashboardStats() (*DashboardStats, error) {
	revenue, transactions, err := s.saleRepo.TodayTotals()
	if err != nil {
		return nil, err
	}
	totalProducts, err := s.productRepo.CountActive()
	if err != nil {
		return nil, err
	}
	low, err := s.productRepo.LowStock()
	if err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.Count()
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TodayRevenue:      revenue,
		TodayTransactions: transactions,
		TotalProducts:     totalProducts,
		LowStockCount:     int64(len(low)),
		TotalCustomers:    customers,
	}, nil
}

func (s *reportService) TopProducts(limit int) ([]repository.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.saleRepo.TopProducts(limit)
}

func (s *reportService) LowStock() ([]model.Product, error) {
	return s.productRepo.LowStock()
}
