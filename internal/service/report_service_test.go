package service

import (
	"testing"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/money"
	"go-farmacia-pos/internal/pos"
	"go-farmacia-pos/internal/repository/memory"
	"go-farmacia-pos/internal/ws"
)

func newReportFixture() (*memory.Store, CheckoutService, ReportService) {
	store := memory.NewSeeded()
	checkout := NewCheckoutService(store.Products(), store.Customers(), store.Sales(), ws.NewHub())
	reports := NewReportService(store.Products(), store.Customers(), store.Sales())
	return store, checkout, reports
}

func finalizeOne(t *testing.T, store *memory.Store, svc CheckoutService, code string, qty int) *model.Sale {
	t.Helper()
	p, err := store.Products().FindByCode(code)
	if err != nil {
		t.Fatalf("FindByCode(%q): %v", code, err)
	}
	cart := pos.NewCart(money.DefaultTaxRate)
	if err := cart.AddLine(p, qty); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	sale, err := svc.Finalize(cart, CustomerInput{}, model.ReceiptBoleta, model.PayEfectivo)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return sale
}

func TestDashboardStats(t *testing.T) {
	store, checkout, reports := newReportFixture()

	empty, err := reports.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if empty.TodayRevenue != 0 || empty.TodayTransactions != 0 {
		t.Errorf("expected zero today stats, got %+v", empty)
	}
	if empty.TotalProducts != 5 {
		t.Errorf("total products = %d, want 5", empty.TotalProducts)
	}

	s1 := finalizeOne(t, store, checkout, "001", 3) // 8.85
	s2 := finalizeOne(t, store, checkout, "002", 1) // 3.78

	stats, err := reports.GetDashboardStats()
	if err != nil {
		t.Fatalf("GetDashboardStats: %v", err)
	}
	if want := s1.Total + s2.Total; stats.TodayRevenue != want {
		t.Errorf("today revenue = %d, want %d", stats.TodayRevenue, want)
	}
	if stats.TodayTransactions != 2 {
		t.Errorf("today transactions = %d, want 2", stats.TodayTransactions)
	}
	if stats.TotalCustomers != 0 {
		t.Errorf("customers = %d, want 0", stats.TotalCustomers)
	}
}

func TestTodaySalesNewestFirst(t *testing.T) {
	store, checkout, reports := newReportFixture()
	finalizeOne(t, store, checkout, "001", 1)
	finalizeOne(t, store, checkout, "002", 1)

	sales, err := reports.TodaySales()
	if err != nil {
		t.Fatalf("TodaySales: %v", err)
	}
	if len(sales) != 2 {
		t.Fatalf("expected 2 sales, got %d", len(sales))
	}
	if sales[0].CreatedAt.Before(sales[1].CreatedAt) {
		t.Error("sales not ordered newest first")
	}
}

func TestLowStockScenario(t *testing.T) {
	store, checkout, reports := newReportFixture()

	// Product already below threshold appears immediately.
	shortage := &model.Product{Code: "050", Name: "Insulina", Price: 4500, Stock: 3, MinStock: 5, IsActive: true}
	if err := store.Products().Create(shortage); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Product just above threshold does not, until a sale pushes it under.
	border := &model.Product{Code: "051", Name: "Jarabe", Price: 900, Stock: 6, MinStock: 5, IsActive: true}
	if err := store.Products().Create(border); err != nil {
		t.Fatalf("Create: %v", err)
	}

	low, err := reports.LowStock()
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(low) != 1 || low[0].Code != "050" {
		t.Fatalf("low stock = %+v, want only 050", low)
	}

	finalizeOne(t, store, checkout, "051", 2) // 6 -> 4, min 5

	low, err = reports.LowStock()
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	if len(low) != 2 {
		t.Fatalf("expected 2 low-stock products, got %+v", low)
	}
	// stock asc: Insulina (3) before Jarabe (4)
	if low[0].Code != "050" || low[1].Code != "051" {
		t.Errorf("low stock order = [%s %s], want [050 051]", low[0].Code, low[1].Code)
	}
}

func TestTopProductsReflectsAllSales(t *testing.T) {
	store, checkout, reports := newReportFixture()
	finalizeOne(t, store, checkout, "001", 3)
	finalizeOne(t, store, checkout, "001", 2)
	finalizeOne(t, store, checkout, "004", 4)

	top, err := reports.TopProducts(2)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(top))
	}
	if top[0].Code != "001" || top[0].TotalSold != 5 {
		t.Errorf("rank 1 = %+v, want 001 sold 5", top[0])
	}
	if top[1].Code != "004" || top[1].TotalSold != 4 {
		t.Errorf("rank 2 = %+v, want 004 sold 4", top[1])
	}
}
