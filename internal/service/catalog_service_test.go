package service

import (
	"errors"
	"testing"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/repository/memory"
	"go-farmacia-pos/internal/ws"
)

func newCatalogFixture() (*memory.Store, CatalogService) {
	store := memory.NewSeeded()
	svc := NewCatalogService(store.Products(), store.Movements(), ws.NewHub())
	return store, svc
}

func TestFindSellable(t *testing.T) {
	store, svc := newCatalogFixture()

	t.Run("exact code match wins", func(t *testing.T) {
		p, err := svc.FindSellable("001")
		if err != nil {
			t.Fatalf("FindSellable: %v", err)
		}
		if p.Name != "Paracetamol 500mg" {
			t.Errorf("got %q", p.Name)
		}
	})

	t.Run("falls back to name substring", func(t *testing.T) {
		p, err := svc.FindSellable("ibupro")
		if err != nil {
			t.Fatalf("FindSellable: %v", err)
		}
		if p.Code != "002" {
			t.Errorf("got code %q, want 002", p.Code)
		}
	})

	t.Run("substring is case-insensitive", func(t *testing.T) {
		p, err := svc.FindSellable("VITAMINA")
		if err != nil {
			t.Fatalf("FindSellable: %v", err)
		}
		if p.Code != "004" {
			t.Errorf("got code %q, want 004", p.Code)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, err := svc.FindSellable("omeprazol"); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("matched but out of stock", func(t *testing.T) {
		depleted := &model.Product{Code: "099", Name: "Loratadina 10mg", Price: 450, Stock: 0, MinStock: 5, IsActive: true}
		if err := store.Products().Create(depleted); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := svc.FindSellable("099"); !errors.Is(err, model.ErrOutOfStock) {
			t.Errorf("expected ErrOutOfStock, got %v", err)
		}
	})
}

func TestCreateProduct(t *testing.T) {
	_, svc := newCatalogFixture()

	t.Run("duplicate code rejected", func(t *testing.T) {
		err := svc.CreateProduct(&model.Product{Code: "001", Name: "Clon", Price: 100})
		if !errors.Is(err, model.ErrDuplicateCode) {
			t.Errorf("expected ErrDuplicateCode, got %v", err)
		}
	})

	t.Run("missing fields rejected", func(t *testing.T) {
		if err := svc.CreateProduct(&model.Product{Code: "100"}); err == nil {
			t.Error("expected validation error for missing name")
		}
	})

	t.Run("valid product created active", func(t *testing.T) {
		p := &model.Product{Code: "100", Name: "Omeprazol 20mg", Price: 520, Stock: 30, MinStock: 5}
		if err := svc.CreateProduct(p); err != nil {
			t.Fatalf("CreateProduct: %v", err)
		}
		if !p.IsActive {
			t.Error("new product should be active")
		}
		found, err := svc.FindSellable("100")
		if err != nil {
			t.Fatalf("FindSellable: %v", err)
		}
		if found.Name != "Omeprazol 20mg" {
			t.Errorf("got %q", found.Name)
		}
	})
}

func TestUpdateProductKeepsStock(t *testing.T) {
	store, svc := newCatalogFixture()
	p, _ := store.Products().FindByCode("001")

	updated, err := svc.UpdateProduct(p.ID, &model.Product{
		Code:     p.Code,
		Name:     p.Name,
		Price:    300,
		MinStock: 10,
		Stock:    1, // must be ignored: stock only moves via sales/restocks
	})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Price != 300 || updated.MinStock != 10 {
		t.Errorf("update not applied: %+v", updated)
	}
	if updated.Stock != 100 {
		t.Errorf("stock = %d, want untouched 100", updated.Stock)
	}
}

func TestDeactivateHidesFromCatalog(t *testing.T) {
	store, svc := newCatalogFixture()
	p, _ := store.Products().FindByCode("005")

	if err := svc.DeactivateProduct(p.ID); err != nil {
		t.Fatalf("DeactivateProduct: %v", err)
	}
	if _, err := svc.FindSellable("005"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("deactivated product still sellable: %v", err)
	}
	products, _ := svc.ListProducts()
	for _, prod := range products {
		if prod.Code == "005" {
			t.Error("deactivated product still listed")
		}
	}
}

func TestRestockRecordsMovement(t *testing.T) {
	store, svc := newCatalogFixture()
	p, _ := store.Products().FindByCode("002")

	if err := svc.Restock(p.ID, 25, "pedido proveedor"); err != nil {
		t.Fatalf("Restock: %v", err)
	}
	after, _ := store.Products().FindByCode("002")
	if after.Stock != 75 {
		t.Errorf("stock = %d, want 75", after.Stock)
	}
	movements, err := svc.RecentMovements(5)
	if err != nil {
		t.Fatalf("RecentMovements: %v", err)
	}
	if len(movements) != 1 || movements[0].Note != "pedido proveedor" {
		t.Errorf("movements = %+v", movements)
	}
}
