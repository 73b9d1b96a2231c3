package memory

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"go-farmacia-pos/internal/model"

	"github.com/google/uuid"
)

func mustFindByCode(t *testing.T, s *Store, code string) *model.Product {
	t.Helper()
	p, err := s.Products().FindByCode(code)
	if err != nil {
		t.Fatalf("FindByCode(%q): %v", code, err)
	}
	return p
}

func saleFor(p *model.Product, qty int) *model.Sale {
	return &model.Sale{
		ReceiptType:   model.ReceiptBoleta,
		PaymentMethod: model.PayEfectivo,
		Subtotal:      p.Price * int64(qty),
		Items: []model.SaleItem{{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  qty,
			UnitPrice: p.Price,
			Subtotal:  p.Price * int64(qty),
		}},
	}
}

func TestSeededCatalog(t *testing.T) {
	s := NewSeeded()
	products, err := s.Products().FindAll()
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(products) != 5 {
		t.Fatalf("expected 5 seeded products, got %d", len(products))
	}
	// Catalog order is name ascending.
	for i := 1; i < len(products); i++ {
		if products[i-1].Name > products[i].Name {
			t.Errorf("catalog out of order: %q before %q", products[i-1].Name, products[i].Name)
		}
	}
	p := mustFindByCode(t, s, "001")
	if p.Name != "Paracetamol 500mg" || p.Price != 250 || p.Stock != 100 {
		t.Errorf("unexpected seed product: %+v", p)
	}
}

func TestProductDuplicateCode(t *testing.T) {
	s := NewSeeded()
	err := s.Products().Create(&model.Product{Code: "001", Name: "Otro", Price: 100, IsActive: true})
	if err != model.ErrDuplicateCode {
		t.Errorf("expected ErrDuplicateCode, got %v", err)
	}
}

func TestSearchByNameDeterministic(t *testing.T) {
	s := NewSeeded()
	// "mg" matches every seeded product; the first in catalog (name)
	// order is Amoxicilina.
	p, err := s.Products().SearchByName("MG")
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if p.Name != "Amoxicilina 500mg" {
		t.Errorf("expected first catalog-order match Amoxicilina 500mg, got %q", p.Name)
	}
	if _, err := s.Products().SearchByName("inexistente"); err != model.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSaleCommitsAllEffects(t *testing.T) {
	s := NewSeeded()
	p := mustFindByCode(t, s, "001")

	sale := saleFor(p, 3)
	if err := s.Sales().CreateSale(sale); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if !strings.HasPrefix(sale.SaleNumber, "BOLETA-") {
		t.Errorf("sale number %q missing receipt prefix", sale.SaleNumber)
	}
	if sale.Status != model.SaleCompleted {
		t.Errorf("status = %q, want COMPLETED", sale.Status)
	}

	after := mustFindByCode(t, s, "001")
	if after.Stock != 97 {
		t.Errorf("stock = %d, want 97", after.Stock)
	}

	movements, err := s.Movements().Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(movements) != 1 {
		t.Fatalf("expected 1 movement, got %d", len(movements))
	}
	m := movements[0]
	if m.MovementType != model.MovementOut || m.Quantity != -3 {
		t.Errorf("movement = %+v, want OUT -3", m)
	}
	if m.ReferenceType != model.ReferenceSale || m.ReferenceID == nil || *m.ReferenceID != sale.ID {
		t.Errorf("movement does not reference the sale: %+v", m)
	}
}

func TestCreateSaleInsufficientStockIsAllOrNothing(t *testing.T) {
	s := NewSeeded()
	ok := mustFindByCode(t, s, "001")     // stock 100
	scarce := mustFindByCode(t, s, "003") // stock 25

	sale := saleFor(ok, 2)
	sale.Items = append(sale.Items, model.SaleItem{
		ProductID: scarce.ID,
		Name:      scarce.Name,
		Quantity:  26,
		UnitPrice: scarce.Price,
		Subtotal:  scarce.Price * 26,
	})

	err := s.Sales().CreateSale(sale)
	if !model.IsInsufficientStock(err) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	// Nothing moved: not even the first item's stock.
	if got := mustFindByCode(t, s, "001").Stock; got != 100 {
		t.Errorf("stock of product 001 = %d, want 100", got)
	}
	if got := mustFindByCode(t, s, "003").Stock; got != 25 {
		t.Errorf("stock of product 003 = %d, want 25", got)
	}
	movements, _ := s.Movements().Recent(10)
	if len(movements) != 0 {
		t.Errorf("expected no movements, got %d", len(movements))
	}
	sales, _ := s.Sales().TodaySales()
	if len(sales) != 0 {
		t.Errorf("expected no sales, got %d", len(sales))
	}
}

func TestCreateSaleEmpty(t *testing.T) {
	s := NewSeeded()
	err := s.Sales().CreateSale(&model.Sale{ReceiptType: model.ReceiptTicket})
	if err != model.ErrEmptyCart {
		t.Errorf("expected ErrEmptyCart, got %v", err)
	}
}

func TestSaleNumbersUniqueUnderConcurrency(t *testing.T) {
	s := NewSeeded()
	p := mustFindByCode(t, s, "005") // stock 200

	const workers = 50
	var wg sync.WaitGroup
	numbers := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sale := saleFor(p, 1)
			if err := s.Sales().CreateSale(sale); err != nil {
				t.Errorf("CreateSale: %v", err)
				return
			}
			numbers <- sale.SaleNumber
		}()
	}
	wg.Wait()
	close(numbers)

	seen := make(map[string]bool)
	for n := range numbers {
		if seen[n] {
			t.Errorf("duplicate sale number %q", n)
		}
		seen[n] = true
	}
	if len(seen) != workers {
		t.Errorf("expected %d sale numbers, got %d", workers, len(seen))
	}
	if got := mustFindByCode(t, s, "005").Stock; got != 200-workers {
		t.Errorf("stock = %d, want %d", got, 200-workers)
	}
}

// Each receipt type draws from its own sequence, and the first allocation
// of a type is as contended as any later one. Every committed sale must
// still land on a distinct, gap-free number per type.
func TestSaleNumbersPerReceiptTypeUnderConcurrency(t *testing.T) {
	s := NewSeeded()
	p := mustFindByCode(t, s, "005") // stock 200

	types := []model.ReceiptType{model.ReceiptBoleta, model.ReceiptFactura, model.ReceiptTicket}
	const perType = 20
	var wg sync.WaitGroup
	numbers := make(chan string, len(types)*perType)
	for _, rt := range types {
		for i := 0; i < perType; i++ {
			wg.Add(1)
			go func(rt model.ReceiptType) {
				defer wg.Done()
				sale := saleFor(p, 1)
				sale.ReceiptType = rt
				if err := s.Sales().CreateSale(sale); err != nil {
					t.Errorf("CreateSale(%s): %v", rt, err)
					return
				}
				numbers <- sale.SaleNumber
			}(rt)
		}
	}
	wg.Wait()
	close(numbers)

	byType := make(map[model.ReceiptType]map[string]bool)
	for n := range numbers {
		rt := model.ReceiptType(n[:strings.IndexByte(n, '-')])
		if byType[rt] == nil {
			byType[rt] = make(map[string]bool)
		}
		if byType[rt][n] {
			t.Errorf("duplicate sale number %q", n)
		}
		byType[rt][n] = true
	}
	for _, rt := range types {
		if len(byType[rt]) != perType {
			t.Errorf("%s: expected %d distinct numbers, got %d", rt, perType, len(byType[rt]))
		}
		// Gap-free: the highest number drawn equals the count issued.
		last := fmt.Sprintf("%s-%08d", rt, perType)
		if !byType[rt][last] {
			t.Errorf("%s: expected sequence to end at %q", rt, last)
		}
	}
}

func TestLowStockOrdering(t *testing.T) {
	s := New()
	seed := []model.Product{
		{Code: "A", Name: "Zeta", Price: 100, Stock: 2, MinStock: 5, IsActive: true},
		{Code: "B", Name: "Alfa", Price: 100, Stock: 2, MinStock: 5, IsActive: true},
		{Code: "C", Name: "Beta", Price: 100, Stock: 1, MinStock: 5, IsActive: true},
		{Code: "D", Name: "Gamma", Price: 100, Stock: 50, MinStock: 5, IsActive: true},
		{Code: "E", Name: "Retirado", Price: 100, Stock: 0, MinStock: 5, IsActive: false},
	}
	for i := range seed {
		if err := s.Products().Create(&seed[i]); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	low, err := s.Products().LowStock()
	if err != nil {
		t.Fatalf("LowStock: %v", err)
	}
	var got []string
	for _, p := range low {
		got = append(got, p.Name)
	}
	want := []string{"Beta", "Alfa", "Zeta"} // stock asc, then name asc
	if len(got) != len(want) {
		t.Fatalf("low stock = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("low stock = %v, want %v", got, want)
		}
	}
}

func TestTopProductsTiebreakByCode(t *testing.T) {
	s := NewSeeded()
	a := mustFindByCode(t, s, "002")
	b := mustFindByCode(t, s, "001")

	// Same quantity sold for both; code ascending breaks the tie.
	if err := s.Sales().CreateSale(saleFor(a, 4)); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if err := s.Sales().CreateSale(saleFor(b, 4)); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if err := s.Sales().CreateSale(saleFor(mustFindByCode(t, s, "004"), 9)); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	top, err := s.Sales().TopProducts(10)
	if err != nil {
		t.Fatalf("TopProducts: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 ranked products, got %d", len(top))
	}
	if top[0].Code != "004" || top[0].TotalSold != 9 {
		t.Errorf("rank 1 = %+v, want code 004 sold 9", top[0])
	}
	if top[1].Code != "001" || top[2].Code != "002" {
		t.Errorf("tie not broken by code: got %s then %s", top[1].Code, top[2].Code)
	}
}

func TestTodayTotals(t *testing.T) {
	s := NewSeeded()
	p := mustFindByCode(t, s, "001")

	sale := saleFor(p, 3)
	sale.Total = 885
	if err := s.Sales().CreateSale(sale); err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	revenue, count, err := s.Sales().TodayTotals()
	if err != nil {
		t.Fatalf("TodayTotals: %v", err)
	}
	if revenue != 885 || count != 1 {
		t.Errorf("TodayTotals = (%d, %d), want (885, 1)", revenue, count)
	}

	sales, err := s.Sales().TodaySales()
	if err != nil {
		t.Fatalf("TodaySales: %v", err)
	}
	if len(sales) != 1 || sales[0].SaleNumber != sale.SaleNumber {
		t.Errorf("TodaySales = %+v", sales)
	}
}

func TestRestock(t *testing.T) {
	s := NewSeeded()
	p := mustFindByCode(t, s, "003")

	if err := s.Movements().Restock(p.ID, 10, "reposición semanal"); err != nil {
		t.Fatalf("Restock: %v", err)
	}
	if got := mustFindByCode(t, s, "003").Stock; got != 35 {
		t.Errorf("stock = %d, want 35", got)
	}
	movements, _ := s.Movements().Recent(1)
	if len(movements) != 1 || movements[0].MovementType != model.MovementIn || movements[0].Quantity != 10 {
		t.Errorf("unexpected movement: %+v", movements)
	}
	if err := s.Movements().Restock(p.ID, 0, ""); err == nil {
		t.Error("expected error for non-positive restock")
	}
	if err := s.Movements().Restock(uuid.New(), 5, ""); err != model.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
