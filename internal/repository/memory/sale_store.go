package memory

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/repository"

	"github.com/google/uuid"
)

type saleStore struct{ *Store }

// CreateSale validates every decrement before applying any, so the commit
// is all-or-nothing under the single store mutex.
func (ss *saleStore) CreateSale(sale *model.Sale) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if len(sale.Items) == 0 {
		return model.ErrEmptyCart
	}

	for _, item := range sale.Items {
		p, ok := ss.products[item.ProductID]
		if !ok {
			return model.ErrNotFound
		}
		if p.Stock < item.Quantity {
			return &model.InsufficientStockError{
				ProductID: item.ProductID,
				Requested: item.Quantity,
				Available: p.Stock,
			}
		}
	}

	ss.sequences[sale.ReceiptType]++
	sale.SaleNumber = fmt.Sprintf("%s-%08d", sale.ReceiptType, ss.sequences[sale.ReceiptType])
	stamp(&sale.BaseModel)
	if sale.Status == "" {
		sale.Status = model.SaleCompleted
	}

	for i := range sale.Items {
		item := &sale.Items[i]
		stamp(&item.BaseModel)
		item.SaleID = sale.ID

		ss.products[item.ProductID].Stock -= item.Quantity

		movement := model.InventoryMovement{
			ProductID:     item.ProductID,
			MovementType:  model.MovementOut,
			Quantity:      -item.Quantity,
			ReferenceType: model.ReferenceSale,
			ReferenceID:   &sale.ID,
		}
		stamp(&movement.BaseModel)
		ss.movements = append(ss.movements, movement)
	}

	clone := cloneSale(sale)
	ss.sales = append(ss.sales, clone)
	return nil
}

func cloneSale(sale *model.Sale) *model.Sale {
	clone := *sale
	clone.Items = make([]model.SaleItem, len(sale.Items))
	copy(clone.Items, sale.Items)
	if sale.Customer != nil {
		customer := *sale.Customer
		clone.Customer = &customer
	}
	return &clone
}

func (ss *saleStore) FindByID(id uuid.UUID) (*model.Sale, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for _, s := range ss.sales {
		if s.ID == id {
			return cloneSale(s), nil
		}
	}
	return nil, model.ErrNotFound
}

func (ss *saleStore) TodaySales() ([]model.Sale, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	start, end := todayBounds()
	var out []model.Sale
	for _, s := range ss.sales {
		if !s.CreatedAt.Before(start) && s.CreatedAt.Before(end) {
			out = append(out, *cloneSale(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (ss *saleStore) TodayTotals() (int64, int64, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	start, end := todayBounds()
	var revenue, count int64
	for _, s := range ss.sales {
		if s.Status != model.SaleCompleted {
			continue
		}
		if !s.CreatedAt.Before(start) && s.CreatedAt.Before(end) {
			revenue += s.Total
			count++
		}
	}
	return revenue, count, nil
}

func (ss *saleStore) TopProducts(limit int) ([]repository.TopProduct, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	byProduct := make(map[uuid.UUID]*repository.TopProduct)
	for _, s := range ss.sales {
		for _, item := range s.Items {
			entry, ok := byProduct[item.ProductID]
			if !ok {
				entry = &repository.TopProduct{ProductID: item.ProductID, Name: item.Name}
				if p, ok := ss.products[item.ProductID]; ok {
					entry.Code = p.Code
					entry.Name = p.Name
				}
				byProduct[item.ProductID] = entry
			}
			entry.TotalSold += item.Quantity
			entry.TotalRevenue += item.Subtotal
		}
	}
	results := make([]repository.TopProduct, 0, len(byProduct))
	for _, entry := range byProduct {
		results = append(results, *entry)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalSold != results[j].TotalSold {
			return results[i].TotalSold > results[j].TotalSold
		}
		return results[i].Code < results[j].Code
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type movementStore struct{ *Store }

func (ms *movementStore) Restock(productID uuid.UUID, quantity int, note string) error {
	if quantity <= 0 {
		return errors.New("restock quantity must be positive")
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	p, ok := ms.products[productID]
	if !ok {
		return model.ErrNotFound
	}
	p.Stock += quantity
	p.UpdatedAt = time.Now()
	movement := model.InventoryMovement{
		ProductID:     productID,
		MovementType:  model.MovementIn,
		Quantity:      quantity,
		ReferenceType: model.ReferenceRestock,
		Note:          note,
	}
	stamp(&movement.BaseModel)
	ms.movements = append(ms.movements, movement)
	return nil
}

func (ms *movementStore) Recent(limit int) ([]model.InventoryMovement, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]model.InventoryMovement, len(ms.movements))
	copy(out, ms.movements)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func todayBounds() (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
