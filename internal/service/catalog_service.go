package service

import (
	"errors"
	"fmt"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/repository"
	"go-farmacia-pos/internal/ws"
	"go-farmacia-pos/pkg/validator"

	"github.com/google/uuid"
)

type CatalogService interface {
	// FindSellable resolves a scan/search token to a sellable product:
	// exact code match first, then first case-insensitive name substring
	// match in catalog order.
	FindSellable(token string) (*model.Product, error)
	ListProducts() ([]model.Product, error)
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error)
	DeactivateProduct(id uuid.UUID) error
	Restock(productID uuid.UUID, quantity int, note string) error
	RecentMovements(limit int) ([]model.InventoryMovement, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	wsHub        *ws.Hub
}

func NewCatalogService(pRepo repository.ProductRepository, mRepo repository.MovementRepository, hub *ws.Hub) CatalogService {
	return &catalogService{
		productRepo:  pRepo,
		movementRepo: mRepo,
		wsHub:        hub,
	}
}

func (s *catalogService) FindSellable(token string) (*model.Product, error) {
	product, err := s.productRepo.FindByCode(token)
	if errors.Is(err, model.ErrNotFound) {
		product, err = s.productRepo.SearchByName(token)
	}
	if err != nil {
		return nil, err
	}
	if product.Stock == 0 {
		return nil, model.ErrOutOfStock
	}
	return product, nil
}

func (s *catalogService) ListProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if errs := validator.Struct(req); len(errs) > 0 {
		return fmt.Errorf("validation failed: %s", errs[0])
	}

	existing, err := s.productRepo.FindByCode(req.Code)
	if err == nil && existing != nil {
		return model.ErrDuplicateCode
	}
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}

	req.IsActive = true
	if err := s.productRepo.Create(req); err != nil {
		return err
	}

	s.wsHub.Notify(ws.Event{
		Type:   "stock_update",
		Action: "product_created",
		Payload: map[string]interface{}{
			"id":    req.ID,
			"code":  req.Code,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.Price,
		},
	})
	return nil
}

// UpdateProduct edits catalog fields. Stock is deliberately not settable
// here: stock only moves through sales and restocks so the movement trail
// stays complete.
func (s *catalogService) UpdateProduct(id uuid.UUID, req *model.Product) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	existing.Code = req.Code
	existing.Name = req.Name
	existing.Price = req.Price
	existing.CostPrice = req.CostPrice
	existing.MinStock = req.MinStock
	existing.Category = req.Category
	existing.Laboratory = req.Laboratory
	existing.ExpiryDate = req.ExpiryDate

	if errs := validator.Struct(existing); len(errs) > 0 {
		return nil, fmt.Errorf("validation failed: %s", errs[0])
	}

	if err := s.productRepo.Update(existing); err != nil {
		return nil, err
	}

	s.wsHub.Notify(ws.Event{
		Type:   "stock_update",
		Action: "product_updated",
		Payload: map[string]interface{}{
			"id":    existing.ID,
			"code":  existing.Code,
			"name":  existing.Name,
			"price": existing.Price,
		},
	})
	return existing, nil
}

func (s *catalogService) DeactivateProduct(id uuid.UUID) error {
	return s.productRepo.Deactivate(id)
}

func (s *catalogService) Restock(productID uuid.UUID, quantity int, note string) error {
	if err := s.movementRepo.Restock(productID, quantity, note); err != nil {
		return err
	}
	s.wsHub.Notify(ws.Event{
		Type:   "stock_update",
		Action: "restock",
		Payload: map[string]interface{}{
			"product_id": productID,
			"quantity":   quantity,
		},
	})
	return nil
}

func (s *catalogService) RecentMovements(limit int) ([]model.InventoryMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.movementRepo.Recent(limit)
}
