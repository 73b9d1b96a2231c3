package repository

import (
	"errors"
	"strings"

	"go-farmacia-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	Update(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByCode(code string) (*model.Product, error)
	SearchByName(token string) (*model.Product, error)
	LowStock() ([]model.Product, error)
	CountActive() (int64, error)
	Deactivate(id uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

// FindAll returns the active catalog in name order (catalog order).
func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_active = ?", true).Order("name ASC, code ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &product, nil
}

func (r *productRepo) FindByCode(code string) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, "code = ? AND is_active = ?", code, true).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &product, nil
}

// SearchByName returns the first active product whose name contains the
// token (case-insensitive), in catalog order.
func (r *productRepo) SearchByName(token string) (*model.Product, error) {
	var product model.Product
	pattern := "%" + strings.ToLower(token) + "%"
	err := r.db.Where("is_active = ? AND LOWER(name) LIKE ?", true, pattern).
		Order("name ASC, code ASC").
		First(&product).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &product, nil
}

func (r *productRepo) LowStock() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("is_active = ? AND stock <= min_stock", true).
		Order("stock ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// Deactivate retires a product from the sellable catalog. Products are
// never deleted: sale items and movements keep referencing them.
func (r *productRepo) Deactivate(id uuid.UUID) error {
	res := r.db.Model(&model.Product{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ErrNotFound
	}
	return err
}
