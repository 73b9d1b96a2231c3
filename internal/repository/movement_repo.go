package repository

import (
	"errors"

	"go-farmacia-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	// Restock atomically increments stock and appends an IN movement.
	Restock(productID uuid.UUID, quantity int, note string) error
	Recent(limit int) ([]model.InventoryMovement, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Restock(productID uuid.UUID, quantity int, note string) error {
	if quantity <= 0 {
		return errors.New("restock quantity must be positive")
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Update("stock", gorm.Expr("stock + ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return model.ErrNotFound
		}
		movement := model.InventoryMovement{
			ProductID:     productID,
			MovementType:  model.MovementIn,
			Quantity:      quantity,
			ReferenceType: model.ReferenceRestock,
			Note:          note,
		}
		return tx.Create(&movement).Error
	})
}

func (r *movementRepo) Recent(limit int) ([]model.InventoryMovement, error) {
	var movements []model.InventoryMovement
	err := r.db.Preload("Product").
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}
