package model

import "github.com/google/uuid"

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

const (
	ReferenceSale    = "SALE"
	ReferenceRestock = "RESTOCK"
)

// InventoryMovement is an append-only audit record of a stock change.
// Quantity is signed: negative for OUT, positive for IN.
type InventoryMovement struct {
	BaseModel
	ProductID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product     `json:"product,omitempty"`
	MovementType  MovementType `gorm:"type:varchar(10);not null" json:"movement_type"`
	Quantity      int          `gorm:"not null" json:"quantity"`
	ReferenceType string       `gorm:"type:varchar(20)" json:"reference_type"`
	ReferenceID   *uuid.UUID   `gorm:"type:uuid;index" json:"reference_id,omitempty"`
	Note          string       `json:"note"`
}
