package model

import "time"

type Product struct {
	BaseModel
	Code       string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Price      int64      `gorm:"not null" json:"price" validate:"gte=0"` // céntimos
	CostPrice  int64      `gorm:"default:0" json:"cost_price"`
	Stock      int        `gorm:"default:0" json:"stock" validate:"gte=0"`
	MinStock   int        `gorm:"default:5" json:"min_stock" validate:"gte=0"`
	Category   string     `gorm:"type:varchar(100)" json:"category"`
	Laboratory string     `gorm:"type:varchar(100)" json:"laboratory"`
	ExpiryDate *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	IsActive   bool       `gorm:"default:true" json:"is_active"`
}

// IsLowStock reports whether stock has fallen to or below the configured minimum.
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
