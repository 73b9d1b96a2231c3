package model

import "github.com/google/uuid"

type ReceiptType string

const (
	ReceiptBoleta  ReceiptType = "BOLETA"
	ReceiptFactura ReceiptType = "FACTURA"
	ReceiptTicket  ReceiptType = "TICKET"
)

func (t ReceiptType) Valid() bool {
	switch t {
	case ReceiptBoleta, ReceiptFactura, ReceiptTicket:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PayEfectivo PaymentMethod = "EFECTIVO"
	PayTarjeta  PaymentMethod = "TARJETA"
	PayYape     PaymentMethod = "YAPE"
	PayPlin     PaymentMethod = "PLIN"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PayEfectivo, PayTarjeta, PayYape, PayPlin:
		return true
	}
	return false
}

type SaleStatus string

const (
	SaleCompleted SaleStatus = "COMPLETED"
)

// Sale is immutable once created. Items are a frozen copy of the cart
// lines at finalization time, independent of later price changes.
type Sale struct {
	BaseModel
	SaleNumber    string        `gorm:"type:varchar(30);uniqueIndex;not null" json:"sale_number"`
	ReceiptType   ReceiptType   `gorm:"type:varchar(10);not null" json:"receipt_type"`
	CustomerID    *uuid.UUID    `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Customer      *Customer     `json:"customer,omitempty"`
	Subtotal      int64         `gorm:"not null" json:"subtotal"` // céntimos
	IGV           int64         `gorm:"not null" json:"igv"`
	Total         int64         `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        SaleStatus    `gorm:"type:varchar(20);default:'COMPLETED'" json:"status"`

	Items []SaleItem `json:"items"`
}

type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"` // snapshot at sale time
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"` // céntimos, at sale time
	Subtotal  int64     `gorm:"not null" json:"subtotal"`
}

// SaleSequence backs sale number generation. One row per receipt type,
// incremented inside the same transaction that commits the sale, so
// numbers are unique even under concurrent finalization.
type SaleSequence struct {
	ReceiptType ReceiptType `gorm:"type:varchar(10);primary_key"`
	LastValue   int64       `gorm:"not null;default:0"`
}
