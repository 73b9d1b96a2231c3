package repository

import (
	"fmt"
	"time"

	"go-farmacia-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateSale assigns the sale number and commits the sale, its items,
	// the stock decrements and one inventory movement per item as a single
	// transaction. On any failure nothing is persisted.
	CreateSale(sale *model.Sale) error
	FindByID(id uuid.UUID) (*model.Sale, error)
	TodaySales() ([]model.Sale, error)
	TodayTotals() (revenue int64, count int64, err error)
	TopProducts(limit int) ([]TopProduct, error)
}

// TopProduct ranks a product by cumulative quantity sold across all
// committed sales.
type TopProduct struct {
	ProductID    uuid.UUID `json:"product_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	TotalSold    int       `json:"total_sold"`
	TotalRevenue int64     `json:"total_revenue"`
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) CreateSale(sale *model.Sale) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// A. Next sale number from the per-receipt-type sequence. The
		// increment is one atomic statement that also creates the row
		// on first use, so two concurrent finalizations of the same
		// receipt type can never draw the same number and the sale
		// INSERT never hits the sale_number unique index.
		var next int64
		if err := tx.Raw(`
			INSERT INTO sale_sequences (receipt_type, last_value)
			VALUES (?, 1)
			ON CONFLICT (receipt_type)
			DO UPDATE SET last_value = sale_sequences.last_value + 1
			RETURNING last_value`, sale.ReceiptType).Scan(&next).Error; err != nil {
			return err
		}
		sale.SaleNumber = fmt.Sprintf("%s-%08d", sale.ReceiptType, next)

		// B. Guarded stock decrement per item. The WHERE stock >= qty
		// condition is the critical section: a concurrent sale that
		// consumed the stock first makes this touch zero rows, and the
		// whole transaction rolls back with InsufficientStock.
		for _, item := range sale.Items {
			res := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				Update("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				available := 0
				var p model.Product
				if err := tx.First(&p, "id = ?", item.ProductID).Error; err == nil {
					available = p.Stock
				}
				return &model.InsufficientStockError{
					ProductID: item.ProductID,
					Requested: item.Quantity,
					Available: available,
				}
			}
		}

		// C. Sale + items (items created through the association).
		if err := tx.Create(sale).Error; err != nil {
			return err
		}

		// D. One OUT movement per item, referencing the sale.
		for _, item := range sale.Items {
			movement := model.InventoryMovement{
				ProductID:     item.ProductID,
				MovementType:  model.MovementOut,
				Quantity:      -item.Quantity,
				ReferenceType: model.ReferenceSale,
				ReferenceID:   &sale.ID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Customer").Preload("Items").First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &sale, nil
}

func (r *saleRepo) TodaySales() ([]model.Sale, error) {
	start, end := todayBounds()
	var sales []model.Sale
	err := r.db.Preload("Customer").Preload("Items").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) TodayTotals() (int64, int64, error) {
	start, end := todayBounds()
	var row struct {
		Revenue int64
		Count   int64
	}
	err := r.db.Model(&model.Sale{}).
		Select("COALESCE(SUM(total), 0) AS revenue, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ? AND status = ?", start, end, model.SaleCompleted).
		Scan(&row).Error
	return row.Revenue, row.Count, err
}

func (r *saleRepo) TopProducts(limit int) ([]TopProduct, error) {
	var results []TopProduct
	err := r.db.Raw(`
		SELECT p.id AS product_id,
		       p.code,
		       p.name,
		       COALESCE(SUM(si.quantity), 0) AS total_sold,
		       COALESCE(SUM(si.subtotal), 0) AS total_revenue
		FROM sale_items si
		JOIN products p ON p.id = si.product_id
		WHERE si.deleted_at IS NULL
		GROUP BY p.id, p.code, p.name
		ORDER BY total_sold DESC, p.code ASC
		LIMIT ?`, limit).Scan(&results).Error
	return results, err
}

// todayBounds returns the store-local calendar day [start, end).
func todayBounds() (time.Time, time.Time) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
