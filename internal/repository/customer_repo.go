package repository

import (
	"go-farmacia-pos/internal/model"

	"gorm.io/gorm"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll() ([]model.Customer, error)
	FindByDocument(document string) (*model.Customer, error)
	Count() (int64, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll() ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByDocument(document string) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, "document_number = ?", document).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &customer, nil
}

func (r *customerRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Customer{}).Count(&count).Error
	return count, err
}
