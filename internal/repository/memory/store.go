// Package memory implements the persistence interfaces on in-process
// maps. It backs development and tests when no database is configured,
// seeded with the default pharmacy catalog.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go-farmacia-pos/internal/model"
	"go-farmacia-pos/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	mu        sync.Mutex
	products  map[uuid.UUID]*model.Product
	customers map[uuid.UUID]*model.Customer
	users     map[uuid.UUID]*model.User
	sales     []*model.Sale
	movements []model.InventoryMovement
	sequences map[model.ReceiptType]int64
}

func New() *Store {
	return &Store{
		products:  make(map[uuid.UUID]*model.Product),
		customers: make(map[uuid.UUID]*model.Customer),
		users:     make(map[uuid.UUID]*model.User),
		sequences: make(map[model.ReceiptType]int64),
	}
}

// NewSeeded returns a store preloaded with the default catalog used when
// no database is configured.
func NewSeeded() *Store {
	s := New()
	seed := []model.Product{
		{Code: "001", Name: "Paracetamol 500mg", Price: 250, Stock: 100, MinStock: 5, IsActive: true},
		{Code: "002", Name: "Ibuprofeno 400mg", Price: 320, Stock: 50, MinStock: 5, IsActive: true},
		{Code: "003", Name: "Amoxicilina 500mg", Price: 890, Stock: 25, MinStock: 5, IsActive: true},
		{Code: "004", Name: "Vitamina C 1000mg", Price: 1500, Stock: 80, MinStock: 5, IsActive: true},
		{Code: "005", Name: "Aspirina 100mg", Price: 180, Stock: 200, MinStock: 5, IsActive: true},
	}
	for i := range seed {
		if err := s.Products().Create(&seed[i]); err != nil {
			panic(err)
		}
	}
	return s
}

func (s *Store) Products() repository.ProductRepository   { return &productStore{s} }
func (s *Store) Customers() repository.CustomerRepository { return &customerStore{s} }
func (s *Store) Sales() repository.SaleRepository         { return &saleStore{s} }
func (s *Store) Movements() repository.MovementRepository { return &movementStore{s} }
func (s *Store) Users() repository.UserRepository         { return &userStore{s} }

func stamp(b *model.BaseModel) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
}

// catalogLess orders products the way the catalog lists them: name, then
// code as a stable tiebreak.
func catalogLess(a, b *model.Product) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Code < b.Code
}

type productStore struct{ *Store }

func (ps *productStore) Create(product *model.Product) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, p := range ps.products {
		if p.Code == product.Code {
			return model.ErrDuplicateCode
		}
	}
	stamp(&product.BaseModel)
	clone := *product
	ps.products[product.ID] = &clone
	return nil
}

func (ps *productStore) Update(product *model.Product) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if _, ok := ps.products[product.ID]; !ok {
		return model.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	clone := *product
	ps.products[product.ID] = &clone
	return nil
}

func (ps *productStore) FindAll() ([]model.Product, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.activeSorted(), nil
}

// activeSorted must be called with the lock held.
func (s *Store) activeSorted() []model.Product {
	active := make([]*model.Product, 0, len(s.products))
	for _, p := range s.products {
		if p.IsActive {
			active = append(active, p)
		}
	}
	sort.Slice(active, func(i, j int) bool { return catalogLess(active[i], active[j]) })
	out := make([]model.Product, len(active))
	for i, p := range active {
		out[i] = *p
	}
	return out
}

func (ps *productStore) FindByID(id uuid.UUID) (*model.Product, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.products[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (ps *productStore) FindByCode(code string) (*model.Product, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for _, p := range ps.products {
		if p.IsActive && p.Code == code {
			clone := *p
			return &clone, nil
		}
	}
	return nil, model.ErrNotFound
}

func (ps *productStore) SearchByName(token string) (*model.Product, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	token = strings.ToLower(token)
	for _, p := range ps.activeSorted() {
		if strings.Contains(strings.ToLower(p.Name), token) {
			clone := p
			return &clone, nil
		}
	}
	return nil, model.ErrNotFound
}

func (ps *productStore) LowStock() ([]model.Product, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	var low []model.Product
	for _, p := range ps.products {
		if p.IsActive && p.Stock <= p.MinStock {
			low = append(low, *p)
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].Stock != low[j].Stock {
			return low[i].Stock < low[j].Stock
		}
		return low[i].Name < low[j].Name
	})
	return low, nil
}

func (ps *productStore) CountActive() (int64, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	var count int64
	for _, p := range ps.products {
		if p.IsActive {
			count++
		}
	}
	return count, nil
}

func (ps *productStore) Deactivate(id uuid.UUID) error {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.products[id]
	if !ok {
		return model.ErrNotFound
	}
	p.IsActive = false
	p.UpdatedAt = time.Now()
	return nil
}

type customerStore struct{ *Store }

func (cs *customerStore) Create(customer *model.Customer) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	stamp(&customer.BaseModel)
	clone := *customer
	cs.customers[customer.ID] = &clone
	return nil
}

func (cs *customerStore) FindAll() ([]model.Customer, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make([]model.Customer, 0, len(cs.customers))
	for _, c := range cs.customers {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (cs *customerStore) FindByDocument(document string) (*model.Customer, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for _, c := range cs.customers {
		if c.DocumentNumber == document {
			clone := *c
			return &clone, nil
		}
	}
	return nil, model.ErrNotFound
}

func (cs *customerStore) Count() (int64, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return int64(len(cs.customers)), nil
}

type userStore struct{ *Store }

func (us *userStore) FindByEmail(email string) (*model.User, error) {
	us.mu.Lock()
	defer us.mu.Unlock()
	for _, u := range us.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, model.ErrNotFound
}

func (us *userStore) FindByID(id uuid.UUID) (*model.User, error) {
	us.mu.Lock()
	defer us.mu.Unlock()
	u, ok := us.users[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (us *userStore) Create(user *model.User) error {
	us.mu.Lock()
	defer us.mu.Unlock()
	stamp(&user.BaseModel)
	clone := *user
	us.users[user.ID] = &clone
	return nil
}

func (us *userStore) Update(user *model.User) error {
	us.mu.Lock()
	defer us.mu.Unlock()
	if _, ok := us.users[user.ID]; !ok {
		return model.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	clone := *user
	us.users[user.ID] = &clone
	return nil
}
