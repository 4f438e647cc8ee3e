// Package memory provides in-memory repository implementations, used
// by tests and as a zero-setup backing store for demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

// OrderRepo is an in-memory repository.OrderRepository.
type OrderRepo struct {
	mu     sync.RWMutex
	orders map[string]domain.WorkOrder
}

// NewOrderRepo creates an empty in-memory order repository.
func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[string]domain.WorkOrder)}
}

func (r *OrderRepo) Create(_ context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("order %q already exists", order.ID)
	}
	for _, o := range r.orders {
		if o.Number == order.Number {
			return fmt.Errorf("order number %q already exists", order.Number)
		}
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*domain.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %q: %w", id, repository.ErrNotFound)
	}
	return &o, nil
}

func (r *OrderRepo) GetByNumber(_ context.Context, number string) (*domain.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.Number == number {
			o := o
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order %q: %w", number, repository.ErrNotFound)
}

func (r *OrderRepo) Update(_ context.Context, order *domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order %q: %w", order.ID, repository.ErrNotFound)
	}
	r.orders[order.ID] = *order
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, id)
	return nil
}

func (r *OrderRepo) List(_ context.Context, status domain.Status, limit, offset int) ([]domain.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []domain.WorkOrder
	for _, o := range r.orders {
		if status != "" && o.Status != status {
			continue
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].UpdatedAt.After(orders[j].UpdatedAt)
	})

	if offset >= len(orders) {
		return nil, nil
	}
	orders = orders[offset:]
	if limit > 0 && limit < len(orders) {
		orders = orders[:limit]
	}
	return orders, nil
}

func (r *OrderRepo) ListAll(_ context.Context) ([]domain.WorkOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]domain.WorkOrder, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].IntakeDate.Before(orders[j].IntakeDate)
	})
	return orders, nil
}

func (r *OrderRepo) CountByStatus(_ context.Context) (map[domain.Status]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[domain.Status]int)
	for _, o := range r.orders {
		counts[o.Status]++
	}
	return counts, nil
}

func (r *OrderRepo) LastNumberForDay(_ context.Context, dayPrefix string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var last string
	for _, o := range r.orders {
		if strings.HasPrefix(o.Number, dayPrefix) && o.Number > last {
			last = o.Number
		}
	}
	return last, nil
}

func (r *OrderRepo) ReplaceAll(_ context.Context, orders []domain.WorkOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replacement := make(map[string]domain.WorkOrder, len(orders))
	for _, o := range orders {
		replacement[o.ID] = o
	}
	r.orders = replacement
	return nil
}

// CatalogPartRepo is an in-memory repository.CatalogPartRepository.
type CatalogPartRepo struct {
	mu    sync.RWMutex
	parts map[string]domain.CatalogPart
}

// NewCatalogPartRepo creates an empty in-memory catalog.
func NewCatalogPartRepo() *CatalogPartRepo {
	return &CatalogPartRepo{parts: make(map[string]domain.CatalogPart)}
}

func (r *CatalogPartRepo) Create(_ context.Context, part *domain.CatalogPart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.parts[part.ID]; exists {
		return fmt.Errorf("catalog part %q already exists", part.ID)
	}
	r.parts[part.ID] = *part
	return nil
}

func (r *CatalogPartRepo) GetByID(_ context.Context, id string) (*domain.CatalogPart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parts[id]
	if !ok {
		return nil, fmt.Errorf("catalog part %q: %w", id, repository.ErrNotFound)
	}
	return &p, nil
}

func (r *CatalogPartRepo) Search(_ context.Context, query string, category domain.PartCategory, limit int) ([]domain.CatalogPart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	var matches []domain.CatalogPart
	for _, p := range r.parts {
		if category != "" && p.Category != category {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		matches = append(matches, p)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *CatalogPartRepo) Update(_ context.Context, part *domain.CatalogPart) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.parts[part.ID]; !ok {
		return fmt.Errorf("catalog part %q: %w", part.ID, repository.ErrNotFound)
	}
	r.parts[part.ID] = *part
	return nil
}

func (r *CatalogPartRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.parts, id)
	return nil
}

func (r *CatalogPartRepo) List(_ context.Context) ([]domain.CatalogPart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	parts := make([]domain.CatalogPart, 0, len(r.parts))
	for _, p := range r.parts {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool {
		if parts[i].Category != parts[j].Category {
			return parts[i].Category < parts[j].Category
		}
		return parts[i].Name < parts[j].Name
	})
	return parts, nil
}

func (r *CatalogPartRepo) AdjustStock(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.parts[id]
	if !ok {
		return fmt.Errorf("catalog part %q: %w", id, repository.ErrNotFound)
	}
	if p.Stock == nil {
		return nil
	}
	n := *p.Stock + delta
	p.Stock = &n
	r.parts[id] = p
	return nil
}

// TechnicianRepo is an in-memory repository.TechnicianRepository.
type TechnicianRepo struct {
	mu    sync.RWMutex
	techs map[string]domain.Technician
}

// NewTechnicianRepo creates an empty in-memory technician repository.
func NewTechnicianRepo() *TechnicianRepo {
	return &TechnicianRepo{techs: make(map[string]domain.Technician)}
}

func (r *TechnicianRepo) Create(_ context.Context, tech *domain.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.techs[tech.ID]; exists {
		return fmt.Errorf("technician %q already exists", tech.ID)
	}
	r.techs[tech.ID] = *tech
	return nil
}

func (r *TechnicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.techs[id]
	if !ok {
		return nil, fmt.Errorf("technician %q: %w", id, repository.ErrNotFound)
	}
	return &t, nil
}

func (r *TechnicianRepo) Update(_ context.Context, tech *domain.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.techs[tech.ID]; !ok {
		return fmt.Errorf("technician %q: %w", tech.ID, repository.ErrNotFound)
	}
	r.techs[tech.ID] = *tech
	return nil
}

func (r *TechnicianRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.techs, id)
	return nil
}

func (r *TechnicianRepo) List(_ context.Context, activeOnly bool) ([]domain.Technician, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var techs []domain.Technician
	for _, t := range r.techs {
		if activeOnly && !t.Active {
			continue
		}
		techs = append(techs, t)
	}
	sort.Slice(techs, func(i, j int) bool { return techs[i].Name < techs[j].Name })
	return techs, nil
}

// CustomerRepo is an in-memory repository.CustomerRepository.
type CustomerRepo struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

// NewCustomerRepo creates an empty in-memory customer repository.
func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{customers: make(map[string]domain.Customer)}
}

func (r *CustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.customers[customer.ID]; exists {
		return fmt.Errorf("customer %q already exists", customer.ID)
	}
	r.customers[customer.ID] = *customer
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer %q: %w", id, repository.ErrNotFound)
	}
	return &c, nil
}

func (r *CustomerRepo) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Phone == phone {
			c := c
			return &c, nil
		}
	}
	return nil, fmt.Errorf("customer with phone %q: %w", phone, repository.ErrNotFound)
}

func (r *CustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return fmt.Errorf("customer %q: %w", customer.ID, repository.ErrNotFound)
	}
	r.customers[customer.ID] = *customer
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.customers, id)
	return nil
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]domain.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		customers = append(customers, c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].Name < customers[j].Name })

	if offset >= len(customers) {
		return nil, nil
	}
	customers = customers[offset:]
	if limit > 0 && limit < len(customers) {
		customers = customers[:limit]
	}
	return customers, nil
}

// BicycleRepo is an in-memory repository.BicycleRepository.
type BicycleRepo struct {
	mu       sync.RWMutex
	bicycles map[string]domain.Bicycle
}

// NewBicycleRepo creates an empty in-memory bicycle repository.
func NewBicycleRepo() *BicycleRepo {
	return &BicycleRepo{bicycles: make(map[string]domain.Bicycle)}
}

func (r *BicycleRepo) Create(_ context.Context, bicycle *domain.Bicycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bicycles[bicycle.ID]; exists {
		return fmt.Errorf("bicycle %q already exists", bicycle.ID)
	}
	r.bicycles[bicycle.ID] = *bicycle
	return nil
}

func (r *BicycleRepo) GetByID(_ context.Context, id string) (*domain.Bicycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bicycles[id]
	if !ok {
		return nil, fmt.Errorf("bicycle %q: %w", id, repository.ErrNotFound)
	}
	return &b, nil
}

func (r *BicycleRepo) GetByCustomerID(_ context.Context, customerID string) ([]domain.Bicycle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var bicycles []domain.Bicycle
	for _, b := range r.bicycles {
		if b.CustomerID == customerID {
			bicycles = append(bicycles, b)
		}
	}
	sort.Slice(bicycles, func(i, j int) bool { return bicycles[i].ID < bicycles[j].ID })
	return bicycles, nil
}

func (r *BicycleRepo) Update(_ context.Context, bicycle *domain.Bicycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bicycles[bicycle.ID]; !ok {
		return fmt.Errorf("bicycle %q: %w", bicycle.ID, repository.ErrNotFound)
	}
	r.bicycles[bicycle.ID] = *bicycle
	return nil
}

func (r *BicycleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bicycles, id)
	return nil
}
