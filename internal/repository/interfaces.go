// Package repository defines interfaces for data persistence
package repository

import (
	"context"
	"errors"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// OrderRepository defines the interface for work order persistence.
// Implementations store the aggregate whole; callers mutate through
// domain methods and hand the result back via Update.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.WorkOrder) error
	GetByID(ctx context.Context, id string) (*domain.WorkOrder, error)
	GetByNumber(ctx context.Context, number string) (*domain.WorkOrder, error)
	Update(ctx context.Context, order *domain.WorkOrder) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, status domain.Status, limit, offset int) ([]domain.WorkOrder, error)
	ListAll(ctx context.Context) ([]domain.WorkOrder, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int, error)
	// LastNumberForDay returns the highest order number sharing the
	// given OTyymmdd prefix, or "" when the day has no orders.
	LastNumberForDay(ctx context.Context, dayPrefix string) (string, error)
	// ReplaceAll swaps the entire order set, used by backup import.
	ReplaceAll(ctx context.Context, orders []domain.WorkOrder) error
}

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]domain.Customer, error)
}

// BicycleRepository defines the interface for bicycle data operations
type BicycleRepository interface {
	Create(ctx context.Context, bicycle *domain.Bicycle) error
	GetByID(ctx context.Context, id string) (*domain.Bicycle, error)
	GetByCustomerID(ctx context.Context, customerID string) ([]domain.Bicycle, error)
	Update(ctx context.Context, bicycle *domain.Bicycle) error
	Delete(ctx context.Context, id string) error
}

// CatalogPartRepository defines the interface for the spare-part catalog
type CatalogPartRepository interface {
	Create(ctx context.Context, part *domain.CatalogPart) error
	GetByID(ctx context.Context, id string) (*domain.CatalogPart, error)
	// Search matches name substrings, optionally filtered by category.
	Search(ctx context.Context, query string, category domain.PartCategory, limit int) ([]domain.CatalogPart, error)
	Update(ctx context.Context, part *domain.CatalogPart) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.CatalogPart, error)
	// AdjustStock adds delta to the stock count of parts that track it.
	AdjustStock(ctx context.Context, id string, delta int) error
}

// TechnicianRepository defines the interface for technician data operations
type TechnicianRepository interface {
	Create(ctx context.Context, tech *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	Update(ctx context.Context, tech *domain.Technician) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]domain.Technician, error)
}

// UserRepository defines the interface for staff account operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Count(ctx context.Context) (int, error)
}

// SettingsRepository handles application configuration
type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Repositories bundles all repository interfaces
type Repositories struct {
	Orders      OrderRepository
	Customers   CustomerRepository
	Bicycles    BicycleRepository
	Parts       CatalogPartRepository
	Technicians TechnicianRepository
	Users       UserRepository
	Settings    SettingsRepository
}
