package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

// CustomerRepo implements repository.CustomerRepository
type CustomerRepo struct {
	db *DB
}

// NewCustomerRepo creates a new CustomerRepo
func NewCustomerRepo(db *DB) repository.CustomerRepository {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	query := `INSERT INTO customers (id, name, phone, email, address, registered_at) VALUES (?, ?, ?, ?, ?, ?)`
	var registeredAt interface{}
	if customer.RegisteredAt != nil {
		registeredAt = *customer.RegisteredAt
	}
	_, err := r.db.ExecContext(ctx, query,
		customer.ID, customer.Name, customer.Phone, customer.Email, customer.Address, registeredAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `SELECT id, name, phone, email, address, registered_at FROM customers WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*domain.Customer, error) {
	query := `SELECT id, name, phone, email, address, registered_at FROM customers WHERE phone = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, phone), phone)
}

func (r *CustomerRepo) scanOne(row *sql.Row, key string) (*domain.Customer, error) {
	customer := &domain.Customer{}
	var email, address sql.NullString
	var registeredAt sql.NullTime

	err := row.Scan(&customer.ID, &customer.Name, &customer.Phone, &email, &address, &registeredAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %q: %w", key, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	customer.Email = email.String
	customer.Address = address.String
	if registeredAt.Valid {
		ts := registeredAt.Time
		customer.RegisteredAt = &ts
	}
	return customer, nil
}

func (r *CustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	query := `UPDATE customers SET name = ?, phone = ?, email = ?, address = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		customer.Name, customer.Phone, customer.Email, customer.Address, customer.ID)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}

func (r *CustomerRepo) List(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	query := `SELECT id, name, phone, email, address, registered_at FROM customers ORDER BY name LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		var c domain.Customer
		var email, address sql.NullString
		var registeredAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &email, &address, &registeredAt); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.Email = email.String
		c.Address = address.String
		if registeredAt.Valid {
			ts := registeredAt.Time
			c.RegisteredAt = &ts
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
