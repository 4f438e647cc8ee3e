package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

// BicycleRepo implements repository.BicycleRepository
type BicycleRepo struct {
	db *DB
}

// NewBicycleRepo creates a new BicycleRepo
func NewBicycleRepo(db *DB) repository.BicycleRepository {
	return &BicycleRepo{db: db}
}

func (r *BicycleRepo) Create(ctx context.Context, bicycle *domain.Bicycle) error {
	query := `INSERT INTO bicycles (id, customer_id, brand, model, serial, color, type, year)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		bicycle.ID, bicycle.CustomerID, bicycle.Brand, bicycle.Model,
		bicycle.Serial, bicycle.Color, string(bicycle.Type), bicycle.Year)
	if err != nil {
		return fmt.Errorf("failed to create bicycle: %w", err)
	}
	return nil
}

func (r *BicycleRepo) GetByID(ctx context.Context, id string) (*domain.Bicycle, error) {
	query := `SELECT id, customer_id, brand, model, serial, color, type, year FROM bicycles WHERE id = ?`
	b, err := scanBicycle(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bicycle %q: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bicycle: %w", err)
	}
	return b, nil
}

func scanBicycle(row scanner) (*domain.Bicycle, error) {
	b := &domain.Bicycle{}
	var model, serial, color sql.NullString
	var year sql.NullInt64

	err := row.Scan(&b.ID, &b.CustomerID, &b.Brand, &model, &serial, &color, &b.Type, &year)
	if err != nil {
		return nil, err
	}
	b.Model = model.String
	b.Serial = serial.String
	b.Color = color.String
	b.Year = int(year.Int64)
	return b, nil
}

func (r *BicycleRepo) GetByCustomerID(ctx context.Context, customerID string) ([]domain.Bicycle, error) {
	query := `SELECT id, customer_id, brand, model, serial, color, type, year FROM bicycles WHERE customer_id = ?`
	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bicycles by customer: %w", err)
	}
	defer rows.Close()

	var bicycles []domain.Bicycle
	for rows.Next() {
		b, err := scanBicycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bicycle: %w", err)
		}
		bicycles = append(bicycles, *b)
	}
	return bicycles, rows.Err()
}

func (r *BicycleRepo) Update(ctx context.Context, bicycle *domain.Bicycle) error {
	query := `UPDATE bicycles SET brand = ?, model = ?, serial = ?, color = ?, type = ?, year = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		bicycle.Brand, bicycle.Model, bicycle.Serial, bicycle.Color,
		string(bicycle.Type), bicycle.Year, bicycle.ID)
	if err != nil {
		return fmt.Errorf("failed to update bicycle: %w", err)
	}
	return nil
}

func (r *BicycleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bicycles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bicycle: %w", err)
	}
	return nil
}
