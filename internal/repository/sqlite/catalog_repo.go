package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

// CatalogPartRepo implements repository.CatalogPartRepository
type CatalogPartRepo struct {
	db *DB
}

// NewCatalogPartRepo creates a new CatalogPartRepo
func NewCatalogPartRepo(db *DB) repository.CatalogPartRepository {
	return &CatalogPartRepo{db: db}
}

func (r *CatalogPartRepo) Create(ctx context.Context, part *domain.CatalogPart) error {
	query := `INSERT INTO catalog_parts (id, name, unit_price, category, description, stock)
		VALUES (?, ?, ?, ?, ?, ?)`
	var stock interface{}
	if part.Stock != nil {
		stock = *part.Stock
	}
	_, err := r.db.ExecContext(ctx, query,
		part.ID, part.Name, part.UnitPrice.String(), string(part.Category), part.Description, stock)
	if err != nil {
		return fmt.Errorf("failed to create catalog part: %w", err)
	}
	return nil
}

func scanPart(row scanner) (*domain.CatalogPart, error) {
	p := &domain.CatalogPart{}
	var unitPrice string
	var description sql.NullString
	var stock sql.NullInt64

	if err := row.Scan(&p.ID, &p.Name, &unitPrice, &p.Category, &description, &stock); err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to decode unit price: %w", err)
	}
	p.UnitPrice = price
	p.Description = description.String
	if stock.Valid {
		n := int(stock.Int64)
		p.Stock = &n
	}
	return p, nil
}

func (r *CatalogPartRepo) GetByID(ctx context.Context, id string) (*domain.CatalogPart, error) {
	query := `SELECT id, name, unit_price, category, description, stock FROM catalog_parts WHERE id = ?`
	p, err := scanPart(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("catalog part %q: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog part: %w", err)
	}
	return p, nil
}

func (r *CatalogPartRepo) Search(ctx context.Context, query string, category domain.PartCategory, limit int) ([]domain.CatalogPart, error) {
	var sqlQuery string
	var args []interface{}

	pattern := "%" + query + "%"
	if category != "" {
		sqlQuery = `SELECT id, name, unit_price, category, description, stock FROM catalog_parts
			WHERE name LIKE ? AND category = ? ORDER BY name LIMIT ?`
		args = []interface{}{pattern, string(category), limit}
	} else {
		sqlQuery = `SELECT id, name, unit_price, category, description, stock FROM catalog_parts
			WHERE name LIKE ? ORDER BY name LIMIT ?`
		args = []interface{}{pattern, limit}
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search catalog parts: %w", err)
	}
	defer rows.Close()

	return collectParts(rows)
}

func (r *CatalogPartRepo) List(ctx context.Context) ([]domain.CatalogPart, error) {
	query := `SELECT id, name, unit_price, category, description, stock FROM catalog_parts ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog parts: %w", err)
	}
	defer rows.Close()

	return collectParts(rows)
}

func collectParts(rows *sql.Rows) ([]domain.CatalogPart, error) {
	var parts []domain.CatalogPart
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan catalog part: %w", err)
		}
		parts = append(parts, *p)
	}
	return parts, rows.Err()
}

func (r *CatalogPartRepo) Update(ctx context.Context, part *domain.CatalogPart) error {
	query := `UPDATE catalog_parts SET name = ?, unit_price = ?, category = ?, description = ?, stock = ? WHERE id = ?`
	var stock interface{}
	if part.Stock != nil {
		stock = *part.Stock
	}
	_, err := r.db.ExecContext(ctx, query,
		part.Name, part.UnitPrice.String(), string(part.Category), part.Description, stock, part.ID)
	if err != nil {
		return fmt.Errorf("failed to update catalog part: %w", err)
	}
	return nil
}

func (r *CatalogPartRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM catalog_parts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete catalog part: %w", err)
	}
	return nil
}

func (r *CatalogPartRepo) AdjustStock(ctx context.Context, id string, delta int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE catalog_parts SET stock = stock + ? WHERE id = ? AND stock IS NOT NULL`, delta, id)
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	// Parts without a stock count simply don't track inventory.
	_ = result
	return nil
}
