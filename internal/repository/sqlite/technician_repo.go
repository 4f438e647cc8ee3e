package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

// TechnicianRepo implements repository.TechnicianRepository
type TechnicianRepo struct {
	db *DB
}

// NewTechnicianRepo creates a new TechnicianRepo
func NewTechnicianRepo(db *DB) repository.TechnicianRepository {
	return &TechnicianRepo{db: db}
}

func (r *TechnicianRepo) Create(ctx context.Context, tech *domain.Technician) error {
	specialties, err := json.Marshal(tech.Specialties)
	if err != nil {
		return fmt.Errorf("failed to encode specialties: %w", err)
	}
	query := `INSERT INTO technicians (id, name, specialties_json, active) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, tech.ID, tech.Name, string(specialties), tech.Active); err != nil {
		return fmt.Errorf("failed to create technician: %w", err)
	}
	return nil
}

func scanTechnician(row scanner) (*domain.Technician, error) {
	t := &domain.Technician{}
	var specialtiesJSON sql.NullString

	if err := row.Scan(&t.ID, &t.Name, &specialtiesJSON, &t.Active); err != nil {
		return nil, err
	}
	if specialtiesJSON.Valid && specialtiesJSON.String != "" {
		if err := json.Unmarshal([]byte(specialtiesJSON.String), &t.Specialties); err != nil {
			return nil, fmt.Errorf("failed to decode specialties: %w", err)
		}
	}
	return t, nil
}

func (r *TechnicianRepo) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	query := `SELECT id, name, specialties_json, active FROM technicians WHERE id = ?`
	t, err := scanTechnician(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("technician %q: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get technician: %w", err)
	}
	return t, nil
}

func (r *TechnicianRepo) Update(ctx context.Context, tech *domain.Technician) error {
	specialties, err := json.Marshal(tech.Specialties)
	if err != nil {
		return fmt.Errorf("failed to encode specialties: %w", err)
	}
	query := `UPDATE technicians SET name = ?, specialties_json = ?, active = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, tech.Name, string(specialties), tech.Active, tech.ID); err != nil {
		return fmt.Errorf("failed to update technician: %w", err)
	}
	return nil
}

func (r *TechnicianRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM technicians WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete technician: %w", err)
	}
	return nil
}

func (r *TechnicianRepo) List(ctx context.Context, activeOnly bool) ([]domain.Technician, error) {
	query := `SELECT id, name, specialties_json, active FROM technicians ORDER BY name`
	if activeOnly {
		query = `SELECT id, name, specialties_json, active FROM technicians WHERE active = 1 ORDER BY name`
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}
	defer rows.Close()

	var techs []domain.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan technician: %w", err)
		}
		techs = append(techs, *t)
	}
	return techs, rows.Err()
}
