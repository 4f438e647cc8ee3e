package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

// OrderRepo implements repository.OrderRepository
type OrderRepo struct {
	db *DB
}

// NewOrderRepo creates a new OrderRepo
func NewOrderRepo(db *DB) repository.OrderRepository {
	return &OrderRepo{db: db}
}

const orderColumns = `id, number, customer_json, bicycle_json, intake_date, estimated_delivery,
	delivered_at, problems_json, diagnosis, initial_notes, technician_notes,
	parts_json, labor_json, tasks_json, photos_json, observations_json,
	notifications_json, status, priority, technician, total_cost, advance, balance, updated_at`

func marshalJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// orderArgs flattens an aggregate into the column order above.
func orderArgs(o *domain.WorkOrder) ([]interface{}, error) {
	customerJSON, err := marshalJSON(o.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to encode customer: %w", err)
	}
	bicycleJSON, err := marshalJSON(o.Bicycle)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bicycle: %w", err)
	}
	problemsJSON, err := marshalJSON(o.Problems)
	if err != nil {
		return nil, fmt.Errorf("failed to encode problems: %w", err)
	}
	partsJSON, err := marshalJSON(o.Parts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode parts: %w", err)
	}
	laborJSON, err := marshalJSON(o.Labor)
	if err != nil {
		return nil, fmt.Errorf("failed to encode labor: %w", err)
	}
	tasksJSON, err := marshalJSON(o.Tasks)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tasks: %w", err)
	}
	photosJSON, err := marshalJSON(o.Photos)
	if err != nil {
		return nil, fmt.Errorf("failed to encode photos: %w", err)
	}
	observationsJSON, err := marshalJSON(o.Observations)
	if err != nil {
		return nil, fmt.Errorf("failed to encode observations: %w", err)
	}
	notificationsJSON, err := marshalJSON(o.Notifications)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notifications: %w", err)
	}

	var deliveredAt interface{}
	if o.ActualDelivery != nil {
		deliveredAt = *o.ActualDelivery
	}

	return []interface{}{
		o.ID, o.Number, customerJSON, bicycleJSON, o.IntakeDate, o.EstimatedDelivery,
		deliveredAt, problemsJSON, o.Diagnosis, o.InitialObservations, o.TechnicianObservations,
		partsJSON, laborJSON, tasksJSON, photosJSON, observationsJSON,
		notificationsJSON, string(o.Status), string(o.Priority), o.Technician,
		o.TotalCost.String(), o.Advance.String(), o.Balance.String(), o.UpdatedAt,
	}, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row scanner) (*domain.WorkOrder, error) {
	var (
		o                 domain.WorkOrder
		customerJSON      string
		bicycleJSON       string
		deliveredAt       sql.NullTime
		problemsJSON      sql.NullString
		diagnosis         sql.NullString
		initialNotes      sql.NullString
		techNotes         sql.NullString
		partsJSON         sql.NullString
		laborJSON         sql.NullString
		tasksJSON         sql.NullString
		photosJSON        sql.NullString
		observationsJSON  sql.NullString
		notificationsJSON sql.NullString
		technician        sql.NullString
		totalCost         string
		advance           string
		balance           string
	)

	err := row.Scan(
		&o.ID, &o.Number, &customerJSON, &bicycleJSON, &o.IntakeDate, &o.EstimatedDelivery,
		&deliveredAt, &problemsJSON, &diagnosis, &initialNotes, &techNotes,
		&partsJSON, &laborJSON, &tasksJSON, &photosJSON, &observationsJSON,
		&notificationsJSON, &o.Status, &o.Priority, &technician,
		&totalCost, &advance, &balance, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(customerJSON), &o.Customer); err != nil {
		return nil, fmt.Errorf("failed to decode customer: %w", err)
	}
	if err := json.Unmarshal([]byte(bicycleJSON), &o.Bicycle); err != nil {
		return nil, fmt.Errorf("failed to decode bicycle: %w", err)
	}

	if deliveredAt.Valid {
		ts := deliveredAt.Time
		o.ActualDelivery = &ts
	}
	o.Diagnosis = diagnosis.String
	o.InitialObservations = initialNotes.String
	o.TechnicianObservations = techNotes.String
	o.Technician = technician.String

	for _, col := range []struct {
		raw  sql.NullString
		dest interface{}
		name string
	}{
		{problemsJSON, &o.Problems, "problems"},
		{partsJSON, &o.Parts, "parts"},
		{laborJSON, &o.Labor, "labor"},
		{tasksJSON, &o.Tasks, "tasks"},
		{photosJSON, &o.Photos, "photos"},
		{observationsJSON, &o.Observations, "observations"},
		{notificationsJSON, &o.Notifications, "notifications"},
	} {
		if !col.raw.Valid || col.raw.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(col.raw.String), col.dest); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", col.name, err)
		}
	}

	if o.TotalCost, err = decimal.NewFromString(totalCost); err != nil {
		return nil, fmt.Errorf("failed to decode total cost: %w", err)
	}
	if o.Advance, err = decimal.NewFromString(advance); err != nil {
		return nil, fmt.Errorf("failed to decode advance: %w", err)
	}
	if o.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, fmt.Errorf("failed to decode balance: %w", err)
	}

	return &o, nil
}

func (r *OrderRepo) Create(ctx context.Context, order *domain.WorkOrder) error {
	args, err := orderArgs(order)
	if err != nil {
		return err
	}
	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*domain.WorkOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %q: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (r *OrderRepo) GetByNumber(ctx context.Context, number string) (*domain.WorkOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE number = ?`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, number))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %q: %w", number, repository.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order by number: %w", err)
	}
	return order, nil
}

func (r *OrderRepo) Update(ctx context.Context, order *domain.WorkOrder) error {
	args, err := orderArgs(order)
	if err != nil {
		return err
	}
	// Shift id to the WHERE clause.
	args = append(args[1:], order.ID)

	query := `UPDATE orders SET
		number = ?, customer_json = ?, bicycle_json = ?, intake_date = ?, estimated_delivery = ?,
		delivered_at = ?, problems_json = ?, diagnosis = ?, initial_notes = ?, technician_notes = ?,
		parts_json = ?, labor_json = ?, tasks_json = ?, photos_json = ?, observations_json = ?,
		notifications_json = ?, status = ?, priority = ?, technician = ?,
		total_cost = ?, advance = ?, balance = ?, updated_at = ?
		WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("order %q: %w", order.ID, repository.ErrNotFound)
	}
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, status domain.Status, limit, offset int) ([]domain.WorkOrder, error) {
	var query string
	var args []interface{}

	if status != "" {
		query = `SELECT ` + orderColumns + ` FROM orders WHERE status = ? ORDER BY updated_at DESC LIMIT ? OFFSET ?`
		args = []interface{}{string(status), limit, offset}
	} else {
		query = `SELECT ` + orderColumns + ` FROM orders ORDER BY updated_at DESC LIMIT ? OFFSET ?`
		args = []interface{}{limit, offset}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderRepo) ListAll(ctx context.Context) ([]domain.WorkOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY intake_date ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]domain.WorkOrder, error) {
	var orders []domain.WorkOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *OrderRepo) CountByStatus(ctx context.Context) (map[domain.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order count: %w", err)
		}
		counts[domain.Status(status)] = count
	}
	return counts, rows.Err()
}

func (r *OrderRepo) LastNumberForDay(ctx context.Context, dayPrefix string) (string, error) {
	var number string
	err := r.db.QueryRowContext(ctx,
		`SELECT number FROM orders WHERE number LIKE ? ORDER BY number DESC LIMIT 1`,
		dayPrefix+"%").Scan(&number)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last order number: %w", err)
	}
	return number, nil
}

func (r *OrderRepo) ReplaceAll(ctx context.Context, orders []domain.WorkOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders`); err != nil {
		return fmt.Errorf("failed to clear orders: %w", err)
	}

	query := `INSERT INTO orders (` + orderColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i := range orders {
		args, err := orderArgs(&orders[i])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to import order %q: %w", orders[i].Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}
