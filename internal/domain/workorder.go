package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrPartLineNotFound  = errors.New("part line not found")
	ErrLaborLineNotFound = errors.New("labor line not found")
	ErrEmptyObservation  = errors.New("observation text is empty")
)

// NewWorkOrder creates an order at intake. Line-item and log slices
// start empty rather than nil so the order marshals with all lists
// present.
func NewWorkOrder(number string, customer Customer, bicycle Bicycle, estimatedDelivery time.Time, now time.Time) *WorkOrder {
	return &WorkOrder{
		ID:                uuid.NewString(),
		Number:            number,
		Customer:          customer,
		Bicycle:           bicycle,
		IntakeDate:        now,
		EstimatedDelivery: estimatedDelivery,
		Problems:          []string{},
		Parts:             []OrderPartLine{},
		Labor:             []LaborLine{},
		Tasks:             []Task{},
		Photos:            []Photo{},
		Observations:      []string{},
		Notifications:     []ClientNotification{},
		Status:            StatusReceived,
		Priority:          PriorityMedium,
		TotalCost:         decimal.Zero,
		Advance:           decimal.Zero,
		Balance:           decimal.Zero,
		UpdatedAt:         now,
	}
}

// Recalculate rebuilds TotalCost and Balance from the current line
// items. Every line-item or advance mutation goes through here.
func (o *WorkOrder) Recalculate() error {
	total, err := ComputeTotal(o.Parts, o.Labor)
	if err != nil {
		return err
	}
	o.TotalCost = total
	o.Balance = ComputeBalance(total, o.Advance)
	return nil
}

// AddPart appends a part line and recomputes totals.
func (o *WorkOrder) AddPart(line OrderPartLine, now time.Time) error {
	if line.Quantity < 1 {
		return fmt.Errorf("part %q: %w (got %d)", line.PartID, ErrNonPositiveQuantity, line.Quantity)
	}
	if line.UnitPrice.IsNegative() {
		return fmt.Errorf("part %q: %w", line.PartID, ErrNegativePrice)
	}
	o.Parts = append(o.Parts, line)
	o.UpdatedAt = now
	return o.Recalculate()
}

// RemovePart removes the first line matching partID and recomputes.
func (o *WorkOrder) RemovePart(partID string, now time.Time) error {
	for i, line := range o.Parts {
		if line.PartID == partID {
			o.Parts = append(o.Parts[:i], o.Parts[i+1:]...)
			o.UpdatedAt = now
			return o.Recalculate()
		}
	}
	return fmt.Errorf("%w: %q", ErrPartLineNotFound, partID)
}

// AddLabor appends a labor line and recomputes totals. A missing ID is
// assigned.
func (o *WorkOrder) AddLabor(svc LaborLine, now time.Time) error {
	if svc.Price.IsNegative() {
		return fmt.Errorf("labor %q: %w", svc.Description, ErrNegativePrice)
	}
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	o.Labor = append(o.Labor, svc)
	o.UpdatedAt = now
	return o.Recalculate()
}

// RemoveLabor removes the labor line with the given id and recomputes.
func (o *WorkOrder) RemoveLabor(laborID string, now time.Time) error {
	for i, svc := range o.Labor {
		if svc.ID == laborID {
			o.Labor = append(o.Labor[:i], o.Labor[i+1:]...)
			o.UpdatedAt = now
			return o.Recalculate()
		}
	}
	return fmt.Errorf("%w: %q", ErrLaborLineNotFound, laborID)
}

// SetAdvance records the advance payment and recomputes the balance.
// The balance may go negative (overpayment); the advance itself may not.
func (o *WorkOrder) SetAdvance(amount decimal.Decimal, now time.Time) error {
	if amount.IsNegative() {
		return ErrNegativeAdvance
	}
	o.Advance = amount
	o.UpdatedAt = now
	return o.Recalculate()
}

// AddTask appends a checklist task. A missing ID is assigned.
func (o *WorkOrder) AddTask(t Task, now time.Time) Task {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	o.Tasks = append(o.Tasks, t)
	o.UpdatedAt = now
	return t
}

// ToggleTask flips the named task's completed flag. The completion
// timestamp is set on false→true and cleared on true→false, so
// toggling twice is the identity.
func (o *WorkOrder) ToggleTask(taskID string, now time.Time) error {
	for i := range o.Tasks {
		if o.Tasks[i].ID != taskID {
			continue
		}
		if o.Tasks[i].Done {
			o.Tasks[i].Done = false
			o.Tasks[i].CompletedAt = nil
		} else {
			o.Tasks[i].Done = true
			ts := now
			o.Tasks[i].CompletedAt = &ts
		}
		o.UpdatedAt = now
		return nil
	}
	return fmt.Errorf("%w: %q", ErrTaskNotFound, taskID)
}

// AppendObservation appends verbatim text to the append-only
// observation log. Blank text is rejected.
func (o *WorkOrder) AppendObservation(text string, now time.Time) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyObservation
	}
	o.Observations = append(o.Observations, text)
	o.UpdatedAt = now
	return nil
}

// SetStatus moves the order to a new lifecycle status. Transitions are
// unrestricted, but the value itself must be canonical. Entering
// entregada stamps the actual delivery date if not already set.
func (o *WorkOrder) SetStatus(s Status, now time.Time) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	o.Status = s
	if s == StatusDelivered && o.ActualDelivery == nil {
		ts := now
		o.ActualDelivery = &ts
	}
	o.UpdatedAt = now
	return nil
}

// SetPriority changes the triage priority.
func (o *WorkOrder) SetPriority(p Priority, now time.Time) error {
	if !p.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPriority, p)
	}
	o.Priority = p
	o.UpdatedAt = now
	return nil
}

// AssignTechnician sets the responsible technician by name. Empty
// clears the assignment.
func (o *WorkOrder) AssignTechnician(name string, now time.Time) {
	o.Technician = name
	o.UpdatedAt = now
}

// AddPhoto attaches a repair photo. A missing ID is assigned.
func (o *WorkOrder) AddPhoto(p Photo, now time.Time) Photo {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.TakenAt.IsZero() {
		p.TakenAt = now
	}
	o.Photos = append(o.Photos, p)
	o.UpdatedAt = now
	return p
}

// RecordNotification appends a client notification to the order's log.
func (o *WorkOrder) RecordNotification(n ClientNotification, now time.Time) ClientNotification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	o.Notifications = append(o.Notifications, n)
	o.UpdatedAt = now
	return n
}

// CompletedTasks returns the descriptions of all finished tasks, in
// checklist order.
func (o *WorkOrder) CompletedTasks() []string {
	var done []string
	for _, t := range o.Tasks {
		if t.Done {
			done = append(done, t.Description)
		}
	}
	return done
}
