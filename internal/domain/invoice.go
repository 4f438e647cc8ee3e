package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// InvoiceItem is one billed line of an invoice, merged from the
// order's parts and labor.
type InvoiceItem struct {
	Description string          `json:"descripcion"`
	Quantity    int             `json:"cantidad"`
	UnitPrice   decimal.Decimal `json:"precioUnitario"`
	Total       decimal.Decimal `json:"total"`
}

// Invoice is a read-only billing projection of a work order. It is
// regenerated on demand and never stored back onto the order.
type Invoice struct {
	ID          string          `json:"id"`
	Number      string          `json:"numero"`
	OrderID     string          `json:"ordenTrabajoId"`
	OrderNumber string          `json:"ordenNumero"`
	Customer    Customer        `json:"cliente"`
	IssuedAt    time.Time       `json:"fecha"`
	Items       []InvoiceItem   `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	TaxRate     decimal.Decimal `json:"porcentajeIva"`
	Tax         decimal.Decimal `json:"iva"`
	Total       decimal.Decimal `json:"total"`
	Advance     decimal.Decimal `json:"adelanto"`
	Balance     decimal.Decimal `json:"saldo"`
}

// DeliveryDocument is the hand-over record produced when a repaired
// bicycle is returned to its owner.
type DeliveryDocument struct {
	ID              string          `json:"id"`
	Number          string          `json:"numero"`
	OrderID         string          `json:"ordenTrabajoId"`
	Customer        Customer        `json:"cliente"`
	DeliveredAt     time.Time       `json:"fechaEntrega"`
	Technician      string          `json:"tecnicoEntrega"`
	WorksPerformed  []string        `json:"trabajosRealizados"`
	PartsUsed       []OrderPartLine `json:"repuestosUtilizados"`
	Observations    string          `json:"observacionesEntrega"`
	WarrantyDays    int             `json:"garantiaDias"`
	NextMaintenance *time.Time      `json:"proximoMantenimiento,omitempty"`
}

// invoiceItems merges parts then labor into billed lines, preserving
// order.
func invoiceItems(o *WorkOrder) []InvoiceItem {
	items := make([]InvoiceItem, 0, len(o.Parts)+len(o.Labor))
	for _, line := range o.Parts {
		items = append(items, InvoiceItem{
			Description: line.Part.Name,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.Subtotal(),
		})
	}
	for _, svc := range o.Labor {
		items = append(items, InvoiceItem{
			Description: svc.Description,
			Quantity:    1,
			UnitPrice:   svc.Price,
			Total:       svc.Price,
		})
	}
	return items
}

// BuildInvoice derives an invoice from a work order. taxRate is a
// percentage (19 means 19%).
func BuildInvoice(o *WorkOrder, number string, taxRate decimal.Decimal, now time.Time) (*Invoice, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(hundred) {
		return nil, fmt.Errorf("invalid tax rate %s", taxRate)
	}

	items := invoiceItems(o)
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Total)
	}
	tax := subtotal.Mul(taxRate).Div(hundred)
	total := subtotal.Add(tax)

	return &Invoice{
		ID:          uuid.NewString(),
		Number:      number,
		OrderID:     o.ID,
		OrderNumber: o.Number,
		Customer:    o.Customer,
		IssuedAt:    now,
		Items:       items,
		Subtotal:    subtotal,
		TaxRate:     taxRate,
		Tax:         tax,
		Total:       total,
		Advance:     o.Advance,
		Balance:     ComputeBalance(total, o.Advance),
	}, nil
}

// BuildDeliveryDocument derives the hand-over record from a work
// order. Works performed are the labor descriptions followed by
// completed checklist tasks.
func BuildDeliveryDocument(o *WorkOrder, number string, warrantyDays int, now time.Time) *DeliveryDocument {
	works := make([]string, 0, len(o.Labor))
	for _, svc := range o.Labor {
		works = append(works, svc.Description)
	}
	works = append(works, o.CompletedTasks()...)

	deliveredAt := now
	if o.ActualDelivery != nil {
		deliveredAt = *o.ActualDelivery
	}
	next := deliveredAt.AddDate(0, 6, 0)

	return &DeliveryDocument{
		ID:              uuid.NewString(),
		Number:          number,
		OrderID:         o.ID,
		Customer:        o.Customer,
		DeliveredAt:     deliveredAt,
		Technician:      o.Technician,
		WorksPerformed:  works,
		PartsUsed:       o.Parts,
		Observations:    o.TechnicianObservations,
		WarrantyDays:    warrantyDays,
		NextMaintenance: &next,
	}
}
