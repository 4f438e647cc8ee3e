// Package backup implements the JSON export/import round trip for the
// workshop's order set, including normalization of legacy documents.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// FormatVersion is stamped on every exported document.
const FormatVersion = "1.0.0"

var (
	// ErrMissingOrders is returned when an imported document has no
	// "ordenes" array. That is the only structural check the format
	// requires.
	ErrMissingOrders = errors.New("document has no ordenes array")

	// ErrBadExtension is returned when an export path does not end in
	// .json.
	ErrBadExtension = errors.New("export path must end in .json")
)

// Document is the export envelope. Orders are written verbatim as the
// wire representation of domain.WorkOrder.
type Document struct {
	Orders     []domain.WorkOrder `json:"ordenes"`
	Stats      Stats              `json:"estadisticas"`
	ExportedAt time.Time          `json:"fechaExportacion"`
	Version    string             `json:"version"`
}

// Stats summarizes an order set. It feeds both the export envelope and
// the dashboard endpoint.
type Stats struct {
	TotalOrders        int                   `json:"totalOrdenes"`
	ByStatus           map[domain.Status]int `json:"porEstado"`
	OrdersToday        int                   `json:"ordenesHoy"`
	InRepair           int                   `json:"enReparacion"`
	ReadyForDelivery   int                   `json:"paraEntrega"`
	TotalRevenue       decimal.Decimal       `json:"ingresosTotales"`
	OutstandingBalance decimal.Decimal       `json:"saldoPendiente"`
}

// Result reports the outcome of a host file operation. Cancellation is
// not an error.
type Result struct {
	Success  bool   `json:"success"`
	Path     string `json:"path,omitempty"`
	Canceled bool   `json:"canceled,omitempty"`
	Error    string `json:"error,omitempty"`
}

// ComputeStats derives the summary block for a set of orders. Revenue
// counts delivered orders; outstanding balance counts everything else.
func ComputeStats(orders []domain.WorkOrder, now time.Time) Stats {
	s := Stats{
		TotalOrders:        len(orders),
		ByStatus:           make(map[domain.Status]int),
		TotalRevenue:       decimal.Zero,
		OutstandingBalance: decimal.Zero,
	}
	y, m, d := now.Date()
	for _, o := range orders {
		s.ByStatus[o.Status]++
		oy, om, od := o.IntakeDate.Date()
		if oy == y && om == m && od == d {
			s.OrdersToday++
		}
		switch o.Status {
		case domain.StatusDelivered:
			s.TotalRevenue = s.TotalRevenue.Add(o.TotalCost)
		case domain.StatusFinished:
			s.ReadyForDelivery++
			s.OutstandingBalance = s.OutstandingBalance.Add(o.Balance)
		default:
			if o.Status == domain.StatusInRepair {
				s.InRepair++
			}
			s.OutstandingBalance = s.OutstandingBalance.Add(o.Balance)
		}
	}
	return s
}

// Export builds the versioned envelope for a set of orders.
func Export(orders []domain.WorkOrder, now time.Time) Document {
	return Document{
		Orders:     orders,
		Stats:      ComputeStats(orders, now),
		ExportedAt: now,
		Version:    FormatVersion,
	}
}

// ExportToFile writes the envelope to path. The path must carry a
// .json extension, matching the host's save dialog filter.
func ExportToFile(path string, orders []domain.WorkOrder, now time.Time) Result {
	if !strings.EqualFold(filepath.Ext(path), ".json") {
		return Result{Error: ErrBadExtension.Error()}
	}
	doc := Export(orders, now)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return Result{Error: fmt.Sprintf("encode backup: %v", err)}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Result{Error: fmt.Sprintf("write backup: %v", err)}
	}
	return Result{Success: true, Path: path}
}

// DefaultFileName returns the suggested export filename for a day,
// e.g. taller-backup-2026-08-31.json.
func DefaultFileName(now time.Time) string {
	return fmt.Sprintf("taller-backup-%s.json", now.Format("2006-01-02"))
}

// legacySidecar captures fields older documents used before the
// current schema. fechaEntrega predates fechaEntregaReal.
type legacySidecar struct {
	LegacyDelivery *time.Time `json:"fechaEntrega"`
}

// Import decodes a backup document and normalizes every order to the
// canonical schema. Documents without an "ordenes" array are rejected;
// beyond that the format is accepted as-is, matching the original
// loader's permissiveness.
func Import(data []byte) ([]domain.WorkOrder, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	rawOrders, ok := probe["ordenes"]
	if !ok {
		return nil, ErrMissingOrders
	}

	var items []json.RawMessage
	if err := json.Unmarshal(rawOrders, &items); err != nil {
		return nil, fmt.Errorf("decode ordenes: %w", err)
	}

	orders := make([]domain.WorkOrder, 0, len(items))
	for i, raw := range items {
		var o domain.WorkOrder
		if err := json.Unmarshal(raw, &o); err != nil {
			return nil, fmt.Errorf("decode orden %d: %w", i, err)
		}
		var legacy legacySidecar
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("decode orden %d: %w", i, err)
		}
		Normalize(&o, legacy.LegacyDelivery)
		orders = append(orders, o)
	}
	return orders, nil
}

// ImportFromFile reads and imports a backup file.
func ImportFromFile(path string) ([]domain.WorkOrder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	return Import(data)
}

// Normalize rewrites one order into the canonical schema: the legacy
// delivery date is carried over when the current field is empty, nil
// lists become empty ones, and derived money fields are recomputed so
// stale totals in old backups do not survive the import.
func Normalize(o *domain.WorkOrder, legacyDelivery *time.Time) {
	if o.ActualDelivery == nil && legacyDelivery != nil {
		o.ActualDelivery = legacyDelivery
	}
	if o.Problems == nil {
		o.Problems = []string{}
	}
	if o.Parts == nil {
		o.Parts = []domain.OrderPartLine{}
	}
	if o.Labor == nil {
		o.Labor = []domain.LaborLine{}
	}
	if o.Tasks == nil {
		o.Tasks = []domain.Task{}
	}
	if o.Photos == nil {
		o.Photos = []domain.Photo{}
	}
	if o.Observations == nil {
		o.Observations = []string{}
	}
	if o.Notifications == nil {
		o.Notifications = []domain.ClientNotification{}
	}
	if o.Status == "" {
		o.Status = domain.StatusReceived
	}
	if o.Priority == "" {
		o.Priority = domain.PriorityMedium
	}
	// Legacy documents carry stored totals that may disagree with
	// their line items. Recompute only when the lines are valid;
	// otherwise the stored figures stand.
	_ = o.Recalculate()
}
