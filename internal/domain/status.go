package domain

import (
	"errors"
	"fmt"
)

// Status is the work order's position in the repair workflow.
type Status string

const (
	StatusReceived       Status = "recibida"
	StatusDiagnosing     Status = "diagnostico"
	StatusAwaitingParts  Status = "esperando_repuestos"
	StatusInRepair       Status = "en_reparacion"
	StatusQualityControl Status = "control_calidad"
	StatusFinished       Status = "finalizada"
	StatusDelivered      Status = "entregada"
)

// StatusOrder is the canonical workflow ordering, also the Kanban
// board's column order.
var StatusOrder = []Status{
	StatusReceived,
	StatusDiagnosing,
	StatusAwaitingParts,
	StatusInRepair,
	StatusQualityControl,
	StatusFinished,
	StatusDelivered,
}

// Priority classifies urgency independent of status.
type Priority string

const (
	PriorityLow    Priority = "baja"
	PriorityMedium Priority = "media"
	PriorityHigh   Priority = "alta"
	PriorityUrgent Priority = "urgente"
)

var (
	ErrUnknownStatus   = errors.New("unknown order status")
	ErrUnknownPriority = errors.New("unknown priority")
)

var statusLabels = map[Status]string{
	StatusReceived:       "Recibida",
	StatusDiagnosing:     "En Diagnóstico",
	StatusAwaitingParts:  "Esperando Repuestos",
	StatusInRepair:       "En Reparación",
	StatusQualityControl: "Control de Calidad",
	StatusFinished:       "Finalizada",
	StatusDelivered:      "Entregada",
}

var statusColors = map[Status]string{
	StatusReceived:       "bg-blue-100 text-blue-800",
	StatusDiagnosing:     "bg-yellow-100 text-yellow-800",
	StatusAwaitingParts:  "bg-orange-100 text-orange-800",
	StatusInRepair:       "bg-purple-100 text-purple-800",
	StatusQualityControl: "bg-cyan-100 text-cyan-800",
	StatusFinished:       "bg-green-100 text-green-800",
	StatusDelivered:      "bg-gray-100 text-gray-800",
}

var priorityLabels = map[Priority]string{
	PriorityLow:    "Baja",
	PriorityMedium: "Media",
	PriorityHigh:   "Alta",
	PriorityUrgent: "Urgente",
}

var priorityColors = map[Priority]string{
	PriorityLow:    "bg-gray-100 text-gray-800",
	PriorityMedium: "bg-blue-100 text-blue-800",
	PriorityHigh:   "bg-orange-100 text-orange-800",
	PriorityUrgent: "bg-red-100 text-red-800",
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

// StatusLabel returns the human-readable label for a status. Unknown
// variants are an error, never a silent fallback, so an extended enum
// cannot drift past its lookup tables unnoticed.
func StatusLabel(s Status) (string, error) {
	label, ok := statusLabels[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return label, nil
}

// StatusColor returns the presentation color token for a status.
func StatusColor(s Status) (string, error) {
	color, ok := statusColors[s]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	return color, nil
}

// PriorityLabel returns the human-readable label for a priority.
func PriorityLabel(p Priority) (string, error) {
	label, ok := priorityLabels[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, p)
	}
	return label, nil
}

// PriorityColor returns the presentation color token for a priority.
func PriorityColor(p Priority) (string, error) {
	color, ok := priorityColors[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, p)
	}
	return color, nil
}

// ParseStatus validates a raw status value from the wire.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
	}
	return s, nil
}

// ParsePriority validates a raw priority value from the wire.
func ParsePriority(raw string) (Priority, error) {
	p := Priority(raw)
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPriority, raw)
	}
	return p, nil
}
