// Package domain defines core business entities for the workshop
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels on the wire as bare numbers, matching existing
	// workshop backups.
	decimal.MarshalJSONWithoutQuotes = true
}

// BicycleType is the closed category of bicycles the workshop accepts.
type BicycleType string

const (
	BicycleMountain BicycleType = "montaña"
	BicycleRoad     BicycleType = "ruta"
	BicycleUrban    BicycleType = "urbana"
	BicycleElectric BicycleType = "electrica"
	BicycleBMX      BicycleType = "bmx"
	BicycleKids     BicycleType = "infantil"
	BicycleOther    BicycleType = "otra"
)

// PartCategory groups catalog parts for search and reporting.
type PartCategory string

const (
	PartBrakes       PartCategory = "frenos"
	PartTransmission PartCategory = "transmision"
	PartSuspension   PartCategory = "suspension"
	PartWheels       PartCategory = "ruedas"
	PartAccessories  PartCategory = "accesorios"
	PartOther        PartCategory = "otros"
)

// ParsePartCategory validates a raw category value.
func ParsePartCategory(raw string) (PartCategory, error) {
	switch c := PartCategory(raw); c {
	case PartBrakes, PartTransmission, PartSuspension, PartWheels, PartAccessories, PartOther:
		return c, nil
	}
	return "", fmt.Errorf("unknown part category %q", raw)
}

// PhotoStage marks when during the repair a photo was taken.
type PhotoStage string

const (
	PhotoBefore PhotoStage = "antes"
	PhotoDuring PhotoStage = "durante"
	PhotoAfter  PhotoStage = "despues"
)

// Channel is the medium used to reach a customer.
type Channel string

const (
	ChannelSMS      Channel = "sms"
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Customer represents a workshop customer
type Customer struct {
	ID           string     `json:"id"`
	Name         string     `json:"nombre"`
	Phone        string     `json:"telefono"`
	Email        string     `json:"email,omitempty"`
	Address      string     `json:"direccion,omitempty"`
	RegisteredAt *time.Time `json:"fechaRegistro,omitempty"`
}

// Bicycle represents a customer's bicycle
type Bicycle struct {
	ID         string      `json:"id"`
	CustomerID string      `json:"clienteId"`
	Brand      string      `json:"marca"`
	Model      string      `json:"modelo"`
	Serial     string      `json:"serial"`
	Color      string      `json:"color"`
	Type       BicycleType `json:"tipo"`
	Year       int         `json:"año,omitempty"`
}

// CatalogPart is a reusable spare-part catalog entry
type CatalogPart struct {
	ID          string          `json:"id"`
	Name        string          `json:"nombre"`
	UnitPrice   decimal.Decimal `json:"precio"`
	Category    PartCategory    `json:"categoria"`
	Description string          `json:"descripcion,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
}

// OrderPartLine associates a catalog part with a work order. UnitPrice
// is captured at order time and may diverge from the catalog price.
type OrderPartLine struct {
	PartID    string          `json:"repuestoId"`
	Part      CatalogPart     `json:"repuesto"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precioUnitario"`
}

// Subtotal returns quantity times the captured unit price.
func (l OrderPartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// LaborLine is a priced service entry, quantity implicitly one.
type LaborLine struct {
	ID               string          `json:"id"`
	Description      string          `json:"descripcion"`
	Price            decimal.Decimal `json:"precio"`
	EstimatedMinutes int             `json:"tiempoEstimado,omitempty"`
}

// Task is a repair checklist item
type Task struct {
	ID          string     `json:"id"`
	Description string     `json:"descripcion"`
	Done        bool       `json:"completada"`
	Technician  string     `json:"tecnicoAsignado,omitempty"`
	CompletedAt *time.Time `json:"fechaCompletada,omitempty"`
	Notes       string     `json:"observaciones,omitempty"`
}

// Photo documents the state of a bicycle during the repair
type Photo struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Stage       PhotoStage `json:"tipo"`
	Description string     `json:"descripcion,omitempty"`
	TakenAt     time.Time  `json:"fecha"`
}

// ClientNotification is a message sent (or queued) to the customer
type ClientNotification struct {
	ID      string     `json:"id"`
	Channel Channel    `json:"tipo"`
	Message string     `json:"mensaje"`
	Sent    bool       `json:"enviado"`
	SentAt  *time.Time `json:"fechaEnvio,omitempty"`
}

// Technician represents a workshop technician
type Technician struct {
	ID          string   `json:"id"`
	Name        string   `json:"nombre"`
	Specialties []string `json:"especialidad"`
	Active      bool     `json:"activo"`
}

// User represents a staff account (technician or admin)
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// User roles
const (
	RoleTechnician = "tecnico"
	RoleAdmin      = "admin"
)

// WorkOrder is the aggregate record of one repair job from intake to
// delivery. TotalCost and Balance are derived; mutate the order only
// through its methods so they never drift from the line items.
type WorkOrder struct {
	ID                     string               `json:"id"`
	Number                 string               `json:"numero"`
	Customer               Customer             `json:"cliente"`
	Bicycle                Bicycle              `json:"bicicleta"`
	IntakeDate             time.Time            `json:"fechaIngreso"`
	EstimatedDelivery      time.Time            `json:"fechaEstimadaEntrega"`
	ActualDelivery         *time.Time           `json:"fechaEntregaReal,omitempty"`
	Problems               []string             `json:"problemas"`
	Diagnosis              string               `json:"diagnostico"`
	InitialObservations    string               `json:"observacionesIniciales,omitempty"`
	TechnicianObservations string               `json:"observacionesTecnico,omitempty"`
	Parts                  []OrderPartLine      `json:"repuestos"`
	Labor                  []LaborLine          `json:"servicios"`
	Tasks                  []Task               `json:"tareas"`
	Photos                 []Photo              `json:"fotos"`
	Observations           []string             `json:"observaciones"`
	Notifications          []ClientNotification `json:"notificaciones"`
	Status                 Status               `json:"estado"`
	Priority               Priority             `json:"prioridad"`
	Technician             string               `json:"tecnicoAsignado,omitempty"`
	TotalCost              decimal.Decimal      `json:"costoTotal"`
	Advance                decimal.Decimal      `json:"adelanto"`
	Balance                decimal.Decimal      `json:"saldo"`
	UpdatedAt              time.Time            `json:"fechaActualizacion"`
}
