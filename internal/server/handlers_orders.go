package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/notify"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
)

type createOrderRequest struct {
	Customer            domain.Customer `json:"cliente"`
	Bicycle             domain.Bicycle  `json:"bicicleta"`
	Problems            []string        `json:"problemas"`
	EstimatedDelivery   time.Time       `json:"fechaEstimadaEntrega"`
	InitialObservations string          `json:"observacionesIniciales"`
	Priority            domain.Priority `json:"prioridad"`
}

// handleCreateOrder takes in a new repair job: number issued from the
// daily sequence, customer and bicycle registered when new.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Customer.Name == "" || req.Customer.Phone == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "customer name and phone are required", nil)
		return
	}
	if req.Bicycle.Brand == "" || req.Bicycle.Model == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "bicycle brand and model are required", nil)
		return
	}
	if req.EstimatedDelivery.IsZero() {
		writeError(w, http.StatusBadRequest, "bad_request", "fechaEstimadaEntrega is required", nil)
		return
	}

	now := s.now()
	ctx := r.Context()

	if req.Customer.ID == "" {
		req.Customer.ID = uuid.NewString()
		req.Customer.RegisteredAt = &now
		if err := s.repos.Customers.Create(ctx, &req.Customer); err != nil {
			writeRepoError(w, err)
			return
		}
	}
	if req.Bicycle.ID == "" {
		req.Bicycle.ID = uuid.NewString()
		req.Bicycle.CustomerID = req.Customer.ID
		if err := s.repos.Bicycles.Create(ctx, &req.Bicycle); err != nil {
			writeRepoError(w, err)
			return
		}
	}

	number, err := s.numbers.Next(now)
	if err != nil {
		if errors.Is(err, domain.ErrSequenceExhausted) {
			writeError(w, http.StatusConflict, "sequence_exhausted", err.Error(), nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}

	order := domain.NewWorkOrder(number, req.Customer, req.Bicycle, req.EstimatedDelivery, now)
	if len(req.Problems) > 0 {
		order.Problems = req.Problems
	}
	order.InitialObservations = strings.TrimSpace(req.InitialObservations)
	if req.Priority != "" {
		if err := order.SetPriority(req.Priority, now); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
			return
		}
	}

	if err := s.repos.Orders.Create(ctx, order); err != nil {
		writeRepoError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// handleListOrders lists orders, optionally filtered by ?estado=
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	var status domain.Status
	if raw := r.URL.Query().Get("estado"); raw != "" {
		parsed, err := domain.ParseStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
			return
		}
		status = parsed
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	orders, err := s.repos.Orders.List(r.Context(), status, limit, offset)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if orders == nil {
		orders = []domain.WorkOrder{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"ordenes": orders})
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}
	if err := s.repos.Orders.Delete(r.Context(), order.ID); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type diagnosisRequest struct {
	Diagnosis string `json:"diagnostico"`
}

func (s *Server) handleSetDiagnosis(w http.ResponseWriter, r *http.Request) {
	var req diagnosisRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		o.Diagnosis = strings.TrimSpace(req.Diagnosis)
		o.UpdatedAt = now
		return nil
	})
}

type statusRequest struct {
	Status  domain.Status  `json:"estado"`
	Notify  bool           `json:"notificar"`
	Channel domain.Channel `json:"canal"`
}

// handleSetStatus moves the order through the workflow. Any status is
// reachable from any other; when notificar is set the templated
// message for the new status goes out on the requested channel.
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}

	now := s.now()
	if err := order.SetStatus(req.Status, now); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}

	if req.Notify {
		ch := req.Channel
		if ch == "" {
			ch = domain.ChannelWhatsApp
		}
		if _, _, err := s.notifier.NotifyStatusChange(r.Context(), order, ch); err != nil &&
			!errors.Is(err, notify.ErrNoProvider) {
			// Delivery failure is already recorded on the order;
			// the status change itself still stands.
			s.logger.Warn("status notification failed")
		}
	}

	s.saveOrder(w, r, order)
}

type priorityRequest struct {
	Priority domain.Priority `json:"prioridad"`
}

func (s *Server) handleSetPriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		return o.SetPriority(req.Priority, now)
	})
}

type technicianRequest struct {
	Technician string `json:"tecnico"`
}

func (s *Server) handleAssignTechnician(w http.ResponseWriter, r *http.Request) {
	var req technicianRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		o.AssignTechnician(strings.TrimSpace(req.Technician), now)
		return nil
	})
}

type taskRequest struct {
	Description string `json:"descripcion"`
	Technician  string `json:"tecnicoAsignado"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "descripcion is required", nil)
		return
	}
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		o.AddTask(domain.Task{Description: req.Description, Technician: req.Technician}, now)
		return nil
	})
}

func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	taskID := chi.URLParam(r, "taskId")
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		return o.ToggleTask(taskID, now)
	})
}

type observationRequest struct {
	Text string `json:"texto"`
}

func (s *Server) handleAppendObservation(w http.ResponseWriter, r *http.Request) {
	var req observationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		return o.AppendObservation(req.Text, now)
	})
}

type partLineRequest struct {
	PartID    string           `json:"repuestoId"`
	Quantity  int              `json:"cantidad"`
	UnitPrice *decimal.Decimal `json:"precioUnitario"`
}

// handleAddPart attaches a catalog part to the order. The price is
// captured from the catalog unless the request overrides it; tracked
// stock is decremented.
func (s *Server) handleAddPart(w http.ResponseWriter, r *http.Request) {
	var req partLineRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	part, err := s.repos.Parts.GetByID(r.Context(), req.PartID)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	price := part.UnitPrice
	if req.UnitPrice != nil {
		price = *req.UnitPrice
	}
	line := domain.OrderPartLine{
		PartID:    part.ID,
		Part:      *part,
		Quantity:  req.Quantity,
		UnitPrice: price,
	}

	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}
	if err := order.AddPart(line, s.now()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}

	if err := s.repos.Parts.AdjustStock(r.Context(), part.ID, -req.Quantity); err != nil {
		writeRepoError(w, err)
		return
	}

	s.saveOrder(w, r, order)
}

func (s *Server) handleRemovePart(w http.ResponseWriter, r *http.Request) {
	partID := chi.URLParam(r, "partId")

	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}

	var removed int
	for _, line := range order.Parts {
		if line.PartID == partID {
			removed = line.Quantity
			break
		}
	}

	if err := order.RemovePart(partID, s.now()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}

	// Put the reserved units back on the shelf. A part since removed
	// from the catalog is not an error here.
	if removed > 0 {
		if err := s.repos.Parts.AdjustStock(r.Context(), partID, removed); err != nil &&
			!errors.Is(err, repository.ErrNotFound) {
			writeRepoError(w, err)
			return
		}
	}

	s.saveOrder(w, r, order)
}

type laborRequest struct {
	Description      string          `json:"descripcion"`
	Price            decimal.Decimal `json:"precio"`
	EstimatedMinutes int             `json:"tiempoEstimado"`
}

func (s *Server) handleAddLabor(w http.ResponseWriter, r *http.Request) {
	var req laborRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "descripcion is required", nil)
		return
	}
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		return o.AddLabor(domain.LaborLine{
			Description:      req.Description,
			Price:            req.Price,
			EstimatedMinutes: req.EstimatedMinutes,
		}, now)
	})
}

func (s *Server) handleRemoveLabor(w http.ResponseWriter, r *http.Request) {
	laborID := chi.URLParam(r, "laborId")
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		return o.RemoveLabor(laborID, now)
	})
}

type advanceRequest struct {
	Amount decimal.Decimal `json:"monto"`
}

func (s *Server) handleSetAdvance(w http.ResponseWriter, r *http.Request) {
	var req advanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	s.mutateOrder(w, r, func(o *domain.WorkOrder, now time.Time) error {
		return o.SetAdvance(req.Amount, now)
	})
}

// handleInvoice builds the invoice projection for an order
func (s *Server) handleInvoice(w http.ResponseWriter, r *http.Request) {
	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}

	taxRate := decimal.NewFromFloat(s.config.Billing.TaxRatePercent)
	invoice, err := domain.BuildInvoice(order, "FAC-"+order.Number, taxRate, s.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// handleDeliveryNote builds the delivery document for an order
func (s *Server) handleDeliveryNote(w http.ResponseWriter, r *http.Request) {
	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}
	doc := domain.BuildDeliveryDocument(order, "ENT-"+order.Number, s.config.Billing.WarrantyDays, s.now())
	writeJSON(w, http.StatusOK, doc)
}

type notifyRequest struct {
	Channel domain.Channel `json:"canal"`
	Message string         `json:"mensaje"`
}

// handleNotifyClient sends a custom message, or the current status
// template when the message is empty.
func (s *Server) handleNotifyClient(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Channel == "" {
		req.Channel = domain.ChannelWhatsApp
	}

	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}

	var (
		record domain.ClientNotification
		err    error
	)
	if strings.TrimSpace(req.Message) != "" {
		to := order.Customer.Phone
		if req.Channel == domain.ChannelEmail {
			to = order.Customer.Email
		}
		record, err = s.notifier.Send(r.Context(), order, notify.Message{
			Channel: req.Channel,
			To:      to,
			Body:    req.Message,
		})
	} else {
		var sent bool
		record, sent, err = s.notifier.NotifyStatusChange(r.Context(), order, req.Channel)
		if err == nil && !sent {
			writeError(w, http.StatusBadRequest, "bad_request", "no automatic message for current status; provide mensaje", nil)
			return
		}
	}
	if err != nil {
		if errors.Is(err, notify.ErrNoProvider) {
			writeError(w, http.StatusBadGateway, "no_provider", err.Error(), nil)
		} else {
			writeError(w, http.StatusBadGateway, "send_failed", err.Error(), nil)
		}
		// The failed attempt is part of the order's history
		_ = s.repos.Orders.Update(r.Context(), order)
		return
	}

	if err := s.repos.Orders.Update(r.Context(), order); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// loadOrder fetches the order addressed by the id URL parameter, which
// may be either the record id or the order number.
func (s *Server) loadOrder(w http.ResponseWriter, r *http.Request) (*domain.WorkOrder, bool) {
	id := chi.URLParam(r, "id")
	order, err := s.repos.Orders.GetByID(r.Context(), id)
	if err != nil {
		order, err = s.repos.Orders.GetByNumber(r.Context(), id)
	}
	if err != nil {
		writeRepoError(w, err)
		return nil, false
	}
	return order, true
}

func (s *Server) saveOrder(w http.ResponseWriter, r *http.Request, order *domain.WorkOrder) {
	if err := s.repos.Orders.Update(r.Context(), order); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// mutateOrder loads, applies and persists a single order mutation.
// Domain validation failures come back as 400s.
func (s *Server) mutateOrder(w http.ResponseWriter, r *http.Request, fn func(*domain.WorkOrder, time.Time) error) {
	order, ok := s.loadOrder(w, r)
	if !ok {
		return
	}
	if err := fn(order, s.now()); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}
	s.saveOrder(w, r, order)
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
