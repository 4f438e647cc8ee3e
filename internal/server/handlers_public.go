package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// trackingStatus is the customer-facing view of an order: progress and
// dates only, no costs or internal notes.
type trackingStatus struct {
	Number            string     `json:"numero"`
	Bicycle           string     `json:"bicicleta"`
	Status            string     `json:"estado"`
	StatusLabel       string     `json:"estadoEtiqueta"`
	IntakeDate        time.Time  `json:"fechaIngreso"`
	EstimatedDelivery time.Time  `json:"fechaEstimadaEntrega"`
	ActualDelivery    *time.Time `json:"fechaEntregaReal,omitempty"`
}

// handleTrackingStatus lets a customer check their repair by order
// number, no login required.
func (s *Server) handleTrackingStatus(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if _, _, err := domain.ParseOrderNumber(number); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}

	order, err := s.repos.Orders.GetByNumber(r.Context(), number)
	if err != nil {
		writeRepoError(w, err)
		return
	}

	label, err := domain.StatusLabel(order.Status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, trackingStatus{
		Number:            order.Number,
		Bicycle:           order.Bicycle.Brand + " " + order.Bicycle.Model,
		Status:            string(order.Status),
		StatusLabel:       label,
		IntakeDate:        order.IntakeDate,
		EstimatedDelivery: order.EstimatedDelivery,
		ActualDelivery:    order.ActualDelivery,
	})
}

// handleTrackingQR renders the label QR pointing at the public
// tracking page for an order.
func (s *Server) handleTrackingQR(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if _, _, err := domain.ParseOrderNumber(number); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}

	if _, err := s.repos.Orders.GetByNumber(r.Context(), number); err != nil {
		writeRepoError(w, err)
		return
	}

	trackingURL := fmt.Sprintf("http://%s/tracking/%s", s.config.Address(), number)
	png, err := qrcode.Encode(trackingURL, qrcode.Medium, 256)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "failed to generate QR code", nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
