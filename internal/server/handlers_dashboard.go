package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/samuymanu/bici-fix-pro/internal/backup"
	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// handleDashboard returns the order-set summary shown on the home view
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	orders, err := s.repos.Orders.ListAll(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, backup.ComputeStats(orders, s.now()))
}

type kanbanColumn struct {
	Status domain.Status      `json:"estado"`
	Label  string             `json:"etiqueta"`
	Color  string             `json:"color"`
	Orders []domain.WorkOrder `json:"ordenes"`
}

// handleKanban groups every order into the board's columns, one per
// status in workflow order.
func (s *Server) handleKanban(w http.ResponseWriter, r *http.Request) {
	orders, err := s.repos.Orders.ListAll(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}

	byStatus := make(map[domain.Status][]domain.WorkOrder)
	for _, o := range orders {
		byStatus[o.Status] = append(byStatus[o.Status], o)
	}

	columns := make([]kanbanColumn, 0, len(domain.StatusOrder))
	for _, status := range domain.StatusOrder {
		label, err := domain.StatusLabel(status)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		color, err := domain.StatusColor(status)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal", err.Error(), nil)
			return
		}
		col := kanbanColumn{Status: status, Label: label, Color: color, Orders: byStatus[status]}
		if col.Orders == nil {
			col.Orders = []domain.WorkOrder{}
		}
		columns = append(columns, col)
	}

	writeJSON(w, http.StatusOK, map[string]any{"columnas": columns})
}

// handleExport streams the backup document to the caller
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	orders, err := s.repos.Orders.ListAll(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}

	now := s.now()
	w.Header().Set("Content-Disposition", `attachment; filename="`+backup.DefaultFileName(now)+`"`)
	writeJSON(w, http.StatusOK, backup.Export(orders, now))
}

type exportToFileRequest struct {
	Path string `json:"path"`
}

// handleExportToFile writes the backup document to a server-side path
// chosen by the desktop shell's save dialog. Cancellation (an empty
// path) is not an error.
func (s *Server) handleExportToFile(w http.ResponseWriter, r *http.Request) {
	var req exportToFileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusOK, backup.Result{Canceled: true})
		return
	}

	orders, err := s.repos.Orders.ListAll(r.Context())
	if err != nil {
		writeRepoError(w, err)
		return
	}

	res := backup.ExportToFile(req.Path, orders, s.now())
	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

// handleImport replaces the whole order set with a backup document.
// Legacy shapes are normalized on the way in.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 32<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "failed to read body", nil)
		return
	}

	orders, err := backup.Import(data)
	if err != nil {
		if errors.Is(err, backup.ErrMissingOrders) {
			writeError(w, http.StatusBadRequest, "missing_ordenes", err.Error(), nil)
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
		return
	}

	if err := s.repos.Orders.ReplaceAll(r.Context(), orders); err != nil {
		writeRepoError(w, err)
		return
	}

	// Keep the number sequence ahead of anything just imported
	for _, o := range orders {
		_ = s.numbers.Resume(o.Number, s.now())
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"importadas": len(orders),
	})
}
