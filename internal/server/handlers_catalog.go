package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// handleSearchParts powers the part autocomplete: substring match on
// the name, optional ?categoria= filter.
func (s *Server) handleSearchParts(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	var category domain.PartCategory
	if raw := r.URL.Query().Get("categoria"); raw != "" {
		parsed, err := domain.ParsePartCategory(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
			return
		}
		category = parsed
	}

	limit := queryInt(r, "limit", 20)

	parts, err := s.repos.Parts.Search(r.Context(), query, category, limit)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if parts == nil {
		parts = []domain.CatalogPart{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"repuestos": parts})
}

func (s *Server) handleCreatePart(w http.ResponseWriter, r *http.Request) {
	var part domain.CatalogPart
	if !decodeJSON(w, r, &part) {
		return
	}
	if strings.TrimSpace(part.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "nombre is required", nil)
		return
	}
	if part.UnitPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "bad_request", "precio must not be negative", nil)
		return
	}
	if part.ID == "" {
		part.ID = uuid.NewString()
	}
	if err := s.repos.Parts.Create(r.Context(), &part); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, part)
}

func (s *Server) handleUpdatePart(w http.ResponseWriter, r *http.Request) {
	var part domain.CatalogPart
	if !decodeJSON(w, r, &part) {
		return
	}
	part.ID = chi.URLParam(r, "id")
	if part.UnitPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "bad_request", "precio must not be negative", nil)
		return
	}
	if err := s.repos.Parts.Update(r.Context(), &part); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, part)
}

func (s *Server) handleDeletePart(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Parts.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

// handleListTechnicians lists technicians; ?activos=true hides the
// inactive ones.
func (s *Server) handleListTechnicians(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("activos") == "true"

	techs, err := s.repos.Technicians.List(r.Context(), activeOnly)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if techs == nil {
		techs = []domain.Technician{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tecnicos": techs})
}

func (s *Server) handleCreateTechnician(w http.ResponseWriter, r *http.Request) {
	var tech domain.Technician
	if !decodeJSON(w, r, &tech) {
		return
	}
	if strings.TrimSpace(tech.Name) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "nombre is required", nil)
		return
	}
	if tech.ID == "" {
		tech.ID = uuid.NewString()
	}
	tech.Active = true
	if err := s.repos.Technicians.Create(r.Context(), &tech); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tech)
}

func (s *Server) handleUpdateTechnician(w http.ResponseWriter, r *http.Request) {
	var tech domain.Technician
	if !decodeJSON(w, r, &tech) {
		return
	}
	tech.ID = chi.URLParam(r, "id")
	if err := s.repos.Technicians.Update(r.Context(), &tech); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tech)
}

func (s *Server) handleDeleteTechnician(w http.ResponseWriter, r *http.Request) {
	if err := s.repos.Technicians.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	customers, err := s.repos.Customers.List(r.Context(), limit, offset)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"clientes": customers})
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var customer domain.Customer
	if !decodeJSON(w, r, &customer) {
		return
	}
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Phone) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "nombre and telefono are required", nil)
		return
	}
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	now := s.now()
	customer.RegisteredAt = &now
	if err := s.repos.Customers.Create(r.Context(), &customer); err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := s.repos.Customers.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (s *Server) handleCustomerBicycles(w http.ResponseWriter, r *http.Request) {
	bicycles, err := s.repos.Bicycles.GetByCustomerID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRepoError(w, err)
		return
	}
	if bicycles == nil {
		bicycles = []domain.Bicycle{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"bicicletas": bicycles})
}
