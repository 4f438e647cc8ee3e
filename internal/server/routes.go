package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samuymanu/bici-fix-pro/internal/domain"
)

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	r := s.router

	// Health check endpoint
	r.Get("/health", s.handleHealth)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		// Public tracking by order number
		r.Get("/tracking/{number}", s.handleTrackingStatus)
		r.Get("/tracking/{number}/qr", s.handleTrackingQR)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/me", s.handleMe)

		// Shell navigation commands
		r.Get("/routes", s.handleListRoutes)
		r.Post("/navigate", s.handleNavigate)

		// Work orders
		r.Post("/orders", s.handleCreateOrder)
		r.Get("/orders", s.handleListOrders)
		r.Get("/orders/{id}", s.handleGetOrder)
		r.Put("/orders/{id}/diagnosis", s.handleSetDiagnosis)
		r.Post("/orders/{id}/status", s.handleSetStatus)
		r.Post("/orders/{id}/priority", s.handleSetPriority)
		r.Post("/orders/{id}/technician", s.handleAssignTechnician)
		r.Post("/orders/{id}/tasks", s.handleAddTask)
		r.Post("/orders/{id}/tasks/{taskId}/toggle", s.handleToggleTask)
		r.Post("/orders/{id}/observations", s.handleAppendObservation)
		r.Post("/orders/{id}/parts", s.handleAddPart)
		r.Delete("/orders/{id}/parts/{partId}", s.handleRemovePart)
		r.Post("/orders/{id}/labor", s.handleAddLabor)
		r.Delete("/orders/{id}/labor/{laborId}", s.handleRemoveLabor)
		r.Post("/orders/{id}/advance", s.handleSetAdvance)
		r.Get("/orders/{id}/invoice", s.handleInvoice)
		r.Get("/orders/{id}/delivery-note", s.handleDeliveryNote)
		r.Post("/orders/{id}/notify", s.handleNotifyClient)

		// Spare-part catalog (autocomplete + admin maintenance)
		r.Get("/parts", s.handleSearchParts)
		r.Post("/parts", s.handleCreatePart)
		r.Put("/parts/{id}", s.handleUpdatePart)

		// Technicians
		r.Get("/technicians", s.handleListTechnicians)
		r.Post("/technicians", s.handleCreateTechnician)
		r.Put("/technicians/{id}", s.handleUpdateTechnician)

		// Customers
		r.Get("/customers", s.handleListCustomers)
		r.Post("/customers", s.handleCreateCustomer)
		r.Get("/customers/{id}", s.handleGetCustomer)
		r.Get("/customers/{id}/bicycles", s.handleCustomerBicycles)

		// Dashboard and kanban board
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/kanban", s.handleKanban)

		// Backup round trip
		r.Get("/export", s.handleExport)
		r.Post("/export", s.handleExportToFile)
		r.Post("/import", s.handleImport)

		// Admin only
		r.Group(func(r chi.Router) {
			r.Use(s.roleMiddleware(domain.RoleAdmin))

			r.Delete("/orders/{id}", s.handleDeleteOrder)
			r.Delete("/parts/{id}", s.handleDeletePart)
			r.Delete("/technicians/{id}", s.handleDeleteTechnician)
			r.Post("/users", s.handleCreateUser)
		})
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
