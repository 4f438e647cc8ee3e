package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/samuymanu/bici-fix-pro/internal/config"
	"github.com/samuymanu/bici-fix-pro/internal/domain"
	"github.com/samuymanu/bici-fix-pro/internal/notify"
	"github.com/samuymanu/bici-fix-pro/internal/repository"
	"github.com/samuymanu/bici-fix-pro/internal/repository/memory"
)

var testNow = time.Date(2024, 12, 1, 10, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Debug: true,
		JWT:   config.JWT{Secret: "test-secret", ExpirationHours: 1},
		Billing: config.Billing{
			TaxRatePercent: 19,
			Currency:       "COP",
			WarrantyDays:   30,
		},
	}
	cfg.Server.Host = "localhost"
	cfg.Server.Port = 8080
	cfg.Workshop.Name = "BiciFix Pro"

	repos := &repository.Repositories{
		Orders:      memory.NewOrderRepo(),
		Customers:   memory.NewCustomerRepo(),
		Bicycles:    memory.NewBicycleRepo(),
		Parts:       memory.NewCatalogPartRepo(),
		Technicians: memory.NewTechnicianRepo(),
	}

	dispatcher := notify.NewDispatcher(zap.NewNop())
	dispatcher.Register(domain.ChannelWhatsApp, &notify.MockProvider{})

	s := New(cfg, repos, domain.NewNumberGenerator(), dispatcher, zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

func testToken(t *testing.T, s *Server) string {
	t.Helper()
	token, err := s.generateToken(&domain.User{
		ID:    1,
		Email: "admin@bicifix.test",
		Role:  domain.RoleAdmin,
	})
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, s *Server, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createOrder(t *testing.T, s *Server, token string) domain.WorkOrder {
	t.Helper()

	rec := doJSON(t, s, token, http.MethodPost, "/api/orders", map[string]any{
		"cliente": map[string]any{
			"nombre":   "Juan Carlos Pérez",
			"telefono": "3001234567",
		},
		"bicicleta": map[string]any{
			"marca":  "Trek",
			"modelo": "X-Caliber 8",
			"tipo":   "montaña",
		},
		"problemas":            []string{"Frenos no responden"},
		"fechaEstimadaEntrega": testNow.AddDate(0, 0, 4),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order domain.WorkOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func TestCreateOrderAssignsSequentialNumbers(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)

	first := createOrder(t, s, token)
	second := createOrder(t, s, token)

	assert.Equal(t, "OT241201-001", first.Number)
	assert.Equal(t, "OT241201-002", second.Number)
	assert.Equal(t, domain.StatusReceived, first.Status)
	assert.NotEmpty(t, first.Customer.ID)
	assert.Equal(t, first.Customer.ID, first.Bicycle.CustomerID)
}

func TestCreateOrderValidation(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)

	rec := doJSON(t, s, token, http.MethodPost, "/api/orders", map[string]any{
		"cliente":   map[string]any{"nombre": "Sin Teléfono"},
		"bicicleta": map[string]any{"marca": "Trek", "modelo": "Marlin"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)
	order := createOrder(t, s, token)
	base := "/api/orders/" + order.ID

	// Catalog part on the shelf
	stock := 10
	part := domain.CatalogPart{
		ID:        "rep_1",
		Name:      "Pastillas de freno Shimano",
		UnitPrice: decimal.NewFromInt(25000),
		Category:  domain.PartBrakes,
		Stock:     &stock,
	}
	require.NoError(t, s.repos.Parts.Create(context.Background(), &part))

	rec := doJSON(t, s, token, http.MethodPost, base+"/parts", map[string]any{
		"repuestoId": "rep_1",
		"cantidad":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, token, http.MethodPost, base+"/labor", map[string]any{
		"descripcion": "Ajuste completo de frenos",
		"precio":      35000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, s, token, http.MethodPost, base+"/advance", map[string]any{"monto": 40000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated domain.WorkOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.TotalCost.Equal(decimal.NewFromInt(85000)), "got %s", updated.TotalCost)
	assert.True(t, updated.Balance.Equal(decimal.NewFromInt(45000)), "got %s", updated.Balance)

	// Stock was reserved
	got, err := s.repos.Parts.GetByID(context.Background(), "rep_1")
	require.NoError(t, err)
	require.NotNil(t, got.Stock)
	assert.Equal(t, 8, *got.Stock)

	// Invoice applies the configured 19% tax
	rec = doJSON(t, s, token, http.MethodGet, base+"/invoice", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var invoice domain.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invoice))
	assert.Equal(t, "FAC-"+order.Number, invoice.Number)
	assert.True(t, invoice.Tax.Equal(decimal.NewFromInt(16150)), "got %s", invoice.Tax)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(101150)), "got %s", invoice.Total)
}

func TestTaskToggleEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)
	order := createOrder(t, s, token)
	base := "/api/orders/" + order.ID

	rec := doJSON(t, s, token, http.MethodPost, base+"/tasks", map[string]any{
		"descripcion": "Centrado de rueda delantera",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var withTask domain.WorkOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withTask))
	require.Len(t, withTask.Tasks, 1)
	taskID := withTask.Tasks[0].ID

	rec = doJSON(t, s, token, http.MethodPost, fmt.Sprintf("%s/tasks/%s/toggle", base, taskID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &withTask))
	assert.True(t, withTask.Tasks[0].Done)
	assert.NotNil(t, withTask.Tasks[0].CompletedAt)

	rec = doJSON(t, s, token, http.MethodPost, fmt.Sprintf("%s/tasks/%s/toggle", base, "no-such-task"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusEndpointRejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)
	order := createOrder(t, s, token)

	rec := doJSON(t, s, token, http.MethodPost, "/api/orders/"+order.ID+"/status", map[string]any{
		"estado": "en_pausa",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, token, http.MethodPost, "/api/orders/"+order.ID+"/status", map[string]any{
		"estado": "en_reparacion",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated domain.WorkOrder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, domain.StatusInRepair, updated.Status)
}

func TestKanbanColumns(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)
	order := createOrder(t, s, token)

	rec := doJSON(t, s, token, http.MethodGet, "/api/kanban", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Columns []kanbanColumn `json:"columnas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Columns, len(domain.StatusOrder))

	assert.Equal(t, domain.StatusReceived, resp.Columns[0].Status)
	assert.Equal(t, "Recibida", resp.Columns[0].Label)
	require.Len(t, resp.Columns[0].Orders, 1)
	assert.Equal(t, order.Number, resp.Columns[0].Orders[0].Number)

	for _, col := range resp.Columns[1:] {
		assert.Empty(t, col.Orders)
	}
}

func TestExportImportEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)
	order := createOrder(t, s, token)

	rec := doJSON(t, s, token, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "taller-backup-2024-12-01.json")

	exported := rec.Body.Bytes()

	// Wipe and restore through import
	require.NoError(t, s.repos.Orders.ReplaceAll(context.Background(), nil))

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(exported))
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	restored, err := s.repos.Orders.GetByNumber(context.Background(), order.Number)
	require.NoError(t, err)
	assert.Equal(t, order.ID, restored.ID)

	// The sequence resumes past imported numbers
	next := createOrder(t, s, token)
	assert.Equal(t, "OT241201-002", next.Number)
}

func TestImportRejectsForeignDocument(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)

	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader([]byte(`{"clientes":[]}`)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing_ordenes")
}

func TestPublicTracking(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)
	order := createOrder(t, s, token)

	// No auth header on purpose
	rec := doJSON(t, s, "", http.MethodGet, "/tracking/"+order.Number, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status trackingStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, order.Number, status.Number)
	assert.Equal(t, "Recibida", status.StatusLabel)
	assert.Equal(t, "Trek X-Caliber 8", status.Bicycle)
	assert.NotContains(t, rec.Body.String(), "costoTotal")

	rec = doJSON(t, s, "", http.MethodGet, "/tracking/"+order.Number+"/qr", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = doJSON(t, s, "", http.MethodGet, "/tracking/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, "", http.MethodGet, "/tracking/OT991231-999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteOrderRequiresAdmin(t *testing.T) {
	s := newTestServer(t)
	admin := testToken(t, s)
	order := createOrder(t, s, admin)

	techToken, err := s.generateToken(&domain.User{ID: 2, Email: "tech@bicifix.test", Role: domain.RoleTechnician})
	require.NoError(t, err)

	rec := doJSON(t, s, techToken, http.MethodDelete, "/api/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, s, admin, http.MethodDelete, "/api/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPartsAutocomplete(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)

	parts := []domain.CatalogPart{
		{ID: "rep_1", Name: "Pastillas de freno Shimano", UnitPrice: decimal.NewFromInt(25000), Category: domain.PartBrakes},
		{ID: "rep_2", Name: "Cadena KMC X9", UnitPrice: decimal.NewFromInt(35000), Category: domain.PartTransmission},
		{ID: "rep_3", Name: "Cable de freno", UnitPrice: decimal.NewFromInt(8000), Category: domain.PartBrakes},
	}
	for i := range parts {
		require.NoError(t, s.repos.Parts.Create(context.Background(), &parts[i]))
	}

	rec := doJSON(t, s, token, http.MethodGet, "/api/parts?q=freno", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Parts []domain.CatalogPart `json:"repuestos"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Parts, 2)

	rec = doJSON(t, s, token, http.MethodGet, "/api/parts?q=freno&categoria=transmision", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Parts)

	rec = doJSON(t, s, token, http.MethodGet, "/api/parts?categoria=inexistente", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
