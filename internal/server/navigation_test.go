package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoute(t *testing.T) {
	for _, token := range []string{"dashboard", "nueva-orden", "kanban", "lista-ordenes", "tecnicos", "notificaciones"} {
		route, err := ParseRoute(token)
		require.NoError(t, err, token)
		assert.Equal(t, Route(token), route)
	}
}

func TestParseRouteRejectsUnknownTokens(t *testing.T) {
	for _, token := range []string{"", "configuracion", "Dashboard", "nueva_orden"} {
		_, err := ParseRoute(token)
		assert.ErrorIs(t, err, ErrUnknownRoute, "token %q", token)
	}
}

func TestNavigateEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := testToken(t, s)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/navigate", strings.NewReader(`{"route":"kanban"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"route":"kanban"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/navigate", strings.NewReader(`{"route":"ajustes"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown_route")
}

func TestNavigateRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/navigate", strings.NewReader(`{"route":"kanban"}`))
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
