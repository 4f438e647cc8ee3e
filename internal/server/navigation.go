package server

import (
	"errors"
	"fmt"
	"net/http"
)

// Route is a named view the desktop shell can ask the client to show.
type Route string

const (
	RouteDashboard     Route = "dashboard"
	RouteNewOrder      Route = "nueva-orden"
	RouteKanban        Route = "kanban"
	RouteOrderList     Route = "lista-ordenes"
	RouteTechnicians   Route = "tecnicos"
	RouteNotifications Route = "notificaciones"
)

// Routes lists every valid route token, in menu order.
var Routes = []Route{
	RouteDashboard,
	RouteNewOrder,
	RouteKanban,
	RouteOrderList,
	RouteTechnicians,
	RouteNotifications,
}

// ErrUnknownRoute is returned for tokens outside the menu.
var ErrUnknownRoute = errors.New("unknown route token")

// ParseRoute validates a raw token. Unknown tokens are rejected, not
// passed through.
func ParseRoute(token string) (Route, error) {
	for _, r := range Routes {
		if string(r) == token {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRoute, token)
}

type navigateRequest struct {
	Route string `json:"route"`
}

type navigateResponse struct {
	Route Route `json:"route"`
}

// handleNavigate validates a shell navigation command. The host menu
// posts the token here before switching views, so stale or mistyped
// menu entries surface as a 400 instead of a blank screen.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	route, err := ParseRoute(req.Route)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unknown_route", err.Error(), map[string]any{"valid": Routes})
		return
	}

	writeJSON(w, http.StatusOK, navigateResponse{Route: route})
}

// handleListRoutes returns the menu's route tokens.
func (s *Server) handleListRoutes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"routes": Routes})
}
