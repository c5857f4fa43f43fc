package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/typeracehq/typerace/internal/api/handler"
	"github.com/typeracehq/typerace/internal/api/middleware"
	"github.com/typeracehq/typerace/internal/api/response"
	"github.com/typeracehq/typerace/internal/gateway"
	"github.com/typeracehq/typerace/internal/services/auth"
	"github.com/typeracehq/typerace/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	AuthService    *auth.Service
	RoomController *room.Controller
	Gateway        *gateway.Gateway
}

// NewRouter creates a new router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController)

	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// The websocket endpoint does its own token verification during the
	// handshake, so it sits outside the auth middleware
	r.HandleFunc("/ws", cfg.Gateway.ServeWS).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler(cfg.Gateway)).Methods(http.MethodGet)

	rooms := api.PathPrefix("/rooms").Subrouter()
	rooms.Use(authMiddleware)
	rooms.HandleFunc("", roomHandler.List).Methods(http.MethodGet)
	rooms.HandleFunc("/{id}", roomHandler.Get).Methods(http.MethodGet)

	return r
}

func healthHandler(gw *gateway.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, response.Health{
			Status:           "ok",
			ConnectedClients: gw.Hub().ClientCount(),
		})
	}
}
