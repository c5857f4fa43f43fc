package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/typeracehq/typerace/internal/api/apierr"
	"github.com/typeracehq/typerace/internal/api/middleware"
	"github.com/typeracehq/typerace/internal/api/response"
	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/services/room"
)

// RoomHandler serves the read-only room endpoints. All realtime
// mutations go through the websocket gateway; this surface exists for
// polling clients and operational inspection.
type RoomHandler struct {
	rooms *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Controller) *RoomHandler {
	return &RoomHandler{rooms: rooms}
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	summaries := make([]response.RoomSummary, 0, len(rooms))
	for _, rm := range rooms {
		summaries = append(summaries, response.RoomSummaryFromModel(rm))
	}
	response.JSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/v1/rooms/{id}. Full player detail is only
// visible to room members.
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	id := model.RoomID(mux.Vars(r)["id"])

	rm, err := h.rooms.GetRoomForPlayer(r.Context(), id, identity.UserID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.RoomDetailFromModel(rm))
}
