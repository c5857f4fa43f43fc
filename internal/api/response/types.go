package response

import (
	"time"

	"github.com/typeracehq/typerace/internal/model"
)

// RoomSummary is the room shape returned by the read-only REST surface
type RoomSummary struct {
	ID          string    `json:"id"`
	RoomName    string    `json:"roomName"`
	Phase       string    `json:"phase"`
	GameStarted bool      `json:"gameStarted"`
	PlayerCount int       `json:"playerCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RoomSummaryFromModel converts a model.Room to a RoomSummary
func RoomSummaryFromModel(r *model.Room) RoomSummary {
	return RoomSummary{
		ID:          string(r.ID),
		RoomName:    r.Name,
		Phase:       string(r.Phase),
		GameStarted: r.Phase != model.RoomPhaseOpen,
		PlayerCount: len(r.Players),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// RoomDetail is the full room shape for members
type RoomDetail struct {
	RoomSummary
	Players []model.Player `json:"players"`
}

// RoomDetailFromModel converts a model.Room to a RoomDetail
func RoomDetailFromModel(r *model.Room) RoomDetail {
	players := r.Players
	if players == nil {
		players = []model.Player{}
	}
	return RoomDetail{
		RoomSummary: RoomSummaryFromModel(r),
		Players:     players,
	}
}

// Health is the health check response
type Health struct {
	Status           string `json:"status"`
	ConnectedClients int    `json:"connectedClients"`
}
