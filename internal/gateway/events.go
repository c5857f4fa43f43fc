package gateway

import (
	"encoding/json"

	"github.com/typeracehq/typerace/internal/model"
)

// Client → server events
const (
	EventCreateRoom     = "create-room"
	EventJoinRoom       = "join-room"
	EventLeaveRoom      = "leave-room"
	EventGetRoom        = "get-room"
	EventDestroyRoom    = "destroy-room"
	EventGetAllRooms    = "get-all-rooms"
	EventCountdown      = "countdown"
	EventPlayerFinished = "player-finished"
	EventLiveProgress   = "live-progress"
)

// Server → client events
const (
	EventRoomCreatedByMe       = "room-created-by-me"
	EventNewRoomAvailable      = "new-room-available"
	EventJoinedRoom            = "joined-room"
	EventLeftRoomByMe          = "left-room-by-me"
	EventRoomUpdated           = "room-updated"
	EventRoomDestroyed         = "room-destroyed"
	EventSetAllRooms           = "set-all-rooms"
	EventLockRoom              = "lock-room"
	EventGameStarted           = "game-started"
	EventParagraphReady        = "paragraph-ready"
	EventJoinRoomError         = "join-room-error"
	EventPlayerFinishedUpdate  = "player-finished"
	EventAllPlayersFinished    = "all-players-finished"
	EventRedirectToLeaderboard = "redirect-to-leaderboard"
	EventGameError             = "game-error"
)

// Envelope is the framing for every message in both directions
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// encode marshals an outbound message
func encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// RoomData is the canonical wire shape for room state
type RoomData struct {
	RoomName    string         `json:"roomName"`
	Players     []model.Player `json:"players"`
	GameStarted bool           `json:"gameStarted"`
}

// RoomPayload wraps room state with its key, the shape room-scoped
// events carry
type RoomPayload struct {
	Key  string   `json:"key"`
	Data RoomData `json:"data"`
}

func roomPayload(room *model.Room) RoomPayload {
	players := room.Players
	if players == nil {
		players = []model.Player{}
	}
	return RoomPayload{
		Key: string(room.ID),
		Data: RoomData{
			RoomName:    room.Name,
			Players:     players,
			GameStarted: room.Phase != model.RoomPhaseOpen,
		},
	}
}

// Inbound request payloads

type createRoomRequest struct {
	RoomName string `json:"roomName"`
}

type roomRequest struct {
	RoomID string `json:"roomId"`
}

type liveProgressRequest struct {
	RoomID   string  `json:"roomId"`
	Progress float64 `json:"progress"`
	WPM      float64 `json:"wpm"`
	Accuracy float64 `json:"accuracy"`
}

type playerFinishedRequest struct {
	RoomID string            `json:"roomId"`
	Stats  model.PlayerStats `json:"stats"`
}

// Outbound payloads

// ParagraphReadyPayload carries the race text once the countdown elapses
type ParagraphReadyPayload struct {
	RoomID      string `json:"roomId"`
	ParagraphID string `json:"paragraphId"`
	Paragraph   string `json:"paragraph"`
}

// PlayerFinishedPayload announces one player's completion to the room
type PlayerFinishedPayload struct {
	UserID       string            `json:"userId"`
	UserName     string            `json:"userName"`
	Stats        model.PlayerStats `json:"stats"`
	WaitingCount int               `json:"waitingCount"`
}

// LeaderboardPayload carries the final ranked results
type LeaderboardPayload struct {
	RoomID  string           `json:"roomId"`
	Results []model.Standing `json:"results"`
}

// RoomDestroyedPayload announces a room's removal to all clients
type RoomDestroyedPayload struct {
	RoomID string `json:"roomId"`
}

// ErrorPayload is sent only to the client whose action failed
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
