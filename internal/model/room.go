package model

import (
	"sort"
	"time"
)

// RoomID uniquely identifies a room across the system
type RoomID string

// UserID is the stable identity of a player, assigned by the auth provider
type UserID string

// RoomPhase represents the lifecycle stage of a room
type RoomPhase string

const (
	RoomPhaseOpen      RoomPhase = "open"      // Joinable, race not started
	RoomPhaseStarted   RoomPhase = "started"   // Countdown running or race active, locked
	RoomPhaseCompleted RoomPhase = "completed" // Every player finished
)

// CanJoin reports whether new players may join a room in this phase
func (p RoomPhase) CanJoin() bool {
	return p == RoomPhaseOpen
}

// MaxPlayers is the default room capacity
const MaxPlayers = 5

// PlayerStats holds a player's typing metrics for the current race.
// Absent (nil on Player) until the player starts typing.
type PlayerStats struct {
	Progress         float64 `json:"progress"` // Percentage of the paragraph typed, [0,100]
	WPM              float64 `json:"wpm"`
	Accuracy         float64 `json:"accuracy"`
	TotalMistakes    int     `json:"totalMistakes"`
	TimeTakenSeconds float64 `json:"timeTakenSeconds"`
	Finished         bool    `json:"finished"`
}

// Player represents a room participant
type Player struct {
	UserID    UserID       `json:"userId"`
	UserName  string       `json:"userName"`
	IsCreator bool         `json:"isCreated"` // Wire name kept from the original client protocol
	Stats     *PlayerStats `json:"stats,omitempty"`
}

// Room groups players for one typing race
type Room struct {
	ID            RoomID      `json:"id"`
	Name          string      `json:"roomName"`
	Phase         RoomPhase   `json:"phase"`
	Players       []Player    `json:"players"`
	ParagraphID   ParagraphID `json:"paragraphId,omitempty"`
	ParagraphText string      `json:"paragraphText,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// GetPlayer returns the player with the given user ID, or nil if not present
func (r *Room) GetPlayer(userID UserID) *Player {
	for i := range r.Players {
		if r.Players[i].UserID == userID {
			return &r.Players[i]
		}
	}
	return nil
}

// Creator returns the room's creator, or nil if none remains
func (r *Room) Creator() *Player {
	for i := range r.Players {
		if r.Players[i].IsCreator {
			return &r.Players[i]
		}
	}
	return nil
}

// IsFull reports whether the room has reached the given capacity
func (r *Room) IsFull(maxPlayers int) bool {
	return len(r.Players) >= maxPlayers
}

// AllFinished reports whether every player has reported completion.
// A room with no players is not considered finished.
func (r *Room) AllFinished() bool {
	if len(r.Players) == 0 {
		return false
	}
	for i := range r.Players {
		if r.Players[i].Stats == nil || !r.Players[i].Stats.Finished {
			return false
		}
	}
	return true
}

// WaitingCount returns the number of players who have not finished yet
func (r *Room) WaitingCount() int {
	waiting := 0
	for i := range r.Players {
		if r.Players[i].Stats == nil || !r.Players[i].Stats.Finished {
			waiting++
		}
	}
	return waiting
}

// Standing is one row of the final leaderboard
type Standing struct {
	Rank     int         `json:"rank"`
	UserID   UserID      `json:"userId"`
	UserName string      `json:"userName"`
	Stats    PlayerStats `json:"stats"`
}

// Standings ranks the room's finished players: WPM descending,
// accuracy descending as the tie-break.
func Standings(r *Room) []Standing {
	standings := make([]Standing, 0, len(r.Players))
	for i := range r.Players {
		p := r.Players[i]
		if p.Stats == nil || !p.Stats.Finished {
			continue
		}
		standings = append(standings, Standing{
			UserID:   p.UserID,
			UserName: p.UserName,
			Stats:    *p.Stats,
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		if standings[i].Stats.WPM != standings[j].Stats.WPM {
			return standings[i].Stats.WPM > standings[j].Stats.WPM
		}
		return standings[i].Stats.Accuracy > standings[j].Stats.Accuracy
	})

	for i := range standings {
		standings[i].Rank = i + 1
	}
	return standings
}
