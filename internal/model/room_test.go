package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func finishedStats(wpm, accuracy float64) *PlayerStats {
	return &PlayerStats{
		Progress: 100,
		WPM:      wpm,
		Accuracy: accuracy,
		Finished: true,
	}
}

func TestPhaseCanJoin(t *testing.T) {
	assert.True(t, RoomPhaseOpen.CanJoin())
	assert.False(t, RoomPhaseStarted.CanJoin())
	assert.False(t, RoomPhaseCompleted.CanJoin())
}

func TestGetPlayer(t *testing.T) {
	room := &Room{
		Players: []Player{
			{UserID: "u1", UserName: "Alice", IsCreator: true},
			{UserID: "u2", UserName: "Bob"},
		},
	}

	p := room.GetPlayer("u2")
	assert.NotNil(t, p)
	assert.Equal(t, "Bob", p.UserName)

	assert.Nil(t, room.GetPlayer("u3"))
}

func TestCreator(t *testing.T) {
	room := &Room{
		Players: []Player{
			{UserID: "u1", UserName: "Alice"},
			{UserID: "u2", UserName: "Bob", IsCreator: true},
		},
	}

	c := room.Creator()
	assert.NotNil(t, c)
	assert.Equal(t, UserID("u2"), c.UserID)

	empty := &Room{}
	assert.Nil(t, empty.Creator())
}

func TestAllFinished(t *testing.T) {
	room := &Room{
		Players: []Player{
			{UserID: "u1", Stats: finishedStats(80, 95)},
			{UserID: "u2"},
		},
	}
	assert.False(t, room.AllFinished())
	assert.Equal(t, 1, room.WaitingCount())

	room.Players[1].Stats = finishedStats(60, 99)
	assert.True(t, room.AllFinished())
	assert.Equal(t, 0, room.WaitingCount())
}

func TestAllFinishedEmptyRoom(t *testing.T) {
	room := &Room{}
	assert.False(t, room.AllFinished())
}

func TestStandingsRankedByWPM(t *testing.T) {
	room := &Room{
		Players: []Player{
			{UserID: "u1", UserName: "Alice", Stats: finishedStats(60, 99)},
			{UserID: "u2", UserName: "Bob", Stats: finishedStats(80, 95)},
		},
	}

	standings := Standings(room)
	assert.Len(t, standings, 2)
	assert.Equal(t, UserID("u2"), standings[0].UserID)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, UserID("u1"), standings[1].UserID)
	assert.Equal(t, 2, standings[1].Rank)
}

func TestStandingsTieBrokenByAccuracy(t *testing.T) {
	room := &Room{
		Players: []Player{
			{UserID: "u1", Stats: finishedStats(70, 90)},
			{UserID: "u2", Stats: finishedStats(70, 98)},
		},
	}

	standings := Standings(room)
	assert.Equal(t, UserID("u2"), standings[0].UserID)
	assert.Equal(t, UserID("u1"), standings[1].UserID)
}

func TestStandingsSkipsUnfinishedPlayers(t *testing.T) {
	room := &Room{
		Players: []Player{
			{UserID: "u1", Stats: finishedStats(70, 90)},
			{UserID: "u2", Stats: &PlayerStats{Progress: 50}},
			{UserID: "u3"},
		},
	}

	standings := Standings(room)
	assert.Len(t, standings, 1)
	assert.Equal(t, UserID("u1"), standings[0].UserID)
}
