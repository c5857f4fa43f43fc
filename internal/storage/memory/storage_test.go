package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/typeracehq/typerace/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetRoom() {
	room := &model.Room{
		ID:    "room-1",
		Name:  "Sprint",
		Phase: model.RoomPhaseOpen,
		Players: []model.Player{
			{UserID: "u1", UserName: "Alice", IsCreator: true},
		},
	}

	err := s.storage.SaveRoom(s.ctx, room)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal(room.Name, retrieved.Name)
	s.Len(retrieved.Players, 1)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestGetRoomReturnsIsolatedCopy() {
	room := &model.Room{
		ID:    "room-1",
		Name:  "Sprint",
		Phase: model.RoomPhaseOpen,
		Players: []model.Player{
			{UserID: "u1", UserName: "Alice", IsCreator: true},
		},
	}
	_ = s.storage.SaveRoom(s.ctx, room)

	// Mutating a loaded copy must not leak into the stored room
	loaded, _ := s.storage.GetRoom(s.ctx, "room-1")
	loaded.Players[0].UserName = "Mallory"
	loaded.Phase = model.RoomPhaseStarted

	fresh, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal("Alice", fresh.Players[0].UserName)
	s.Equal(model.RoomPhaseOpen, fresh.Phase)
}

func (s *StorageSuite) TestSaveRoomCopiesInput() {
	room := &model.Room{
		ID:      "room-1",
		Name:    "Sprint",
		Phase:   model.RoomPhaseOpen,
		Players: []model.Player{{UserID: "u1", UserName: "Alice"}},
	}
	_ = s.storage.SaveRoom(s.ctx, room)

	room.Players[0].UserName = "Mallory"

	fresh, err := s.storage.GetRoom(s.ctx, "room-1")
	s.Require().NoError(err)
	s.Equal("Alice", fresh.Players[0].UserName)
}

func (s *StorageSuite) TestDeleteRoom() {
	room := &model.Room{ID: "room-1", Name: "Sprint", Phase: model.RoomPhaseOpen}
	_ = s.storage.SaveRoom(s.ctx, room)

	err := s.storage.DeleteRoom(s.ctx, "room-1")
	s.Require().NoError(err)

	_, err = s.storage.GetRoom(s.ctx, "room-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestRoomExists() {
	room := &model.Room{ID: "room-1", Name: "Sprint", Phase: model.RoomPhaseOpen}
	_ = s.storage.SaveRoom(s.ctx, room)

	exists, err := s.storage.RoomExists(s.ctx, "room-1")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.storage.RoomExists(s.ctx, "other")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *StorageSuite) TestListRooms() {
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-1", Name: "Sprint", Phase: model.RoomPhaseOpen})
	_ = s.storage.SaveRoom(s.ctx, &model.Room{ID: "room-2", Name: "Marathon", Phase: model.RoomPhaseOpen})

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
}

func (s *StorageSuite) TestParagraphs() {
	_ = s.storage.SaveParagraph(s.ctx, &model.Paragraph{ID: "p1", Content: "one"})
	_ = s.storage.SaveParagraph(s.ctx, &model.Paragraph{ID: "p2", Content: "two"})

	p, err := s.storage.GetParagraph(s.ctx, "p1")
	s.Require().NoError(err)
	s.Equal("one", p.Content)

	ids, err := s.storage.ParagraphIDs(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]model.ParagraphID{"p1", "p2"}, ids)

	_, err = s.storage.GetParagraph(s.ctx, "missing")
	s.ErrorIs(err, model.ErrParagraphNotFound)
}
