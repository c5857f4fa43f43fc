package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
//
// Rooms are deep-copied on save and load so callers never share mutable
// state through the store, matching the serialization boundary of the
// Redis implementation.
type Storage struct {
	mu sync.RWMutex

	rooms      map[model.RoomID]*model.Room
	paragraphs map[model.ParagraphID]*model.Paragraph
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:      make(map[model.RoomID]*model.Room),
		paragraphs: make(map[model.ParagraphID]*model.Paragraph),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// copyRoom round-trips a room through JSON. A failure would mean the
// model grew a field JSON cannot represent; returning the shared
// pointer would silently void the isolation guarantee, so fail loudly
// instead.
func copyRoom(room *model.Room) *model.Room {
	data, err := json.Marshal(room)
	if err != nil {
		panic(fmt.Sprintf("room %s is not JSON round-trippable: %v", room.ID, err))
	}
	var clone model.Room
	if err := json.Unmarshal(data, &clone); err != nil {
		panic(fmt.Sprintf("room %s is not JSON round-trippable: %v", room.ID, err))
	}
	return &clone
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = copyRoom(room)
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return copyRoom(room), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rooms := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, copyRoom(room))
	}
	return rooms, nil
}

// Paragraph operations

func (s *Storage) SaveParagraph(ctx context.Context, paragraph *model.Paragraph) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := *paragraph
	s.paragraphs[paragraph.ID] = &p
	return nil
}

func (s *Storage) GetParagraph(ctx context.Context, id model.ParagraphID) (*model.Paragraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paragraph, ok := s.paragraphs[id]
	if !ok {
		return nil, model.ErrParagraphNotFound
	}
	p := *paragraph
	return &p, nil
}

func (s *Storage) ParagraphIDs(ctx context.Context) ([]model.ParagraphID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]model.ParagraphID, 0, len(s.paragraphs))
	for id := range s.paragraphs {
		ids = append(ids, id)
	}
	return ids, nil
}
