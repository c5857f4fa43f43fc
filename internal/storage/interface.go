package storage

import (
	"context"

	"github.com/typeracehq/typerace/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	// ListRooms enumerates all rooms incrementally; the room count is
	// unbounded and the backing store may be shared with other data.
	ListRooms(ctx context.Context) ([]*model.Room, error)

	// Paragraph operations
	SaveParagraph(ctx context.Context, paragraph *model.Paragraph) error
	GetParagraph(ctx context.Context, id model.ParagraphID) (*model.Paragraph, error)
	ParagraphIDs(ctx context.Context) ([]model.ParagraphID, error)
}
