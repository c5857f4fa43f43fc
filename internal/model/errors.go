package model

import "errors"

// Common errors used across the application
var (
	// Room errors
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomLocked      = errors.New("room is locked - game already started")
	ErrNotInRoom       = errors.New("player is not in room")
	ErrNotCreator      = errors.New("player is not the room creator")
	ErrAlreadyStarted  = errors.New("game has already started")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")

	// Paragraph errors
	ErrParagraphNotFound = errors.New("paragraph not found")
	ErrNoParagraphs      = errors.New("no paragraphs loaded")
)
