package gateway

import (
	"errors"

	"github.com/typeracehq/typerace/internal/model"
)

// Wire error codes
const (
	CodeRoomNotFound    = "ROOM_NOT_FOUND"
	CodeRoomFull        = "ROOM_FULL"
	CodeRoomLocked      = "ROOM_LOCKED"
	CodeNotAuthorized   = "NOT_AUTHORIZED"
	CodeInvalidProgress = "INVALID_PROGRESS"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeInternalError   = "INTERNAL_ERROR"
)

// toErrorPayload maps an error to its wire representation. Anything not
// recognized is an infrastructure failure and surfaces as a generic
// internal error without leaking detail.
func toErrorPayload(err error) ErrorPayload {
	switch {
	case errors.Is(err, model.ErrRoomNotFound):
		return ErrorPayload{CodeRoomNotFound, "Room not found"}
	case errors.Is(err, model.ErrRoomFull):
		return ErrorPayload{CodeRoomFull, "Room is full"}
	case errors.Is(err, model.ErrRoomLocked):
		return ErrorPayload{CodeRoomLocked, "Cannot join room - game already started"}
	case errors.Is(err, model.ErrAlreadyStarted):
		return ErrorPayload{CodeRoomLocked, "Game has already started"}
	case errors.Is(err, model.ErrNotCreator):
		return ErrorPayload{CodeNotAuthorized, "Only the room creator can do that"}
	case errors.Is(err, model.ErrNotInRoom):
		return ErrorPayload{CodeNotAuthorized, "You are not in this room"}
	case errors.Is(err, model.ErrInvalidProgress):
		return ErrorPayload{CodeInvalidProgress, "Progress must be between 0 and 100"}
	default:
		return ErrorPayload{CodeInternalError, "Internal server error"}
	}
}
