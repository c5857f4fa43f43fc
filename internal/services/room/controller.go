package room

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/typeracehq/typerace/internal/dependencies/clock"
	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/storage"
)

// Config holds room behavior settings
type Config struct {
	// MaxPlayers is the room capacity
	MaxPlayers int
	// RequireCreatorOnDestroy restricts destroy-room to the room creator.
	// The original client allowed anyone to destroy any room; keep this
	// on unless that behavior is explicitly wanted.
	RequireCreatorOnDestroy bool
}

// DefaultConfig returns default room configuration
func DefaultConfig() Config {
	return Config{
		MaxPlayers:              model.MaxPlayers,
		RequireCreatorOnDestroy: true,
	}
}

// Controller manages room lifecycle and player mutations.
//
// Every mutation is a load-mutate-save cycle against the session store,
// serialized per room via roomLocks so concurrent events for the same
// room never lose updates.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	cfg     Config
	locks   *roomLocks
	logger  *slog.Logger
}

// NewController creates a new room Controller
func NewController(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Controller {
	if cfg.MaxPlayers <= 0 {
		cfg.MaxPlayers = DefaultConfig().MaxPlayers
	}
	return &Controller{
		storage: storage,
		clock:   clock,
		cfg:     cfg,
		locks:   newRoomLocks(),
		logger:  logger.With(slog.String("component", "room")),
	}
}

// CreateRoom creates a new open room with the given player as creator
func (c *Controller) CreateRoom(ctx context.Context, name string, creatorID model.UserID, creatorName string) (*model.Room, error) {
	now := c.clock.Now()

	room := &model.Room{
		ID:    model.RoomID(uuid.NewString()),
		Name:  name,
		Phase: model.RoomPhaseOpen,
		Players: []model.Player{
			{
				UserID:    creatorID,
				UserName:  creatorName,
				IsCreator: true,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room_id", string(room.ID)),
		slog.String("creator", string(creatorID)))

	return room, nil
}

// GetRoom retrieves a room by ID
func (c *Controller) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return c.storage.GetRoom(ctx, id)
}

// GetRoomForPlayer retrieves a room, requiring the caller to be a member
func (c *Controller) GetRoomForPlayer(ctx context.Context, id model.RoomID, userID model.UserID) (*model.Room, error) {
	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.GetPlayer(userID) == nil {
		return nil, model.ErrNotInRoom
	}
	return room, nil
}

// ListRooms returns all rooms currently in the store
func (c *Controller) ListRooms(ctx context.Context) ([]*model.Room, error) {
	return c.storage.ListRooms(ctx)
}

// Join adds a player to an open room. A locked room rejects everyone,
// members included; reconnecting members of a started race use GetRoomForPlayer
// instead. While the room is open, rejoining with the same user ID is
// idempotent: the display name is refreshed in place and the creator
// flag preserved.
func (c *Controller) Join(ctx context.Context, id model.RoomID, userID model.UserID, userName string) (*model.Room, error) {
	defer c.locks.acquire(id)()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	if !room.Phase.CanJoin() {
		return nil, model.ErrRoomLocked
	}

	if existing := room.GetPlayer(userID); existing != nil {
		existing.UserName = userName
		room.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveRoom(ctx, room); err != nil {
			return nil, err
		}
		return room, nil
	}

	if room.IsFull(c.cfg.MaxPlayers) {
		return nil, model.ErrRoomFull
	}

	room.Players = append(room.Players, model.Player{
		UserID:   userID,
		UserName: userName,
	})
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Leave removes a player from a room. The last player leaving deletes
// the room. If the creator leaves, the earliest remaining player is
// promoted so the room always has someone able to start the race.
func (c *Controller) Leave(ctx context.Context, id model.RoomID, userID model.UserID) (room *model.Room, deleted bool, err error) {
	defer c.locks.acquire(id)()

	room, err = c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, false, err
	}

	player := room.GetPlayer(userID)
	if player == nil {
		return nil, false, model.ErrNotInRoom
	}
	wasCreator := player.IsCreator

	for i := range room.Players {
		if room.Players[i].UserID == userID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}

	if len(room.Players) == 0 {
		if err := c.storage.DeleteRoom(ctx, id); err != nil {
			return nil, false, err
		}
		c.locks.forget(id)
		return room, true, nil
	}

	if wasCreator {
		room.Players[0].IsCreator = true
	}

	room.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, false, err
	}
	return room, false, nil
}

// StartCountdown locks the room for the race. Only the creator may
// start; the paragraph is dispatched separately once the countdown
// delay elapses.
func (c *Controller) StartCountdown(ctx context.Context, id model.RoomID, requesterID model.UserID) (*model.Room, error) {
	defer c.locks.acquire(id)()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	requester := room.GetPlayer(requesterID)
	if requester == nil || !requester.IsCreator {
		return nil, model.ErrNotCreator
	}

	if room.Phase != model.RoomPhaseOpen {
		return nil, model.ErrAlreadyStarted
	}

	room.Phase = model.RoomPhaseStarted
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("countdown started", slog.String("room_id", string(id)))
	return room, nil
}

// AttachParagraph records the race paragraph on a room. Called when the
// countdown timer fires; the room may have been destroyed in the
// interim, in which case ErrRoomNotFound is returned and the caller
// no-ops.
func (c *Controller) AttachParagraph(ctx context.Context, id model.RoomID, paragraph *model.Paragraph) (*model.Room, error) {
	defer c.locks.acquire(id)()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	room.ParagraphID = paragraph.ID
	room.ParagraphText = paragraph.Content
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ReportProgress upserts a member's live typing stats. Progress is
// bounded to [0,100] and kept monotonic non-decreasing: a report lower
// than the stored value keeps the stored value.
func (c *Controller) ReportProgress(ctx context.Context, id model.RoomID, userID model.UserID, progress, wpm, accuracy float64) (*model.Room, error) {
	if progress < 0 || progress > 100 {
		return nil, model.ErrInvalidProgress
	}

	defer c.locks.acquire(id)()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	player := room.GetPlayer(userID)
	if player == nil {
		return nil, model.ErrNotInRoom
	}

	if player.Stats == nil {
		player.Stats = &model.PlayerStats{}
	}
	if progress > player.Stats.Progress {
		player.Stats.Progress = progress
	}
	player.Stats.WPM = wpm
	player.Stats.Accuracy = accuracy
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// ReportFinished records a member's final stats. Idempotent: repeated
// reports for the same player leave the room equivalent. Returns
// completed=true only on the call that transitions the room to
// completed, so the completion side effects fire exactly once.
func (c *Controller) ReportFinished(ctx context.Context, id model.RoomID, userID model.UserID, stats model.PlayerStats) (room *model.Room, completed bool, err error) {
	defer c.locks.acquire(id)()

	room, err = c.storage.GetRoom(ctx, id)
	if err != nil {
		return nil, false, err
	}

	player := room.GetPlayer(userID)
	if player == nil {
		return nil, false, model.ErrNotInRoom
	}

	stats.Finished = true
	stats.Progress = 100
	player.Stats = &stats

	if room.AllFinished() && room.Phase != model.RoomPhaseCompleted {
		room.Phase = model.RoomPhaseCompleted
		completed = true
	}
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, false, err
	}

	if completed {
		c.logger.Info("room completed", slog.String("room_id", string(id)))
	}
	return room, completed, nil
}

// Destroy deletes a room. When RequireCreatorOnDestroy is set, only the
// creator may destroy it.
func (c *Controller) Destroy(ctx context.Context, id model.RoomID, requesterID model.UserID) error {
	defer c.locks.acquire(id)()

	room, err := c.storage.GetRoom(ctx, id)
	if err != nil {
		return err
	}

	if c.cfg.RequireCreatorOnDestroy {
		requester := room.GetPlayer(requesterID)
		if requester == nil || !requester.IsCreator {
			return model.ErrNotCreator
		}
	}

	if err := c.storage.DeleteRoom(ctx, id); err != nil {
		return err
	}
	c.locks.forget(id)

	c.logger.Info("room destroyed",
		slog.String("room_id", string(id)),
		slog.String("requester", string(requesterID)))
	return nil
}
