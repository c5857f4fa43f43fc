package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/services/auth"
	"github.com/typeracehq/typerace/internal/services/paragraph"
	"github.com/typeracehq/typerace/internal/services/room"
)

// Config holds gateway timing settings
type Config struct {
	// CountdownDelay is the wait between countdown start and paragraph
	// dispatch
	CountdownDelay time.Duration
	// ResultsDelay is the wait between the last finish and the
	// leaderboard redirect
	ResultsDelay time.Duration
	// HandlerTimeout bounds the store work done for a single event
	HandlerTimeout time.Duration
	// AllowedOrigins lists the origins permitted to open websocket
	// connections, in addition to same-origin requests. "*" disables
	// the check entirely. Tokens ride in a cookie, so a cross-origin
	// page could otherwise open a fully authenticated connection.
	AllowedOrigins []string
}

// DefaultConfig returns default gateway configuration
func DefaultConfig() Config {
	return Config{
		CountdownDelay: 10 * time.Second,
		ResultsDelay:   5 * time.Second,
		HandlerTimeout: 10 * time.Second,
		AllowedOrigins: []string{"http://localhost:4200"},
	}
}

// Gateway is the realtime entry point. It upgrades authenticated HTTP
// requests to websocket connections and routes their events to the room
// and paragraph services, broadcasting the results over the hub.
type Gateway struct {
	rooms      *room.Controller
	paragraphs *paragraph.Service
	auth       *auth.Service
	hub        *Hub
	sched      *scheduler
	cfg        Config
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// New creates a new Gateway
func New(rooms *room.Controller, paragraphs *paragraph.Service, authSvc *auth.Service, hub *Hub, cfg Config, logger *slog.Logger) *Gateway {
	if cfg.CountdownDelay == 0 {
		cfg.CountdownDelay = DefaultConfig().CountdownDelay
	}
	if cfg.ResultsDelay == 0 {
		cfg.ResultsDelay = DefaultConfig().ResultsDelay
	}
	if cfg.HandlerTimeout == 0 {
		cfg.HandlerTimeout = DefaultConfig().HandlerTimeout
	}
	g := &Gateway{
		rooms:      rooms,
		paragraphs: paragraphs,
		auth:       authSvc,
		hub:        hub,
		sched:      newScheduler(),
		cfg:        cfg,
		logger:     logger.With(slog.String("component", "gateway")),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     g.checkOrigin,
	}
	return g
}

// checkOrigin guards the handshake against cross-site websocket
// hijacking: credentials arrive in a cookie the browser attaches to any
// page's connection attempt. Requests without an Origin header are
// non-browser clients and pass; browser requests must be same-origin or
// match an allowed origin.
func (g *Gateway) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}

	for _, allowed := range g.cfg.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	g.logger.Warn("websocket origin rejected", slog.String("origin", origin))
	return false
}

// Hub exposes the connection hub, mainly for health reporting
func (g *Gateway) Hub() *Hub {
	return g.hub
}

// ServeWS authenticates the request and upgrades it to a websocket
// connection. The token is taken from the access_token cookie, the
// Authorization header, or the token query parameter, in that order.
func (g *Gateway) ServeWS(w http.ResponseWriter, r *http.Request) {
	identity, err := g.auth.Verify(tokenFromRequest(r))
	if err != nil {
		g.logger.Warn("websocket auth failed", slog.Any("error", err))
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := newClient(g.hub, conn, *identity, g.handleEvent, g.logger)
	g.hub.Register(client)
	client.start()
}

// tokenFromRequest extracts the bearer token from a handshake request
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie("access_token"); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && h[:7] == "Bearer " {
		return h[7:]
	}
	return r.URL.Query().Get("token")
}

// handleEvent dispatches one inbound event. Events on a single
// connection arrive in order; failures are reported only to the sender.
func (g *Gateway) handleEvent(c *Client, env Envelope) {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.HandlerTimeout)
	defer cancel()

	switch env.Event {
	case EventCreateRoom:
		g.handleCreateRoom(ctx, c, env.Data)
	case EventJoinRoom:
		g.handleJoinRoom(ctx, c, env.Data)
	case EventLeaveRoom:
		g.handleLeaveRoom(ctx, c, env.Data)
	case EventGetRoom:
		g.handleGetRoom(ctx, c, env.Data)
	case EventDestroyRoom:
		g.handleDestroyRoom(ctx, c, env.Data)
	case EventGetAllRooms:
		g.handleGetAllRooms(ctx, c)
	case EventCountdown:
		g.handleCountdown(ctx, c, env.Data)
	case EventLiveProgress:
		g.handleLiveProgress(ctx, c, env.Data)
	case EventPlayerFinished:
		g.handlePlayerFinished(ctx, c, env.Data)
	default:
		g.logger.Warn("unknown event", slog.String("event", env.Event))
		g.sendError(c, EventGameError, ErrorPayload{CodeInvalidRequest, "Unknown event"})
	}
}

func (g *Gateway) handleCreateRoom(ctx context.Context, c *Client, data json.RawMessage) {
	var req createRoomRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomName == "" {
		g.sendError(c, EventGameError, ErrorPayload{CodeInvalidRequest, "A room name is required"})
		return
	}

	created, err := g.rooms.CreateRoom(ctx, req.RoomName, c.identity.UserID, c.identity.Name)
	if err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	g.hub.Subscribe(c, created.ID)
	g.send(c, EventRoomCreatedByMe, roomPayload(created))
	g.broadcastOthers(c, EventNewRoomAvailable, roomPayload(created))
}

func (g *Gateway) handleJoinRoom(ctx context.Context, c *Client, data json.RawMessage) {
	roomID, ok := g.decodeRoomID(c, data, EventJoinRoomError)
	if !ok {
		return
	}

	joined, err := g.rooms.Join(ctx, roomID, c.identity.UserID, c.identity.Name)
	if err != nil {
		g.sendError(c, EventJoinRoomError, toErrorPayload(err))
		return
	}

	g.hub.Subscribe(c, joined.ID)
	g.send(c, EventJoinedRoom, roomPayload(joined))
	g.broadcastRoom(joined.ID, EventRoomUpdated, roomPayload(joined))
}

func (g *Gateway) handleLeaveRoom(ctx context.Context, c *Client, data json.RawMessage) {
	roomID, ok := g.decodeRoomID(c, data, EventGameError)
	if !ok {
		return
	}

	left, deleted, err := g.rooms.Leave(ctx, roomID, c.identity.UserID)
	if err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	g.hub.Unsubscribe(c, roomID)
	g.send(c, EventLeftRoomByMe, RoomDestroyedPayload{RoomID: string(roomID)})

	if deleted {
		g.sched.Cancel(roomID)
		g.hub.CloseRoom(roomID)
		g.broadcastAll(EventRoomDestroyed, RoomDestroyedPayload{RoomID: string(roomID)})
		return
	}
	g.broadcastRoom(roomID, EventRoomUpdated, roomPayload(left))
}

func (g *Gateway) handleGetRoom(ctx context.Context, c *Client, data json.RawMessage) {
	roomID, ok := g.decodeRoomID(c, data, EventGameError)
	if !ok {
		return
	}

	current, err := g.rooms.GetRoomForPlayer(ctx, roomID, c.identity.UserID)
	if err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	// Reconnecting clients use get-room to rejoin the room channel
	g.hub.Subscribe(c, current.ID)
	g.send(c, EventJoinedRoom, roomPayload(current))
}

func (g *Gateway) handleDestroyRoom(ctx context.Context, c *Client, data json.RawMessage) {
	roomID, ok := g.decodeRoomID(c, data, EventGameError)
	if !ok {
		return
	}

	if err := g.rooms.Destroy(ctx, roomID, c.identity.UserID); err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	g.sched.Cancel(roomID)
	g.broadcastAll(EventRoomDestroyed, RoomDestroyedPayload{RoomID: string(roomID)})
	g.hub.CloseRoom(roomID)
}

func (g *Gateway) handleGetAllRooms(ctx context.Context, c *Client) {
	rooms, err := g.rooms.ListRooms(ctx)
	if err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	payloads := make([]RoomPayload, 0, len(rooms))
	for _, r := range rooms {
		payloads = append(payloads, roomPayload(r))
	}
	g.send(c, EventSetAllRooms, payloads)
}

func (g *Gateway) handleCountdown(ctx context.Context, c *Client, data json.RawMessage) {
	roomID, ok := g.decodeRoomID(c, data, EventGameError)
	if !ok {
		return
	}

	started, err := g.rooms.StartCountdown(ctx, roomID, c.identity.UserID)
	if err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	// Locked rooms disappear from join lists everywhere, not just for
	// room members
	g.broadcastAll(EventLockRoom, roomPayload(started))
	g.broadcastRoom(roomID, EventGameStarted, roomPayload(started))

	g.sched.After(roomID, g.cfg.CountdownDelay, g.dispatchParagraph)
}

// dispatchParagraph runs when the countdown elapses. The room is
// re-fetched because it may have been destroyed while the timer was
// pending.
func (g *Gateway) dispatchParagraph(roomID model.RoomID) {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.HandlerTimeout)
	defer cancel()

	p, err := g.paragraphs.Random(ctx)
	if err != nil {
		g.logger.Error("paragraph selection failed",
			slog.String("room_id", string(roomID)), slog.Any("error", err))
		g.broadcastRoom(roomID, EventGameError,
			ErrorPayload{CodeInternalError, "Failed to load game content"})
		return
	}

	if _, err := g.rooms.AttachParagraph(ctx, roomID, p); err != nil {
		if !errors.Is(err, model.ErrRoomNotFound) {
			g.logger.Error("paragraph attach failed",
				slog.String("room_id", string(roomID)), slog.Any("error", err))
		}
		return
	}

	g.broadcastRoom(roomID, EventParagraphReady, ParagraphReadyPayload{
		RoomID:      string(roomID),
		ParagraphID: string(p.ID),
		Paragraph:   p.Content,
	})
}

func (g *Gateway) handleLiveProgress(ctx context.Context, c *Client, data json.RawMessage) {
	var req liveProgressRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		g.sendError(c, EventGameError, ErrorPayload{CodeInvalidRequest, "A room id is required"})
		return
	}

	roomID := model.RoomID(req.RoomID)
	updated, err := g.rooms.ReportProgress(ctx, roomID, c.identity.UserID, req.Progress, req.WPM, req.Accuracy)
	if err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	g.broadcastRoom(roomID, EventRoomUpdated, roomPayload(updated))
}

func (g *Gateway) handlePlayerFinished(ctx context.Context, c *Client, data json.RawMessage) {
	var req playerFinishedRequest
	if err := json.Unmarshal(data, &req); err != nil || req.RoomID == "" {
		g.sendError(c, EventGameError, ErrorPayload{CodeInvalidRequest, "A room id is required"})
		return
	}

	roomID := model.RoomID(req.RoomID)
	finished, completed, err := g.rooms.ReportFinished(ctx, roomID, c.identity.UserID, req.Stats)
	if err != nil {
		g.sendError(c, EventGameError, toErrorPayload(err))
		return
	}

	player := finished.GetPlayer(c.identity.UserID)
	g.broadcastRoom(roomID, EventPlayerFinishedUpdate, PlayerFinishedPayload{
		UserID:       string(player.UserID),
		UserName:     player.UserName,
		Stats:        *player.Stats,
		WaitingCount: finished.WaitingCount(),
	})

	if completed {
		g.broadcastRoom(roomID, EventAllPlayersFinished, roomPayload(finished))
		g.sched.After(roomID, g.cfg.ResultsDelay, g.dispatchLeaderboard)
	}
}

// dispatchLeaderboard runs after the results delay, re-fetching the
// room so standings reflect any late state changes
func (g *Gateway) dispatchLeaderboard(roomID model.RoomID) {
	ctx, cancel := context.WithTimeout(context.Background(), g.cfg.HandlerTimeout)
	defer cancel()

	current, err := g.rooms.GetRoom(ctx, roomID)
	if err != nil {
		if !errors.Is(err, model.ErrRoomNotFound) {
			g.logger.Error("leaderboard fetch failed",
				slog.String("room_id", string(roomID)), slog.Any("error", err))
		}
		return
	}

	g.broadcastRoom(roomID, EventRedirectToLeaderboard, LeaderboardPayload{
		RoomID:  string(roomID),
		Results: model.Standings(current),
	})
}

// decodeRoomID accepts either {"roomId": "..."} or a bare JSON string,
// the two shapes clients send room references in
func (g *Gateway) decodeRoomID(c *Client, data json.RawMessage, errorEvent string) (model.RoomID, bool) {
	var req roomRequest
	if err := json.Unmarshal(data, &req); err == nil && req.RoomID != "" {
		return model.RoomID(req.RoomID), true
	}
	var id string
	if err := json.Unmarshal(data, &id); err == nil && id != "" {
		return model.RoomID(id), true
	}
	g.sendError(c, errorEvent, ErrorPayload{CodeInvalidRequest, "A room id is required"})
	return "", false
}

func (g *Gateway) send(c *Client, event string, data any) {
	msg, err := encode(event, data)
	if err != nil {
		g.logger.Error("encode failed", slog.String("event", event), slog.Any("error", err))
		return
	}
	g.hub.SendTo(c, msg)
}

func (g *Gateway) sendError(c *Client, event string, payload ErrorPayload) {
	g.send(c, event, payload)
}

func (g *Gateway) broadcastAll(event string, data any) {
	msg, err := encode(event, data)
	if err != nil {
		g.logger.Error("encode failed", slog.String("event", event), slog.Any("error", err))
		return
	}
	g.hub.BroadcastAll(msg)
}

func (g *Gateway) broadcastOthers(sender *Client, event string, data any) {
	msg, err := encode(event, data)
	if err != nil {
		g.logger.Error("encode failed", slog.String("event", event), slog.Any("error", err))
		return
	}
	g.hub.BroadcastOthers(sender, msg)
}

func (g *Gateway) broadcastRoom(roomID model.RoomID, event string, data any) {
	msg, err := encode(event, data)
	if err != nil {
		g.logger.Error("encode failed", slog.String("event", event), slog.Any("error", err))
		return
	}
	g.hub.BroadcastRoom(roomID, msg)
}
