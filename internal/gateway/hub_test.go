package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/services/auth"
	"github.com/typeracehq/typerace/internal/testutil"
)

// testClient builds a client with a buffered send channel and no
// connection; the pumps are never started
func testClient(hub *Hub, userID string) *Client {
	return &Client{
		hub:      hub,
		identity: auth.Identity{UserID: model.UserID(userID), Name: userID},
		send:     make(chan []byte, sendBufferSize),
		logger:   testutil.NopLogger(),
	}
}

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case msg := <-c.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestHubBroadcastAll(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := testClient(hub, "a")
	b := testClient(hub, "b")
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastAll([]byte("hello"))

	require.Len(t, drain(a), 1)
	require.Len(t, drain(b), 1)
}

func TestHubBroadcastOthersSkipsSender(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := testClient(hub, "a")
	b := testClient(hub, "b")
	hub.Register(a)
	hub.Register(b)

	hub.BroadcastOthers(a, []byte("hello"))

	assert.Empty(t, drain(a))
	require.Len(t, drain(b), 1)
}

func TestHubBroadcastRoomOnlyReachesMembers(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	member := testClient(hub, "member")
	outsider := testClient(hub, "outsider")
	hub.Register(member)
	hub.Register(outsider)

	roomID := model.RoomID("room-1")
	hub.Subscribe(member, roomID)

	hub.BroadcastRoom(roomID, []byte("room message"))

	require.Len(t, drain(member), 1)
	assert.Empty(t, drain(outsider))
}

func TestHubUnsubscribeStopsRoomDelivery(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	c := testClient(hub, "c")
	hub.Register(c)

	roomID := model.RoomID("room-1")
	hub.Subscribe(c, roomID)
	hub.Unsubscribe(c, roomID)

	hub.BroadcastRoom(roomID, []byte("room message"))
	assert.Empty(t, drain(c))
	assert.Equal(t, 0, hub.RoomClientCount(roomID))
}

func TestHubCloseRoomDropsAllMembers(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := testClient(hub, "a")
	b := testClient(hub, "b")
	hub.Register(a)
	hub.Register(b)

	roomID := model.RoomID("room-1")
	hub.Subscribe(a, roomID)
	hub.Subscribe(b, roomID)
	require.Equal(t, 2, hub.RoomClientCount(roomID))

	hub.CloseRoom(roomID)

	assert.Equal(t, 0, hub.RoomClientCount(roomID))
	hub.BroadcastRoom(roomID, []byte("gone"))
	assert.Empty(t, drain(a))
	assert.Empty(t, drain(b))

	// Clients are still connected for lobby broadcasts
	hub.BroadcastAll([]byte("lobby"))
	require.Len(t, drain(a), 1)
	require.Len(t, drain(b), 1)
}

func TestHubUnregisterRemovesMembershipsAndClosesSend(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := testClient(hub, "a")
	hub.Register(a)

	roomID := model.RoomID("room-1")
	hub.Subscribe(a, roomID)

	hub.Unregister(a)

	assert.Equal(t, 0, hub.RoomClientCount(roomID))
	_, open := <-a.send
	assert.False(t, open)

	// Idempotent
	hub.Unregister(a)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(testutil.NopLogger())
	a := &Client{
		hub:      hub,
		identity: auth.Identity{UserID: "a"},
		send:     make(chan []byte, 1),
		logger:   testutil.NopLogger(),
	}
	hub.Register(a)

	hub.BroadcastAll([]byte("first"))
	hub.BroadcastAll([]byte("second"))

	msgs := drain(a)
	require.Len(t, msgs, 1)
	assert.Equal(t, "first", string(msgs[0]))
}
