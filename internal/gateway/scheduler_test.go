package gateway

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/typeracehq/typerace/internal/model"
)

func TestSchedulerFires(t *testing.T) {
	s := newScheduler()
	fired := make(chan model.RoomID, 1)

	s.After("room-1", 10*time.Millisecond, func(id model.RoomID) {
		fired <- id
	})

	select {
	case id := <-fired:
		assert.Equal(t, model.RoomID("room-1"), id)
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestSchedulerCancelPreventsFire(t *testing.T) {
	s := newScheduler()
	var fired atomic.Int32

	s.After("room-1", 20*time.Millisecond, func(model.RoomID) {
		fired.Add(1)
	})
	s.Cancel("room-1")

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestSchedulerCancelIsPerRoom(t *testing.T) {
	s := newScheduler()
	fired := make(chan model.RoomID, 2)

	s.After("room-1", 20*time.Millisecond, func(id model.RoomID) { fired <- id })
	s.After("room-2", 20*time.Millisecond, func(id model.RoomID) { fired <- id })
	s.Cancel("room-1")

	select {
	case id := <-fired:
		assert.Equal(t, model.RoomID("room-2"), id)
	case <-time.After(time.Second):
		t.Fatal("surviving timer never fired")
	}

	select {
	case id := <-fired:
		t.Fatalf("cancelled timer fired for %s", id)
	case <-time.After(50 * time.Millisecond):
	}
}
