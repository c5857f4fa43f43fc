package gateway

import (
	"sync"
	"time"

	"github.com/typeracehq/typerace/internal/model"
)

// scheduler tracks pending per-room timers so they can all be
// cancelled when the room goes away. Fired callbacks receive only the
// room ID and must re-fetch current state themselves.
type scheduler struct {
	mu     sync.Mutex
	timers map[model.RoomID]map[*time.Timer]struct{}
}

func newScheduler() *scheduler {
	return &scheduler{
		timers: make(map[model.RoomID]map[*time.Timer]struct{}),
	}
}

// After schedules fn to run after d, associated with the given room.
// If the room's timers are cancelled before d elapses, fn never runs.
func (s *scheduler) After(roomID model.RoomID, d time.Duration, fn func(model.RoomID)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		pending, ok := s.timers[roomID]
		if ok {
			if _, live := pending[t]; !live {
				ok = false
			}
			delete(pending, t)
			if len(pending) == 0 {
				delete(s.timers, roomID)
			}
		}
		s.mu.Unlock()

		if !ok {
			return
		}
		fn(roomID)
	})

	pending, ok := s.timers[roomID]
	if !ok {
		pending = make(map[*time.Timer]struct{})
		s.timers[roomID] = pending
	}
	pending[t] = struct{}{}
}

// Cancel stops every pending timer for the room
func (s *scheduler) Cancel(roomID model.RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for t := range s.timers[roomID] {
		t.Stop()
	}
	delete(s.timers, roomID)
}
