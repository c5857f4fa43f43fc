package room

import (
	"sync"

	"github.com/typeracehq/typerace/internal/model"
)

// roomLocks serializes read-modify-write cycles per room. The session
// store has no compare-and-swap primitive, so without this two
// concurrent mutations of the same room could interleave and the second
// write would drop the first one's effect.
//
// Locks are process-local; rooms are fully independent so no cross-room
// ordering is ever needed.
type roomLocks struct {
	mu    sync.Mutex
	locks map[model.RoomID]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{
		locks: make(map[model.RoomID]*sync.Mutex),
	}
}

// acquire locks the given room and returns the unlock function
func (l *roomLocks) acquire(id model.RoomID) func() {
	l.mu.Lock()
	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// forget drops the lock entry for a destroyed room
func (l *roomLocks) forget(id model.RoomID) {
	l.mu.Lock()
	delete(l.locks, id)
	l.mu.Unlock()
}
