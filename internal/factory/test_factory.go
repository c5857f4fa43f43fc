package factory

import (
	"time"

	"github.com/typeracehq/typerace/internal/dependencies/mocks"
	"github.com/typeracehq/typerace/internal/gateway"
	"github.com/typeracehq/typerace/internal/services/auth"
	"github.com/typeracehq/typerace/internal/services/room"
	"github.com/typeracehq/typerace/internal/storage/memory"
	"github.com/typeracehq/typerace/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked
// dependencies, fast gateway timers, and an in-memory store
func NewTestApp() (*TestApp, error) {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	gatewayCfg := gateway.Config{
		CountdownDelay: 20 * time.Millisecond,
		ResultsDelay:   20 * time.Millisecond,
	}
	authCfg := auth.Config{Secret: "test-secret"}

	app, err := newWithDependencies(store, mockClock, mockRandom, authCfg, room.DefaultConfig(), gatewayCfg, testutil.NopLogger())
	if err != nil {
		return nil, err
	}

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}, nil
}
