package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typeracehq/typerace/internal/model"
	"github.com/typeracehq/typerace/internal/services/auth"
)

func authConfigForTest() auth.Config {
	return auth.Config{Secret: "test-secret"}
}

// TestFullRaceFlow drives a complete race through the wired services
func TestFullRaceFlow(t *testing.T) {
	app, err := NewTestApp()
	require.NoError(t, err)
	ctx := context.Background()

	created, err := app.RoomController.CreateRoom(ctx, "integration", "alice", "Alice")
	require.NoError(t, err)

	_, err = app.RoomController.Join(ctx, created.ID, "bob", "Bob")
	require.NoError(t, err)

	started, err := app.RoomController.StartCountdown(ctx, created.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, model.RoomPhaseStarted, started.Phase)

	require.NoError(t, app.Storage.SaveParagraph(ctx, &model.Paragraph{
		ID:      "p001",
		Content: "pack my box with five dozen liquor jugs",
	}))
	p, err := app.ParagraphService.Random(ctx)
	require.NoError(t, err)
	_, err = app.RoomController.AttachParagraph(ctx, created.ID, p)
	require.NoError(t, err)

	_, err = app.RoomController.ReportProgress(ctx, created.ID, "bob", 50, 70, 98)
	require.NoError(t, err)

	_, completed, err := app.RoomController.ReportFinished(ctx, created.ID, "alice", model.PlayerStats{WPM: 60, Accuracy: 95})
	require.NoError(t, err)
	assert.False(t, completed)

	final, completed, err := app.RoomController.ReportFinished(ctx, created.ID, "bob", model.PlayerStats{WPM: 72, Accuracy: 97})
	require.NoError(t, err)
	assert.True(t, completed)
	assert.Equal(t, model.RoomPhaseCompleted, final.Phase)

	standings := model.Standings(final)
	require.Len(t, standings, 2)
	assert.Equal(t, model.UserID("bob"), standings[0].UserID)
	assert.Equal(t, 1, standings[0].Rank)
}

func TestFactoryRejectsUnknownStorage(t *testing.T) {
	_, err := New(Config{StorageType: "postgres", AuthConfig: authConfigForTest()})
	require.Error(t, err)
}

func TestFactoryRequiresRedisConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis, AuthConfig: authConfigForTest()})
	require.Error(t, err)
}

func TestFactoryDefaultsToMemory(t *testing.T) {
	app, err := New(Config{AuthConfig: authConfigForTest()})
	require.NoError(t, err)
	assert.NotNil(t, app.Storage)
	assert.NotNil(t, app.Gateway)
}
